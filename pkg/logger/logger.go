package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Entry = logrus.Entry

var (
	// Logger 全局日志实例
	Logger *logrus.Logger
)

// Config 日志配置
type Config struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json
}

// Init 初始化日志器
// 日志统一写到 stderr：stdout 保留给 MCP stdio 传输通道，
// 写入 stdout 的任何诊断信息都会破坏协议流。
func Init(config Config) {
	Logger = logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if config.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FullTimestamp:   true,
		})
	}

	Logger.SetOutput(os.Stderr)
}

// InitFromEnv 从环境变量初始化日志器
func InitFromEnv() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		if os.Getenv("DEBUG") == "1" {
			level = "debug"
		} else {
			level = "info"
		}
	}

	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "text"
	}

	Init(Config{
		Level:  level,
		Format: format,
	})
}

// GetLogger 获取日志器实例
func GetLogger() *logrus.Logger {
	if Logger == nil {
		InitFromEnv()
	}
	return Logger
}

// WithComponent 创建带组件名的日志器
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// SetLevel 设置日志级别
func SetLevel(level string) {
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		l = logrus.InfoLevel
	}
	GetLogger().SetLevel(l)
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 主配置结构
type Config struct {
	// 数据源配置
	Provider ProviderConfig `mapstructure:"provider"`

	// REST 服务配置
	Server ServerConfig `mapstructure:"server"`

	// 熔断器配置
	Breaker BreakerConfig `mapstructure:"breaker"`

	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
}

// ProviderConfig Baostock 数据源配置
type ProviderConfig struct {
	Addr        string        `mapstructure:"addr"`         // 服务器地址 host:port
	DialTimeout time.Duration `mapstructure:"dial_timeout"` // TCP 连接超时
	User        string        `mapstructure:"user"`         // 登录用户（匿名即可）
	Password    string        `mapstructure:"password"`     // 登录密码
}

// ServerConfig REST 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests uint32        `mapstructure:"max_requests"` // 半开状态下的最大请求数
	Interval    time.Duration `mapstructure:"interval"`     // 统计窗口时间
	Timeout     time.Duration `mapstructure:"timeout"`      // 熔断器打开后的超时时间
	ReadyToTrip uint32        `mapstructure:"ready_to_trip"` // 触发熔断的连续失败次数
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Addr:        "www.baostock.com:17809",
			DialTimeout: 10 * time.Second,
			User:        "anonymous",
			Password:    "123456",
		},
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		Breaker: BreakerConfig{
			Enabled:     false,
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: 5,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load 加载配置：默认值 < 配置文件 < 环境变量（ASHARE_ 前缀）
// path 为空时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("provider.addr", def.Provider.Addr)
	v.SetDefault("provider.dial_timeout", def.Provider.DialTimeout)
	v.SetDefault("provider.user", def.Provider.User)
	v.SetDefault("provider.password", def.Provider.Password)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("breaker.enabled", def.Breaker.Enabled)
	v.SetDefault("breaker.max_requests", def.Breaker.MaxRequests)
	v.SetDefault("breaker.interval", def.Breaker.Interval)
	v.SetDefault("breaker.timeout", def.Breaker.Timeout)
	v.SetDefault("breaker.ready_to_trip", def.Breaker.ReadyToTrip)
	v.SetDefault("logger.level", def.Logger.Level)
	v.SetDefault("logger.format", def.Logger.Format)

	v.SetEnvPrefix("ASHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Provider.Addr == "" {
		return errors.New("provider addr cannot be empty")
	}

	if c.Provider.DialTimeout <= 0 {
		return errors.New("provider dial_timeout must be positive")
	}

	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.New("server mode must be one of debug, release, test")
	}

	if c.Breaker.Enabled {
		if c.Breaker.MaxRequests == 0 {
			return errors.New("breaker max_requests must be positive")
		}
		if c.Breaker.Timeout <= 0 {
			return errors.New("breaker timeout must be positive")
		}
		if c.Breaker.ReadyToTrip == 0 {
			return errors.New("breaker ready_to_trip must be positive")
		}
	}

	return nil
}

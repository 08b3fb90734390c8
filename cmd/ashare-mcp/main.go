package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/baostock"
	"ashare/pkg/config"
	"ashare/pkg/datasource"
	"ashare/pkg/datasource/decorators"
	"ashare/pkg/logger"
	"ashare/pkg/marketcalendar"
	"ashare/pkg/tools"
)

const (
	serverName = "a_share_data_provider"
	version    = "0.1.0"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（可选，默认只用环境变量与内置默认值）")
	showVersion := flag.Bool("version", false, "打印版本后退出")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", serverName, version)
		return
	}

	// .env 不存在时静默跳过
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdio 模式下 stdout 是协议通道，日志只能走 stderr
	logger.Init(logger.Config{Level: cfg.Logger.Level, Format: cfg.Logger.Format})
	log := logger.WithComponent("ashare-mcp")

	dialer := baostock.NewDialer(cfg.Provider)
	var source datasource.FinancialDataSource = datasource.NewBaostockDataSource(dialer)
	if cfg.Breaker.Enabled {
		source = decorators.NewCircuitBreakerSource(source, &decorators.CircuitBreakerConfig{
			Name:        "BaostockSource",
			MaxRequests: cfg.Breaker.MaxRequests,
			Interval:    cfg.Breaker.Interval,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: cfg.Breaker.ReadyToTrip,
		})
		log.Info("circuit breaker enabled for data source")
	}

	calendar := marketcalendar.NewEngine(source, nil)

	s := server.NewMCPServer(serverName, version,
		server.WithInstructions(instructions(calendar)),
	)
	tools.NewRegistry(source, calendar).RegisterAll(s)

	log.Infof("serving MCP over stdio, provider=%s", cfg.Provider.Addr)
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// instructions 生成带当前真实日期的服务说明，避免模型沿用
// 训练语料里的过期日期。
func instructions(cal *marketcalendar.Engine) string {
	today := time.Now().Format("2006-01-02")
	recent := cal.AnalysisTimeframe(marketcalendar.PeriodRecent)
	return fmt.Sprintf(`本服务提供中国A股市场数据查询工具：历史行情、公司财报、指数成份、宏观经济与交易日历。

重要：今天的真实日期是 %s。进行任何涉及"最近"、"当前"的分析时，请以该日期为准，不要使用记忆中的历史日期。

分析最近市场表现时，推荐的时间范围为：%s。也可以调用 get_market_analysis_timeframe 获取其他范围（quarter、half_year、year）。

股票代码请使用 Baostock 格式（如 sh.600000、sz.000001），写法不确定时可先调用 normalize_stock_code 规范化。`, today, recent)
}

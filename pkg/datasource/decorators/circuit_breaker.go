package decorators

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"ashare/pkg/datasource"
	"ashare/pkg/logger"
)

// CircuitBreakerSource 熔断器装饰器。
// 包装一个 FinancialDataSource，连续失败达到阈值后快速失败一段时间，
// 保护提供商不被持续打挂。不做任何重试：错误仍在第一次发生时就上抛。
type CircuitBreakerSource struct {
	source datasource.FinancialDataSource
	cb     *gobreaker.CircuitBreaker
	config *CircuitBreakerConfig
	log    *logrus.Entry
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Name        string        `mapstructure:"name"`          // 熔断器名称
	MaxRequests uint32        `mapstructure:"max_requests"`  // 半开状态下的最大请求数
	Interval    time.Duration `mapstructure:"interval"`      // 统计窗口时间
	Timeout     time.Duration `mapstructure:"timeout"`       // 熔断器打开后的超时时间
	ReadyToTrip uint32        `mapstructure:"ready_to_trip"` // 触发熔断的连续失败次数阈值
}

// DefaultCircuitBreakerConfig 默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:        "BaostockSource",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: 5,
	}
}

// NewCircuitBreakerSource 创建熔断器装饰器
func NewCircuitBreakerSource(source datasource.FinancialDataSource, config *CircuitBreakerConfig) *CircuitBreakerSource {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	log := logger.WithComponent("CircuitBreaker")

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.ReadyToTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s state changed: %v -> %v", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// 查不到数据是正常业务结局，不应计入熔断失败
			if err == nil {
				return true
			}
			_, noData := err.(*datasource.NoDataFoundError)
			return noData
		},
	}

	return &CircuitBreakerSource{
		source: source,
		cb:     gobreaker.NewCircuitBreaker(settings),
		config: config,
		log:    log,
	}
}

// execute 通过熔断器执行一次取数
func (c *CircuitBreakerSource) execute(fn func() (*datasource.Table, error)) (*datasource.Table, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, classifyBreakerError(err)
	}
	return result.(*datasource.Table), nil
}

// classifyBreakerError 保证调用方只会看到数据源定义的错误类型。
// 熔断器自身的错误（open / too many requests）包装成 DataSourceError 上抛。
func classifyBreakerError(err error) error {
	var loginErr *datasource.LoginError
	var noDataErr *datasource.NoDataFoundError
	var srcErr *datasource.DataSourceError
	if errors.As(err, &loginErr) || errors.As(err, &noDataErr) || errors.As(err, &srcErr) {
		return err
	}
	return &datasource.DataSourceError{Message: "circuit breaker open", Cause: err}
}

func (c *CircuitBreakerSource) GetHistoricalKData(ctx context.Context, code, startDate, endDate, frequency, adjustFlag string, fields []string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetHistoricalKData(ctx, code, startDate, endDate, frequency, adjustFlag, fields)
	})
}

func (c *CircuitBreakerSource) GetStockBasicInfo(ctx context.Context, code string, fields []string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetStockBasicInfo(ctx, code, fields)
	})
}

func (c *CircuitBreakerSource) GetDividendData(ctx context.Context, code, year, yearType string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetDividendData(ctx, code, year, yearType)
	})
}

func (c *CircuitBreakerSource) GetAdjustFactorData(ctx context.Context, code, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetAdjustFactorData(ctx, code, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetProfitData(ctx context.Context, code, year string, quarter int) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetProfitData(ctx, code, year, quarter)
	})
}

func (c *CircuitBreakerSource) GetOperationData(ctx context.Context, code, year string, quarter int) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetOperationData(ctx, code, year, quarter)
	})
}

func (c *CircuitBreakerSource) GetGrowthData(ctx context.Context, code, year string, quarter int) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetGrowthData(ctx, code, year, quarter)
	})
}

func (c *CircuitBreakerSource) GetBalanceData(ctx context.Context, code, year string, quarter int) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetBalanceData(ctx, code, year, quarter)
	})
}

func (c *CircuitBreakerSource) GetCashFlowData(ctx context.Context, code, year string, quarter int) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetCashFlowData(ctx, code, year, quarter)
	})
}

func (c *CircuitBreakerSource) GetDupontData(ctx context.Context, code, year string, quarter int) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetDupontData(ctx, code, year, quarter)
	})
}

func (c *CircuitBreakerSource) GetPerformanceExpressReport(ctx context.Context, code, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetPerformanceExpressReport(ctx, code, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetForecastReport(ctx context.Context, code, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetForecastReport(ctx, code, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetStockIndustry(ctx context.Context, code, date string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetStockIndustry(ctx, code, date)
	})
}

func (c *CircuitBreakerSource) GetSZ50Stocks(ctx context.Context, date string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetSZ50Stocks(ctx, date)
	})
}

func (c *CircuitBreakerSource) GetHS300Stocks(ctx context.Context, date string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetHS300Stocks(ctx, date)
	})
}

func (c *CircuitBreakerSource) GetZZ500Stocks(ctx context.Context, date string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetZZ500Stocks(ctx, date)
	})
}

func (c *CircuitBreakerSource) GetTradeDates(ctx context.Context, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetTradeDates(ctx, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetAllStock(ctx context.Context, date string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetAllStock(ctx, date)
	})
}

func (c *CircuitBreakerSource) GetDepositRateData(ctx context.Context, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetDepositRateData(ctx, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetLoanRateData(ctx context.Context, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetLoanRateData(ctx, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetRequiredReserveRatioData(ctx context.Context, startDate, endDate, yearType string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetRequiredReserveRatioData(ctx, startDate, endDate, yearType)
	})
}

func (c *CircuitBreakerSource) GetMoneySupplyDataMonth(ctx context.Context, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetMoneySupplyDataMonth(ctx, startDate, endDate)
	})
}

func (c *CircuitBreakerSource) GetMoneySupplyDataYear(ctx context.Context, startDate, endDate string) (*datasource.Table, error) {
	return c.execute(func() (*datasource.Table, error) {
		return c.source.GetMoneySupplyDataYear(ctx, startDate, endDate)
	})
}

// State 当前熔断器状态
func (c *CircuitBreakerSource) State() gobreaker.State {
	return c.cb.State()
}

var _ datasource.FinancialDataSource = (*CircuitBreakerSource)(nil)

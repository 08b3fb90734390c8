package datasource

import (
	"context"

	"ashare/pkg/logger"
)

// Cursor 提供商查询结果的游标协议。
// 状态字段在查询返回后即有效；列名在完全读取后才是权威的。
// Next 透明处理提供商侧的分页。
type Cursor interface {
	// ErrorCode 提供商状态码，"0" 表示成功
	ErrorCode() string

	// ErrorMsg 提供商状态消息
	ErrorMsg() string

	// Fields 结果列名，按提供商返回的顺序
	Fields() []string

	// Next 读取下一行，返回 false 表示读尽或出错
	Next() bool

	// Row 当前行的原始字段值
	Row() []string

	// Err 返回 Next 过程中发生的传输错误
	Err() error
}

// Session 一次已登录的提供商会话，每个数据类别一个查询方法。
// 一个会话对应一条独立连接，不得跨并发调用共享。
type Session interface {
	QueryHistoryKData(code, fields, startDate, endDate, frequency, adjustFlag string) (Cursor, error)
	QueryStockBasic(code string) (Cursor, error)
	QueryDividendData(code, year, yearType string) (Cursor, error)
	QueryAdjustFactor(code, startDate, endDate string) (Cursor, error)

	QueryProfitData(code, year string, quarter int) (Cursor, error)
	QueryOperationData(code, year string, quarter int) (Cursor, error)
	QueryGrowthData(code, year string, quarter int) (Cursor, error)
	QueryBalanceData(code, year string, quarter int) (Cursor, error)
	QueryCashFlowData(code, year string, quarter int) (Cursor, error)
	QueryDupontData(code, year string, quarter int) (Cursor, error)
	QueryPerformanceExpressReport(code, startDate, endDate string) (Cursor, error)
	QueryForecastReport(code, startDate, endDate string) (Cursor, error)

	QueryStockIndustry(code, date string) (Cursor, error)
	QuerySZ50Stocks(date string) (Cursor, error)
	QueryHS300Stocks(date string) (Cursor, error)
	QueryZZ500Stocks(date string) (Cursor, error)

	QueryTradeDates(startDate, endDate string) (Cursor, error)
	QueryAllStock(day string) (Cursor, error)

	QueryDepositRateData(startDate, endDate string) (Cursor, error)
	QueryLoanRateData(startDate, endDate string) (Cursor, error)
	QueryRequiredReserveRatioData(startDate, endDate, yearType string) (Cursor, error)
	QueryMoneySupplyDataMonth(startDate, endDate string) (Cursor, error)
	QueryMoneySupplyDataYear(startDate, endDate string) (Cursor, error)

	Close() error
}

// SessionFactory 打开已登录的会话。
// 登录失败时返回 *LoginError，此时不会产生需要关闭的会话。
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

// QueryFunc 在会话上执行一次具体查询
type QueryFunc func(s Session) (Cursor, error)

// WithSession 以受限作用域执行 body：
// 登录失败返回 *LoginError 且不调用 body；body 无论正常返回还是出错，
// 会话都会被关闭。关闭失败只记日志，不覆盖 body 的错误。
func WithSession(ctx context.Context, factory SessionFactory, body func(s Session) error) error {
	s, err := factory.Open(ctx)
	if err != nil {
		if _, ok := err.(*LoginError); ok {
			return err
		}
		return &LoginError{Message: err.Error()}
	}

	defer func() {
		if cerr := s.Close(); cerr != nil {
			logger.WithComponent("datasource").Warnf("session close failed: %v", cerr)
		}
	}()

	return body(s)
}

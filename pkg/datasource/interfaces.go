package datasource

import "context"

// FinancialDataSource 金融数据源的统一方法面。
// 每个数据类别一个方法；返回值总是 *Table 或者四类已知错误之一
// （*LoginError / *NoDataFoundError / *DataSourceError / 参数校验错误）。
// 日期参数一律为 'YYYY-MM-DD'；月度宏观序列为 'YYYY-MM'，年度为 'YYYY'。
type FinancialDataSource interface {
	// GetHistoricalKData 获取历史K线（OHLCV）数据。
	// fields 为空时使用默认字段；字段列表在查询期拼入请求。
	GetHistoricalKData(ctx context.Context, code, startDate, endDate, frequency, adjustFlag string, fields []string) (*Table, error)

	// GetStockBasicInfo 获取股票基本信息。
	// 提供商的该接口忽略字段参数，fields 在查询后做列筛选。
	GetStockBasicInfo(ctx context.Context, code string, fields []string) (*Table, error)

	// GetDividendData 获取分红信息
	GetDividendData(ctx context.Context, code, year, yearType string) (*Table, error)

	// GetAdjustFactorData 获取复权因子数据
	GetAdjustFactorData(ctx context.Context, code, startDate, endDate string) (*Table, error)

	// 季频财务数据（五个切面加杜邦指数）
	GetProfitData(ctx context.Context, code, year string, quarter int) (*Table, error)
	GetOperationData(ctx context.Context, code, year string, quarter int) (*Table, error)
	GetGrowthData(ctx context.Context, code, year string, quarter int) (*Table, error)
	GetBalanceData(ctx context.Context, code, year string, quarter int) (*Table, error)
	GetCashFlowData(ctx context.Context, code, year string, quarter int) (*Table, error)
	GetDupontData(ctx context.Context, code, year string, quarter int) (*Table, error)

	// GetPerformanceExpressReport 获取业绩快报
	GetPerformanceExpressReport(ctx context.Context, code, startDate, endDate string) (*Table, error)

	// GetForecastReport 获取业绩预告
	GetForecastReport(ctx context.Context, code, startDate, endDate string) (*Table, error)

	// GetStockIndustry 获取行业分类，code 与 date 均可为空
	GetStockIndustry(ctx context.Context, code, date string) (*Table, error)

	// 指数成分股，date 为空时取最新
	GetSZ50Stocks(ctx context.Context, date string) (*Table, error)
	GetHS300Stocks(ctx context.Context, date string) (*Table, error)
	GetZZ500Stocks(ctx context.Context, date string) (*Table, error)

	// GetTradeDates 获取交易日历，必须限定日期范围
	GetTradeDates(ctx context.Context, startDate, endDate string) (*Table, error)

	// GetAllStock 获取指定日期的全部证券及交易状态
	GetAllStock(ctx context.Context, date string) (*Table, error)

	// 宏观经济序列
	GetDepositRateData(ctx context.Context, startDate, endDate string) (*Table, error)
	GetLoanRateData(ctx context.Context, startDate, endDate string) (*Table, error)
	GetRequiredReserveRatioData(ctx context.Context, startDate, endDate, yearType string) (*Table, error)
	GetMoneySupplyDataMonth(ctx context.Context, startDate, endDate string) (*Table, error)
	GetMoneySupplyDataYear(ctx context.Context, startDate, endDate string) (*Table, error)
}

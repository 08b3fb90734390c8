package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ashare/pkg/logger"
)

// DefaultKFields K线查询的默认字段
var DefaultKFields = []string{
	"date", "code", "open", "high", "low", "close", "preclose",
	"volume", "amount", "adjustflag", "turn", "tradestatus",
	"pctChg", "peTTM", "pbMRQ", "psTTM", "pcfNcfTTM", "isST",
}

// DefaultBasicFields 基本信息筛选的默认字段
var DefaultBasicFields = []string{"code", "tradeStatus", "code_name"}

// BaostockDataSource 基于 Baostock 会话工厂的 FinancialDataSource 实现。
// 不持有任何跨调用状态，每个方法打开并关闭自己的会话。
type BaostockDataSource struct {
	factory SessionFactory
	log     *logrus.Entry
}

// NewBaostockDataSource 创建数据源
func NewBaostockDataSource(factory SessionFactory) *BaostockDataSource {
	return &BaostockDataSource{
		factory: factory,
		log:     logger.WithComponent("BaostockDataSource"),
	}
}

// formatFields 把字段列表拼成提供商要求的逗号分隔串。
// 空列表退回默认字段；含空白项视为非法参数。
func formatFields(fields, defaults []string) (string, error) {
	if len(fields) == 0 {
		return strings.Join(defaults, ","), nil
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return "", fmt.Errorf("fields list contains an empty item: %v", fields)
		}
	}
	return strings.Join(fields, ","), nil
}

func (ds *BaostockDataSource) GetHistoricalKData(ctx context.Context, code, startDate, endDate, frequency, adjustFlag string, fields []string) (*Table, error) {
	ds.log.Infof("fetching K-data for %s (%s to %s), freq=%s, adjust=%s", code, startDate, endDate, frequency, adjustFlag)

	formatted, err := formatFields(fields, DefaultKFields)
	if err != nil {
		return nil, err
	}

	args := map[string]string{
		"code": code, "start_date": startDate, "end_date": endDate,
		"frequency": frequency, "adjust_flag": adjustFlag,
	}
	return Fetch(ctx, ds.factory, "K-line", args, func(s Session) (Cursor, error) {
		return s.QueryHistoryKData(code, formatted, startDate, endDate, frequency, adjustFlag)
	})
}

func (ds *BaostockDataSource) GetStockBasicInfo(ctx context.Context, code string, fields []string) (*Table, error) {
	ds.log.Infof("fetching basic info for %s", code)

	// 提供商的 query_stock_basic 不接受字段参数，返回固定列集，
	// 因此字段筛选放在查询之后进行
	args := map[string]string{"code": code}
	table, err := Fetch(ctx, ds.factory, "basic info", args, func(s Session) (Cursor, error) {
		return s.QueryStockBasic(code)
	})
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		selected, err := table.SelectColumns(fields)
		if err != nil {
			return nil, err
		}
		return selected, nil
	}
	return table, nil
}

func (ds *BaostockDataSource) GetDividendData(ctx context.Context, code, year, yearType string) (*Table, error) {
	args := map[string]string{"code": code, "year": year, "year_type": yearType}
	return Fetch(ctx, ds.factory, "dividend", args, func(s Session) (Cursor, error) {
		return s.QueryDividendData(code, year, yearType)
	})
}

func (ds *BaostockDataSource) GetAdjustFactorData(ctx context.Context, code, startDate, endDate string) (*Table, error) {
	args := map[string]string{"code": code, "start_date": startDate, "end_date": endDate}
	return Fetch(ctx, ds.factory, "adjust factor", args, func(s Session) (Cursor, error) {
		return s.QueryAdjustFactor(code, startDate, endDate)
	})
}

// fetchFinancial 季频财务切面的公共路径：参数形状完全一致，只有查询函数不同
func (ds *BaostockDataSource) fetchFinancial(ctx context.Context, label, code, year string, quarter int, query func(s Session, code, year string, quarter int) (Cursor, error)) (*Table, error) {
	ds.log.Infof("fetching %s data for %s, year=%s, quarter=%d", label, code, year, quarter)
	args := map[string]string{"code": code, "year": year, "quarter": fmt.Sprintf("%d", quarter)}
	return Fetch(ctx, ds.factory, label, args, func(s Session) (Cursor, error) {
		return query(s, code, year, quarter)
	})
}

func (ds *BaostockDataSource) GetProfitData(ctx context.Context, code, year string, quarter int) (*Table, error) {
	return ds.fetchFinancial(ctx, "profitability", code, year, quarter, Session.QueryProfitData)
}

func (ds *BaostockDataSource) GetOperationData(ctx context.Context, code, year string, quarter int) (*Table, error) {
	return ds.fetchFinancial(ctx, "operation capability", code, year, quarter, Session.QueryOperationData)
}

func (ds *BaostockDataSource) GetGrowthData(ctx context.Context, code, year string, quarter int) (*Table, error) {
	return ds.fetchFinancial(ctx, "growth capability", code, year, quarter, Session.QueryGrowthData)
}

func (ds *BaostockDataSource) GetBalanceData(ctx context.Context, code, year string, quarter int) (*Table, error) {
	return ds.fetchFinancial(ctx, "balance sheet", code, year, quarter, Session.QueryBalanceData)
}

func (ds *BaostockDataSource) GetCashFlowData(ctx context.Context, code, year string, quarter int) (*Table, error) {
	return ds.fetchFinancial(ctx, "cash flow", code, year, quarter, Session.QueryCashFlowData)
}

func (ds *BaostockDataSource) GetDupontData(ctx context.Context, code, year string, quarter int) (*Table, error) {
	return ds.fetchFinancial(ctx, "dupont analysis", code, year, quarter, Session.QueryDupontData)
}

func (ds *BaostockDataSource) GetPerformanceExpressReport(ctx context.Context, code, startDate, endDate string) (*Table, error) {
	args := map[string]string{"code": code, "start_date": startDate, "end_date": endDate}
	return Fetch(ctx, ds.factory, "performance express report", args, func(s Session) (Cursor, error) {
		return s.QueryPerformanceExpressReport(code, startDate, endDate)
	})
}

func (ds *BaostockDataSource) GetForecastReport(ctx context.Context, code, startDate, endDate string) (*Table, error) {
	args := map[string]string{"code": code, "start_date": startDate, "end_date": endDate}
	return Fetch(ctx, ds.factory, "performance forecast report", args, func(s Session) (Cursor, error) {
		return s.QueryForecastReport(code, startDate, endDate)
	})
}

func (ds *BaostockDataSource) GetStockIndustry(ctx context.Context, code, date string) (*Table, error) {
	args := map[string]string{"code": orDefault(code, "all"), "date": orDefault(date, "latest")}
	return Fetch(ctx, ds.factory, "industry", args, func(s Session) (Cursor, error) {
		return s.QueryStockIndustry(code, date)
	})
}

// fetchConstituents 指数成分股的公共路径
func (ds *BaostockDataSource) fetchConstituents(ctx context.Context, indexName, date string, query func(s Session, date string) (Cursor, error)) (*Table, error) {
	ds.log.Infof("fetching %s constituents for date=%s", indexName, orDefault(date, "latest"))
	args := map[string]string{"index": indexName, "date": orDefault(date, "latest")}
	return Fetch(ctx, ds.factory, indexName+" constituents", args, func(s Session) (Cursor, error) {
		return query(s, date)
	})
}

func (ds *BaostockDataSource) GetSZ50Stocks(ctx context.Context, date string) (*Table, error) {
	return ds.fetchConstituents(ctx, "SSE 50", date, Session.QuerySZ50Stocks)
}

func (ds *BaostockDataSource) GetHS300Stocks(ctx context.Context, date string) (*Table, error) {
	return ds.fetchConstituents(ctx, "CSI 300", date, Session.QueryHS300Stocks)
}

func (ds *BaostockDataSource) GetZZ500Stocks(ctx context.Context, date string) (*Table, error) {
	return ds.fetchConstituents(ctx, "CSI 500", date, Session.QueryZZ500Stocks)
}

func (ds *BaostockDataSource) GetTradeDates(ctx context.Context, startDate, endDate string) (*Table, error) {
	args := map[string]string{"start_date": orDefault(startDate, "default"), "end_date": orDefault(endDate, "default")}
	return Fetch(ctx, ds.factory, "trade dates", args, func(s Session) (Cursor, error) {
		return s.QueryTradeDates(startDate, endDate)
	})
}

func (ds *BaostockDataSource) GetAllStock(ctx context.Context, date string) (*Table, error) {
	args := map[string]string{"date": orDefault(date, "default")}
	return Fetch(ctx, ds.factory, "all stock", args, func(s Session) (Cursor, error) {
		return s.QueryAllStock(date)
	})
}

// fetchMacro 宏观序列的公共路径
func (ds *BaostockDataSource) fetchMacro(ctx context.Context, label, startDate, endDate string, query func(s Session, start, end string) (Cursor, error)) (*Table, error) {
	ds.log.Infof("fetching %s data from %s to %s", label, orDefault(startDate, "default"), orDefault(endDate, "default"))
	args := map[string]string{"start_date": orDefault(startDate, "default"), "end_date": orDefault(endDate, "default")}
	return Fetch(ctx, ds.factory, label, args, func(s Session) (Cursor, error) {
		return query(s, startDate, endDate)
	})
}

func (ds *BaostockDataSource) GetDepositRateData(ctx context.Context, startDate, endDate string) (*Table, error) {
	return ds.fetchMacro(ctx, "deposit rate", startDate, endDate, Session.QueryDepositRateData)
}

func (ds *BaostockDataSource) GetLoanRateData(ctx context.Context, startDate, endDate string) (*Table, error) {
	return ds.fetchMacro(ctx, "loan rate", startDate, endDate, Session.QueryLoanRateData)
}

func (ds *BaostockDataSource) GetRequiredReserveRatioData(ctx context.Context, startDate, endDate, yearType string) (*Table, error) {
	args := map[string]string{
		"start_date": orDefault(startDate, "default"),
		"end_date":   orDefault(endDate, "default"),
		"year_type":  yearType,
	}
	return Fetch(ctx, ds.factory, "required reserve ratio", args, func(s Session) (Cursor, error) {
		return s.QueryRequiredReserveRatioData(startDate, endDate, yearType)
	})
}

func (ds *BaostockDataSource) GetMoneySupplyDataMonth(ctx context.Context, startDate, endDate string) (*Table, error) {
	// 日期格式为 YYYY-MM
	return ds.fetchMacro(ctx, "monthly money supply", startDate, endDate, Session.QueryMoneySupplyDataMonth)
}

func (ds *BaostockDataSource) GetMoneySupplyDataYear(ctx context.Context, startDate, endDate string) (*Table, error) {
	// 日期格式为 YYYY
	return ds.fetchMacro(ctx, "yearly money supply", startDate, endDate, Session.QueryMoneySupplyDataYear)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var _ FinancialDataSource = (*BaostockDataSource)(nil)

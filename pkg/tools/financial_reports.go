package tools

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/datasource"
	"ashare/pkg/format"
)

// quarterlyFetch 按「代码+年份+季度」取数的财报查询。
type quarterlyFetch func(ctx context.Context, code, year string, quarter int) (*datasource.Table, error)

// rangeFetch 按「代码+日期范围」取数的财报查询。
type rangeFetch func(ctx context.Context, code, startDate, endDate string) (*datasource.Table, error)

// registerFinancialReportTools 注册财务报表工具：六张季度财务
// 指标表，以及业绩快报与业绩预告两张区间表。
func (r *Registry) registerFinancialReportTools(s *server.MCPServer) {
	r.addQuarterlyTool(s, "get_profit_data", "获取指定股票的季度盈利能力数据（ROE、净利率等）。",
		r.source.GetProfitData)
	r.addQuarterlyTool(s, "get_operation_data", "获取指定股票的季度营运能力数据（周转率等）。",
		r.source.GetOperationData)
	r.addQuarterlyTool(s, "get_growth_data", "获取指定股票的季度成长能力数据（同比增长率等）。",
		r.source.GetGrowthData)
	r.addQuarterlyTool(s, "get_balance_data", "获取指定股票的季度偿债能力数据（流动比率、负债率等）。",
		r.source.GetBalanceData)
	r.addQuarterlyTool(s, "get_cash_flow_data", "获取指定股票的季度现金流数据（现金流与收入之比等）。",
		r.source.GetCashFlowData)
	r.addQuarterlyTool(s, "get_dupont_data", "获取指定股票的季度杜邦分析数据（ROE分解）。",
		r.source.GetDupontData)

	r.addReportRangeTool(s, "get_performance_express_report",
		"获取指定股票在日期范围内的业绩快报。注意：公司仅在特定情形下才披露业绩快报。",
		r.source.GetPerformanceExpressReport)
	r.addReportRangeTool(s, "get_forecast_report",
		"获取指定股票在日期范围内的业绩预告。注意：公司仅在特定情形下才披露业绩预告。",
		r.source.GetForecastReport)
}

func (r *Registry) addQuarterlyTool(s *server.MCPServer, name, description string, fetch quarterlyFetch) {
	s.AddTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("code", mcp.Required(), mcp.Description("Baostock格式的股票代码（如 'sh.600000'）")),
		mcp.WithString("year", mcp.Required(), mcp.Description("4位数字年份，如 '2023'")),
		mcp.WithNumber("quarter", mcp.Required(), mcp.Description("季度，1-4")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := req.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError("Error: 'code' is required."), nil
		}
		year, err := req.RequireString("year")
		if err != nil {
			return mcp.NewToolResultError("Error: 'year' is required."), nil
		}
		quarter, err := req.RequireInt("quarter")
		if err != nil {
			return mcp.NewToolResultError("Error: 'quarter' is required and must be a number."), nil
		}
		limit, formatName := outputOptions(req)

		log := r.callLogger(name)
		log.Infof("called for %s, year=%s, quarter=%d", code, year, quarter)

		if err := ValidateYear(year); err != nil {
			return paramError(log, err), nil
		}
		if err := ValidateQuarter(quarter); err != nil {
			return paramError(log, err), nil
		}

		table, err := fetch(ctx, code, year, quarter)
		meta := format.Meta{"code": code, "year": year, "quarter": strconv.Itoa(quarter)}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})
}

func (r *Registry) addReportRangeTool(s *server.MCPServer, name, description string, fetch rangeFetch) {
	s.AddTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("code", mcp.Required(), mcp.Description("Baostock格式的股票代码（如 'sh.600000'）")),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("开始日期，'YYYY-MM-DD'")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("结束日期，'YYYY-MM-DD'")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := req.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError("Error: 'code' is required."), nil
		}
		startDate, err := req.RequireString("start_date")
		if err != nil {
			return mcp.NewToolResultError("Error: 'start_date' is required."), nil
		}
		endDate, err := req.RequireString("end_date")
		if err != nil {
			return mcp.NewToolResultError("Error: 'end_date' is required."), nil
		}
		limit, formatName := outputOptions(req)

		log := r.callLogger(name)
		log.Infof("called for %s (%s to %s)", code, startDate, endDate)

		table, err := fetch(ctx, code, startDate, endDate)
		meta := format.Meta{"code": code, "start_date": startDate, "end_date": endDate}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})
}

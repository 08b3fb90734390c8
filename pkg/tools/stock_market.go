package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/format"
)

// registerStockMarketTools 注册个股行情相关工具：
// K线、基本信息、分红、复权因子。
func (r *Registry) registerStockMarketTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_historical_k_data",
		mcp.WithDescription("获取中国A股市场的历史K线（OHLCV）数据。结果集过大时会按 limit 截断。"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Baostock格式的股票代码（如 'sh.600000', 'sz.000001'）")),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("开始日期，'YYYY-MM-DD'")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("结束日期，'YYYY-MM-DD'")),
		mcp.WithString("frequency", mcp.DefaultString("d"), mcp.Description("数据频率：d=日线 w=周线 m=月线 5/15/30/60=分钟线")),
		mcp.WithString("adjust_flag", mcp.DefaultString("3"), mcp.Description("复权标记：1=后复权 2=前复权 3=不复权")),
		mcp.WithArray("fields", mcp.Description("要检索的字段列表，缺省使用默认字段集"), mcp.Items(map[string]any{"type": "string"})),
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
		frequency := req.GetString("frequency", "d")
		adjustFlag := req.GetString("adjust_flag", "3")
		fields := req.GetStringSlice("fields", nil)
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_historical_k_data")
		log.Infof("called for %s (%s to %s), freq=%s, adjust=%s", code, startDate, endDate, frequency, adjustFlag)

		if err := ValidateFrequency(frequency); err != nil {
			return paramError(log, err), nil
		}
		if err := ValidateAdjustFlag(adjustFlag); err != nil {
			return paramError(log, err), nil
		}

		table, err := r.source.GetHistoricalKData(ctx, code, startDate, endDate, frequency, adjustFlag, fields)
		meta := format.Meta{
			"code": code, "start_date": startDate, "end_date": endDate,
			"frequency": frequency, "adjust_flag": adjustFlag,
		}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})

	s.AddTool(mcp.NewTool("get_stock_basic_info",
		mcp.WithDescription("获取指定A股股票的基本信息（名称、上市日期、交易状态等）。"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Baostock格式的股票代码（如 'sh.600000'）")),
		mcp.WithArray("fields", mcp.Description("可选的列筛选，选出的列必须与结果列有交集"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := req.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError("Error: 'code' is required."), nil
		}
		fields := req.GetStringSlice("fields", nil)
		formatName := req.GetString("format", format.Markdown)

		log := r.callLogger("get_stock_basic_info")
		log.Infof("called for %s, fields=%v", code, fields)

		table, err := r.source.GetStockBasicInfo(ctx, code, fields)
		return r.respond(log, table, err, formatName, format.MaxRows, format.Meta{"code": code}), nil
	})

	s.AddTool(mcp.NewTool("get_dividend_data",
		mcp.WithDescription("获取指定股票在指定年份的分红信息。"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Baostock格式的股票代码")),
		mcp.WithString("year", mcp.Required(), mcp.Description("4位数字年份，如 '2023'")),
		mcp.WithString("year_type", mcp.DefaultString("report"), mcp.Enum(ValidYearTypes...), mcp.Description("年份类型：report=预案公告年份 operate=除权除息年份")),
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
		yearType := req.GetString("year_type", "report")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_dividend_data")
		log.Infof("called for %s, year=%s, year_type=%s", code, year, yearType)

		if err := ValidateYear(year); err != nil {
			return paramError(log, err), nil
		}
		if err := ValidateYearType(yearType); err != nil {
			return paramError(log, err), nil
		}

		table, err := r.source.GetDividendData(ctx, code, year, yearType)
		meta := format.Meta{"code": code, "year": year, "year_type": yearType}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})

	s.AddTool(mcp.NewTool("get_adjust_factor_data",
		mcp.WithDescription("获取指定股票在日期范围内的复权因子数据。"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Baostock格式的股票代码")),
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

		log := r.callLogger("get_adjust_factor_data")
		log.Infof("called for %s (%s to %s)", code, startDate, endDate)

		table, err := r.source.GetAdjustFactorData(ctx, code, startDate, endDate)
		meta := format.Meta{"code": code, "start_date": startDate, "end_date": endDate}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})
}

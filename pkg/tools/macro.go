package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/datasource"
	"ashare/pkg/format"
)

// registerMacroTools 注册宏观经济数据工具：基准利率、存款准备金率
// 与货币供应量。
func (r *Registry) registerMacroTools(s *server.MCPServer) {
	r.addMacroRangeTool(s, "get_deposit_rate_data",
		"获取指定范围内的基准存款利率（活期、定期）。", r.source.GetDepositRateData)
	r.addMacroRangeTool(s, "get_loan_rate_data",
		"获取指定范围内的基准贷款利率。", r.source.GetLoanRateData)

	s.AddTool(mcp.NewTool("get_required_reserve_ratio_data",
		mcp.WithDescription("获取指定范围内的存款准备金率。"),
		mcp.WithString("start_date", mcp.Description("可选。开始日期 'YYYY-MM-DD'")),
		mcp.WithString("end_date", mcp.Description("可选。结束日期 'YYYY-MM-DD'")),
		mcp.WithString("year_type", mcp.DefaultString("0"), mcp.Enum("0", "1"), mcp.Description("日期类型：0=公告日期 1=生效日期")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate := req.GetString("start_date", "")
		endDate := req.GetString("end_date", "")
		yearType := req.GetString("year_type", "0")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_required_reserve_ratio_data")
		log.Infof("called for range %q to %q, year_type=%s", startDate, endDate, yearType)

		if err := ensureIn(yearType, []string{"0", "1"}, "year_type"); err != nil {
			return paramError(log, err), nil
		}

		table, err := r.source.GetRequiredReserveRatioData(ctx, startDate, endDate, yearType)
		meta := format.Meta{"start_date": startDate, "end_date": endDate, "year_type": yearType}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})

	r.addMacroRangeTool(s, "get_money_supply_data_month",
		"获取指定范围内的月度货币供应量数据（M0、M1、M2）。日期格式 'YYYY-MM'。", r.source.GetMoneySupplyDataMonth)
	r.addMacroRangeTool(s, "get_money_supply_data_year",
		"获取指定范围内的年度货币供应量数据（M0、M1、M2年末余额）。日期格式 'YYYY'。", r.source.GetMoneySupplyDataYear)
}

func (r *Registry) addMacroRangeTool(s *server.MCPServer, name, description string,
	fetch func(ctx context.Context, startDate, endDate string) (*datasource.Table, error)) {
	s.AddTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("start_date", mcp.Description("可选。开始日期")),
		mcp.WithString("end_date", mcp.Description("可选。结束日期")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate := req.GetString("start_date", "")
		endDate := req.GetString("end_date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger(name)
		log.Infof("called for range %q to %q", startDate, endDate)

		table, err := fetch(ctx, startDate, endDate)
		meta := format.Meta{"start_date": startDate, "end_date": endDate}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})
}

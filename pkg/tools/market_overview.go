package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/datasource"
	"ashare/pkg/format"
)

// registerMarketOverviewTools 注册全市场视图相关工具：
// 交易日历、全部证券列表、按关键词检索与停牌筛查。
func (r *Registry) registerMarketOverviewTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_trade_dates",
		mcp.WithDescription("获取指定范围内的交易日历，标记每一天是否为交易日。"),
		mcp.WithString("start_date", mcp.Description("可选。开始日期 'YYYY-MM-DD'，为空默认2015-01-01")),
		mcp.WithString("end_date", mcp.Description("可选。结束日期 'YYYY-MM-DD'，为空表示当前日期")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate := req.GetString("start_date", "")
		endDate := req.GetString("end_date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_trade_dates")
		log.Infof("called for range %q to %q", startDate, endDate)

		table, err := r.source.GetTradeDates(ctx, startDate, endDate)
		meta := format.Meta{"start_date": startDate, "end_date": endDate}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})

	s.AddTool(mcp.NewTool("get_all_stock",
		mcp.WithDescription("获取指定日期全部证券（股票与指数）的列表及其交易状态。"),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示当前日期")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_all_stock")
		log.Infof("called for date=%q", date)

		table, err := r.source.GetAllStock(ctx, date)
		return r.respond(log, table, err, formatName, limit, format.Meta{"date": date}), nil
	})

	s.AddTool(mcp.NewTool("search_stocks",
		mcp.WithDescription("按代码或名称关键词检索证券。对代码做子串匹配，对名称做不区分大小写的子串匹配。"),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("检索关键词，如 '银行'、'600'")),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示当前日期")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := req.RequireString("keyword")
		if err != nil {
			return mcp.NewToolResultError("Error: 'keyword' is required."), nil
		}
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("search_stocks")
		log.Infof("called for keyword=%q, date=%q", keyword, date)

		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return paramError(log, errEmptyKeyword), nil
		}

		table, err := r.source.GetAllStock(ctx, date)
		if err == nil {
			table = matchStocks(table, keyword)
		}
		meta := format.Meta{"keyword": keyword, "date": date}
		return r.respond(log, table, err, formatName, limit, meta), nil
	})

	s.AddTool(mcp.NewTool("get_suspensions",
		mcp.WithDescription("获取指定日期处于停牌状态（tradeStatus=0）的证券列表。"),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示当前日期")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_suspensions")
		log.Infof("called for date=%q", date)

		table, err := r.source.GetAllStock(ctx, date)
		if err == nil {
			table = table.FilterRows("tradeStatus", func(v string) bool { return v == "0" })
		}
		return r.respond(log, table, err, formatName, limit, format.Meta{"date": date}), nil
	})
}

// matchStocks 在证券列表上做关键词过滤。代码列按原样做子串匹配，
// 名称列匹配时忽略大小写。
func matchStocks(table *datasource.Table, keyword string) *datasource.Table {
	codeIdx := table.ColumnIndex("code")
	nameIdx := table.ColumnIndex("code_name")
	lower := strings.ToLower(keyword)

	out := &datasource.Table{Columns: table.Columns}
	for _, row := range table.Rows {
		if codeIdx >= 0 && codeIdx < len(row) && strings.Contains(row[codeIdx], keyword) {
			out.Rows = append(out.Rows, row)
			continue
		}
		if nameIdx >= 0 && nameIdx < len(row) && strings.Contains(strings.ToLower(row[nameIdx]), lower) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

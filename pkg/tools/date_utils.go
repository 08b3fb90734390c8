package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/marketcalendar"
)

// registerDateTools 注册交易日历工具。其中最近交易日与前后
// 交易日查询在数据源异常时退化为输入日期，不向调用方报错。
func (r *Registry) registerDateTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_latest_trading_date",
		mcp.WithDescription("获取最近的A股交易日（'YYYY-MM-DD'）。数据源不可用时返回当前日期。"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := r.callLogger("get_latest_trading_date")
		log.Info("called")

		date := r.calendar.LatestTradingDay(ctx)
		return mcp.NewToolResultText(date), nil
	})

	s.AddTool(mcp.NewTool("get_market_analysis_timeframe",
		mcp.WithDescription("获取适合市场分析的时间范围描述，基于当前真实日期。"+
			"返回形如 '2025年上半年 (ISO: 2025-01-01 to 2025-06-30)' 的字符串。"),
		mcp.WithString("period", mcp.DefaultString(marketcalendar.PeriodRecent),
			mcp.Enum(marketcalendar.ValidPeriods...),
			mcp.Description("时间范围类型：recent=最近1-2个月 quarter=最近一个季度 half_year=最近半年 year=最近一年")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		period := req.GetString("period", marketcalendar.PeriodRecent)

		log := r.callLogger("get_market_analysis_timeframe")
		log.Infof("called for period=%s", period)

		if err := ensureIn(period, marketcalendar.ValidPeriods, "period"); err != nil {
			return paramError(log, err), nil
		}
		return mcp.NewToolResultText(r.calendar.AnalysisTimeframe(period).String()), nil
	})

	s.AddTool(mcp.NewTool("is_trading_day",
		mcp.WithDescription("判断指定日期是否为A股交易日。"),
		mcp.WithString("date", mcp.Required(), mcp.Description("查询日期 'YYYY-MM-DD'")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := req.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError("Error: 'date' is required."), nil
		}

		log := r.callLogger("is_trading_day")
		log.Infof("called for date=%s", date)

		if err := ValidateDate(date); err != nil {
			return paramError(log, err), nil
		}

		trading, err := r.calendar.IsTradingDay(ctx, date)
		if err != nil {
			return errorResult(log, err), nil
		}
		if trading {
			return mcp.NewToolResultText(fmt.Sprintf("%s is a trading day.", date)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s is not a trading day.", date)), nil
	})

	s.AddTool(mcp.NewTool("get_previous_trading_date",
		mcp.WithDescription("获取指定日期之前最近的交易日。找不到时返回输入日期本身。"),
		mcp.WithString("date", mcp.Required(), mcp.Description("基准日期 'YYYY-MM-DD'")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := req.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError("Error: 'date' is required."), nil
		}

		log := r.callLogger("get_previous_trading_date")
		log.Infof("called for date=%s", date)

		return mcp.NewToolResultText(r.calendar.PreviousTradingDay(ctx, date)), nil
	})

	s.AddTool(mcp.NewTool("get_next_trading_date",
		mcp.WithDescription("获取指定日期之后最近的交易日。找不到时返回输入日期本身。"),
		mcp.WithString("date", mcp.Required(), mcp.Description("基准日期 'YYYY-MM-DD'")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := req.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError("Error: 'date' is required."), nil
		}

		log := r.callLogger("get_next_trading_date")
		log.Infof("called for date=%s", date)

		return mcp.NewToolResultText(r.calendar.NextTradingDay(ctx, date)), nil
	})
}

package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/datasource"
	"ashare/pkg/format"
)

// ValidIndexCodes get_index_constituents 可用的指数标识
var ValidIndexCodes = []string{"sz50", "hs300", "zz500"}

// registerIndexTools 注册指数相关工具：行业分类与三大指数成份股。
func (r *Registry) registerIndexTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_stock_industry",
		mcp.WithDescription("获取指定股票或全部股票的行业分类。code 为空时返回全市场。"),
		mcp.WithString("code", mcp.Description("可选。Baostock格式的股票代码（如 'sh.600000'），为空表示全部股票")),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示最新数据")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code := req.GetString("code", "")
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_stock_industry")
		log.Infof("called for code=%q, date=%q", code, date)

		table, err := r.source.GetStockIndustry(ctx, code, date)
		return r.respond(log, table, err, formatName, limit, format.Meta{"code": code, "date": date}), nil
	})

	r.addConstituentTool(s, "get_sz50_stocks", "获取指定日期的上证50指数成份股。", r.source.GetSZ50Stocks)
	r.addConstituentTool(s, "get_hs300_stocks", "获取指定日期的沪深300指数成份股。", r.source.GetHS300Stocks)
	r.addConstituentTool(s, "get_zz500_stocks", "获取指定日期的中证500指数成份股。", r.source.GetZZ500Stocks)

	s.AddTool(mcp.NewTool("get_index_constituents",
		mcp.WithDescription("按指数标识获取成份股：sz50=上证50，hs300=沪深300，zz500=中证500。"),
		mcp.WithString("index", mcp.Required(), mcp.Enum(ValidIndexCodes...), mcp.Description("指数标识")),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示最新成份")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := req.RequireString("index")
		if err != nil {
			return mcp.NewToolResultError("Error: 'index' is required."), nil
		}
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_index_constituents")
		log.Infof("called for index=%q, date=%q", index, date)

		fetch, err := r.constituentFetcher(index)
		if err != nil {
			return paramError(log, err), nil
		}
		table, err := fetch(ctx, date)
		return r.respond(log, table, err, formatName, limit, format.Meta{"index": strings.ToLower(strings.TrimSpace(index)), "date": date}), nil
	})

	s.AddTool(mcp.NewTool("list_industries",
		mcp.WithDescription("列出指定日期存在的全部行业名称（去重后的单列表）。"),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示最新数据")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := req.GetString("date", "")
		formatName := req.GetString("format", format.Markdown)

		log := r.callLogger("list_industries")
		log.Infof("called for date=%q", date)

		table, err := r.source.GetStockIndustry(ctx, "", date)
		if err != nil {
			return errorResult(log, err), nil
		}
		out := distinctIndustries(table)
		return r.respond(log, out, nil, formatName, out.Len(), format.Meta{"date": date}), nil
	})

	s.AddTool(mcp.NewTool("get_industry_members",
		mcp.WithDescription("获取指定行业在某一日期的全部股票。行业名称可先用 list_industries 查询。"),
		mcp.WithString("industry", mcp.Required(), mcp.Description("行业名称，精确匹配")),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示最新数据")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		industry, err := req.RequireString("industry")
		if err != nil || strings.TrimSpace(industry) == "" {
			return mcp.NewToolResultError("Error: 'industry' is required. Call list_industries to discover available values."), nil
		}
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger("get_industry_members")
		log.Infof("called for industry=%q, date=%q", industry, date)

		table, err := r.source.GetStockIndustry(ctx, "", date)
		if err != nil {
			return errorResult(log, err), nil
		}
		return r.respond(log, industryMembers(table, industry), nil, formatName, limit, format.Meta{"industry": industry, "date": date}), nil
	})
}

// constituentFetcher 把指数标识映射到对应的成份股查询
func (r *Registry) constituentFetcher(index string) (func(ctx context.Context, date string) (*datasource.Table, error), error) {
	switch strings.ToLower(strings.TrimSpace(index)) {
	case "sz50":
		return r.source.GetSZ50Stocks, nil
	case "hs300":
		return r.source.GetHS300Stocks, nil
	case "zz500":
		return r.source.GetZZ500Stocks, nil
	default:
		return nil, fmt.Errorf("invalid index '%s'. Valid options are: %s", index, strings.Join(ValidIndexCodes, ", "))
	}
}

// industryColumn 行业列优先取名为 industry 的列，缺失时退回最后一列
func industryColumn(table *datasource.Table) string {
	if table.ColumnIndex("industry") >= 0 {
		return "industry"
	}
	if len(table.Columns) == 0 {
		return ""
	}
	return table.Columns[len(table.Columns)-1]
}

// distinctIndustries 从行业分类表提取去重并排序后的行业名称单列表
func distinctIndustries(table *datasource.Table) *datasource.Table {
	col := industryColumn(table)
	idx := table.ColumnIndex(col)
	out := &datasource.Table{Columns: []string{"industry"}}
	if idx < 0 {
		return out
	}
	seen := make(map[string]bool)
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		name := row[idx]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out.Rows = append(out.Rows, []string{name})
	}
	sort.Slice(out.Rows, func(i, j int) bool { return out.Rows[i][0] < out.Rows[j][0] })
	return out
}

// industryMembers 按行业名称精确过滤行业分类表
func industryMembers(table *datasource.Table, industry string) *datasource.Table {
	col := industryColumn(table)
	return table.FilterRows(col, func(value string) bool { return value == industry })
}

func (r *Registry) addConstituentTool(s *server.MCPServer, name, description string,
	fetch func(ctx context.Context, date string) (*datasource.Table, error)) {
	s.AddTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("date", mcp.Description("可选。查询日期 'YYYY-MM-DD'，为空表示最新成份")),
		mcp.WithNumber("limit", mcp.DefaultNumber(format.MaxRows), mcp.Description("返回的最大行数")),
		mcp.WithString("format", mcp.DefaultString(format.Markdown), mcp.Enum(format.ValidFormats...), mcp.Description("输出格式")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := req.GetString("date", "")
		limit, formatName := outputOptions(req)

		log := r.callLogger(name)
		log.Infof("called for date=%q", date)

		table, err := fetch(ctx, date)
		return r.respond(log, table, err, formatName, limit, format.Meta{"date": date}), nil
	})
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ashare/pkg/format"
	"ashare/pkg/marketcalendar"
	"ashare/pkg/symbol"
)

// registerHelperTools 注册不访问数据源的辅助工具。
func (r *Registry) registerHelperTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("normalize_stock_code",
		mcp.WithDescription("将常见写法的股票代码规范化为Baostock格式。"+
			"支持 'sh600000'、'600000.SH'、'600000' 等写法，输出形如 'sh.600000'。"),
		mcp.WithString("code", mcp.Required(), mcp.Description("任意常见写法的股票代码")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := req.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError("Error: 'code' is required."), nil
		}

		log := r.callLogger("normalize_stock_code")
		log.Infof("called for code=%q", code)

		normalized, err := symbol.Normalize(code)
		if err != nil {
			return paramError(log, err), nil
		}
		return mcp.NewToolResultText(normalized), nil
	})

	s.AddTool(mcp.NewTool("list_tool_constants",
		mcp.WithDescription("列出各工具参数的合法取值（频率、复权标记、年份类型、指数标识、输出格式、时间范围类型）。"+
			"kind 为空时列出全部。"),
		mcp.WithString("kind", mcp.Enum(constantKinds...), mcp.Description("可选。只列出指定参数的取值")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := req.GetString("kind", "")

		log := r.callLogger("list_tool_constants")
		log.Infof("called for kind=%q", kind)

		out, err := renderConstants(kind)
		if err != nil {
			return paramError(log, err), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

// constantKinds list_tool_constants 可筛选的参数名
var constantKinds = []string{"frequency", "adjust_flag", "year_type", "index", "format", "period"}

func renderConstants(kind string) (string, error) {
	rows := []struct {
		kind   string
		values string
		notes  string
	}{
		{"frequency", strings.Join(ValidFrequencies, ", "), "d=daily, w=weekly, m=monthly, numbers are minute bars"},
		{"adjust_flag", strings.Join(ValidAdjustFlags, ", "), "1=backward adjusted, 2=forward adjusted, 3=raw"},
		{"year_type", strings.Join(ValidYearTypes, ", "), "report=announcement year, operate=ex-dividend year"},
		{"index", strings.Join(ValidIndexCodes, ", "), "sz50=SSE 50, hs300=CSI 300, zz500=CSI 500"},
		{"format", strings.Join(format.ValidFormats, ", "), "output rendering of tabular results"},
		{"period", strings.Join(marketcalendar.ValidPeriods, ", "), "analysis timeframe presets"},
	}

	key := strings.ToLower(strings.TrimSpace(kind))
	var b strings.Builder
	b.WriteString("## Tool Parameter Constants\n\n")
	b.WriteString("| Parameter | Valid values | Notes |\n")
	b.WriteString("|---|---|---|\n")
	matched := false
	for _, row := range rows {
		if key != "" && key != row.kind {
			continue
		}
		matched = true
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.kind, row.values, row.notes)
	}
	if !matched {
		return "", fmt.Errorf("invalid kind '%s'. Valid options are: %s", kind, strings.Join(constantKinds, ", "))
	}
	return b.String(), nil
}

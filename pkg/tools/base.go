package tools

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"ashare/pkg/datasource"
	"ashare/pkg/format"
)

// callLogger 每次工具调用一个独立的请求 ID，便于串联一次调用的全部日志
func (r *Registry) callLogger(tool string) *logrus.Entry {
	return r.log.WithFields(logrus.Fields{
		"tool":       tool,
		"request_id": uuid.NewString(),
	})
}

// respond 统一的成功/失败响应路径：
// 成功渲染成请求的格式，失败转成 agent 可读的错误文案。
func (r *Registry) respond(log *logrus.Entry, table *datasource.Table, err error, formatName string, limit int, meta format.Meta) *mcp.CallToolResult {
	if err != nil {
		return errorResult(log, err)
	}
	log.Infof("retrieved %d rows", table.Len())
	return mcp.NewToolResultText(format.Render(table, formatName, limit, meta))
}

// errorResult 四类已知错误各有固定文案，与数据源的错误分级一一对应
func errorResult(log *logrus.Entry, err error) *mcp.CallToolResult {
	var noData *datasource.NoDataFoundError
	var loginErr *datasource.LoginError
	var dsErr *datasource.DataSourceError

	switch {
	case errors.As(err, &noData):
		log.Warnf("no data: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
	case errors.As(err, &loginErr):
		log.Errorf("login failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: Could not connect to data source. %v", err))
	case errors.As(err, &dsErr):
		log.Errorf("data source error: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: An error occurred while fetching data. %v", err))
	default:
		log.Warnf("invalid input: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: Invalid input parameter. %v", err))
	}
}

// paramError 参数校验失败的快捷响应
func paramError(log *logrus.Entry, err error) *mcp.CallToolResult {
	log.Warnf("invalid parameter: %v", err)
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
}

// outputOptions 所有表格类工具共有的 limit/format 参数
func outputOptions(req mcp.CallToolRequest) (limit int, formatName string) {
	limit = req.GetInt("limit", format.MaxRows)
	formatName = req.GetString("format", format.Markdown)
	return limit, formatName
}

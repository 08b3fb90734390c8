// Package tools 把数据源方法面注册为 MCP 工具。
// 工具层只做参数校验、调用数据源/日历引擎、渲染输出，
// 所有错误在这里转成 agent 可读的 "Error: ..." 文案，不向传输层抛异常。
package tools

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"ashare/pkg/datasource"
	"ashare/pkg/logger"
	"ashare/pkg/marketcalendar"
)

// Registry 工具注册器
type Registry struct {
	source   datasource.FinancialDataSource
	calendar *marketcalendar.Engine
	log      *logrus.Entry
}

// NewRegistry 创建注册器
func NewRegistry(source datasource.FinancialDataSource, calendar *marketcalendar.Engine) *Registry {
	return &Registry{
		source:   source,
		calendar: calendar,
		log:      logger.WithComponent("tools"),
	}
}

// RegisterAll 注册全部工具
func (r *Registry) RegisterAll(s *server.MCPServer) {
	r.registerStockMarketTools(s)
	r.registerFinancialReportTools(s)
	r.registerIndexTools(s)
	r.registerMarketOverviewTools(s)
	r.registerMacroTools(s)
	r.registerDateTools(s)
	r.registerHelperTools(s)
}

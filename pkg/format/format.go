// Package format 把查询结果表渲染成工具响应字符串。
// 支持 markdown / json / csv 三种格式，统一做行数截断，
// 防止超大结果吃掉调用方的上下文长度。
package format

import (
	"sort"

	"ashare/pkg/datasource"
)

// MaxRows 字符串输出中默认的最大行数
const MaxRows = 250

// 输出格式
const (
	Markdown = "markdown"
	JSON     = "json"
	CSV      = "csv"
)

// ValidFormats 可用的输出格式
var ValidFormats = []string{Markdown, JSON, CSV}

// Meta 附加在输出里的查询元信息
type Meta map[string]string

// sortedKeys 元信息按键名排序输出，保证结果可复现
func (m Meta) sortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render 按请求的格式渲染表格。maxRows <= 0 时使用默认上限；
// 未知格式回落到 markdown。
func Render(table *datasource.Table, format string, maxRows int, meta Meta) string {
	if maxRows <= 0 {
		maxRows = MaxRows
	}

	switch format {
	case JSON:
		return renderJSON(table, maxRows, meta)
	case CSV:
		return renderCSV(table, maxRows)
	default:
		return renderMarkdown(table, maxRows, meta)
	}
}

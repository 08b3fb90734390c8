package format

import (
	"fmt"
	"strings"

	"ashare/pkg/datasource"
)

// emptyPlaceholder 空表的占位输出
const emptyPlaceholder = "(No data available to display)"

// renderMarkdown 渲染 markdown 表格，必要时带元信息头和截断提示
func renderMarkdown(table *datasource.Table, maxRows int, meta Meta) string {
	var b strings.Builder

	if len(meta) > 0 {
		b.WriteString("Meta:\n")
		for _, k := range meta.sortedKeys() {
			fmt.Fprintf(&b, "- %s: %s\n", k, meta[k])
		}
		b.WriteString("\n")
	}

	if table.Len() == 0 {
		b.WriteString(emptyPlaceholder)
		return b.String()
	}

	total := table.Len()
	display := table.Head(maxRows)
	if total > display.Len() {
		fmt.Fprintf(&b, "Note: Data truncated (rows truncated to %d from %d).\n\n", display.Len(), total)
	}

	writeMarkdownTable(&b, display)
	return b.String()
}

func writeMarkdownTable(b *strings.Builder, table *datasource.Table) {
	b.WriteString("| ")
	b.WriteString(strings.Join(escapeCells(table.Columns), " | "))
	b.WriteString(" |\n|")
	for range table.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i := range table.Columns {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		b.WriteString("| ")
		b.WriteString(strings.Join(escapeCells(cells), " | "))
		b.WriteString(" |\n")
	}
}

// escapeCells 竖线和换行会破坏 markdown 表格结构
func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = c
	}
	return out
}

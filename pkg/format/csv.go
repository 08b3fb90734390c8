package format

import (
	"encoding/csv"
	"strings"

	"ashare/pkg/datasource"
	"ashare/pkg/logger"
)

// renderCSV 渲染 CSV：首行列名，其后数据行
func renderCSV(table *datasource.Table, maxRows int) string {
	display := table.Head(maxRows)

	var b strings.Builder
	w := csv.NewWriter(&b)

	records := make([][]string, 0, display.Len()+1)
	records = append(records, display.Columns)
	for _, row := range display.Rows {
		cells := make([]string, len(display.Columns))
		for i := range display.Columns {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		records = append(records, cells)
	}

	if err := w.WriteAll(records); err != nil {
		logger.WithComponent("format").Errorf("csv write failed: %v", err)
		return "Error: Could not format data into CSV."
	}
	w.Flush()
	return b.String()
}

package format

import (
	"encoding/json"

	"ashare/pkg/logger"

	"ashare/pkg/datasource"
)

// jsonPayload JSON 输出的固定结构
type jsonPayload struct {
	Data []map[string]string `json:"data"`
	Meta jsonMeta            `json:"meta"`
}

type jsonMeta struct {
	Query        map[string]string `json:"query,omitempty"`
	TotalRows    int               `json:"total_rows"`
	ReturnedRows int               `json:"returned_rows"`
	Truncated    bool              `json:"truncated"`
	Columns      []string          `json:"columns"`
}

// renderJSON 渲染 JSON：行转为列名到值的映射，元信息里带截断标记
func renderJSON(table *datasource.Table, maxRows int, meta Meta) string {
	total := table.Len()
	display := table.Head(maxRows)

	records := make([]map[string]string, 0, display.Len())
	for _, row := range display.Rows {
		record := make(map[string]string, len(display.Columns))
		for i, col := range display.Columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	columns := display.Columns
	if columns == nil {
		columns = []string{}
	}

	payload := jsonPayload{
		Data: records,
		Meta: jsonMeta{
			Query:        meta,
			TotalRows:    total,
			ReturnedRows: display.Len(),
			Truncated:    total > display.Len(),
			Columns:      columns,
		},
	}

	out, err := json.Marshal(payload)
	if err != nil {
		logger.WithComponent("format").Errorf("json marshal failed: %v", err)
		return "Error: Could not format data into JSON."
	}
	return string(out)
}

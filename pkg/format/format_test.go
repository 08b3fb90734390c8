package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashare/pkg/datasource"
)

func kdataTable(rows int) *datasource.Table {
	table := &datasource.Table{Columns: []string{"date", "close"}}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{fmt.Sprintf("2024-01-%02d", i+1), "10.5"})
	}
	return table
}

func TestRenderMarkdown(t *testing.T) {
	t.Run("基本表格", func(t *testing.T) {
		out := Render(kdataTable(2), Markdown, 0, nil)

		assert.Contains(t, out, "| date | close |")
		assert.Contains(t, out, "|---|---|")
		assert.Contains(t, out, "| 2024-01-01 | 10.5 |")
		assert.NotContains(t, out, "truncated")
	})

	t.Run("带元信息头", func(t *testing.T) {
		out := Render(kdataTable(1), Markdown, 0, Meta{"code": "sh.600000", "adjust_flag": "3"})

		assert.True(t, strings.HasPrefix(out, "Meta:\n"), "元信息在表格之前")
		// 键名有序输出
		assert.Less(t, strings.Index(out, "adjust_flag"), strings.Index(out, "code"))
	})

	t.Run("超限截断并提示", func(t *testing.T) {
		out := Render(kdataTable(10), Markdown, 3, nil)

		assert.Contains(t, out, "Note: Data truncated (rows truncated to 3 from 10).")
		assert.Contains(t, out, "2024-01-03")
		assert.NotContains(t, out, "2024-01-04")
	})

	t.Run("空表有占位输出", func(t *testing.T) {
		out := Render(&datasource.Table{Columns: []string{"date"}}, Markdown, 0, nil)
		assert.Equal(t, "(No data available to display)", out)
	})

	t.Run("单元格内的竖线被转义", func(t *testing.T) {
		table := &datasource.Table{
			Columns: []string{"name"},
			Rows:    [][]string{{"a|b\nc"}},
		}
		out := Render(table, Markdown, 0, nil)
		assert.Contains(t, out, `a\|b c`)
	})

	t.Run("未知格式回落到markdown", func(t *testing.T) {
		out := Render(kdataTable(1), "yaml", 0, nil)
		assert.Contains(t, out, "| date | close |")
	})
}

func TestRenderJSON(t *testing.T) {
	out := Render(kdataTable(5), JSON, 2, Meta{"code": "sh.600000"})

	var payload struct {
		Data []map[string]string `json:"data"`
		Meta struct {
			Query        map[string]string `json:"query"`
			TotalRows    int               `json:"total_rows"`
			ReturnedRows int               `json:"returned_rows"`
			Truncated    bool              `json:"truncated"`
			Columns      []string          `json:"columns"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	assert.Len(t, payload.Data, 2)
	assert.Equal(t, "2024-01-01", payload.Data[0]["date"])
	assert.Equal(t, 5, payload.Meta.TotalRows)
	assert.Equal(t, 2, payload.Meta.ReturnedRows)
	assert.True(t, payload.Meta.Truncated)
	assert.Equal(t, []string{"date", "close"}, payload.Meta.Columns)
	assert.Equal(t, "sh.600000", payload.Meta.Query["code"])
}

func TestRenderJSONEmpty(t *testing.T) {
	out := Render(&datasource.Table{Columns: []string{"date"}}, JSON, 0, nil)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Empty(t, payload["data"])
}

func TestRenderCSV(t *testing.T) {
	out := Render(kdataTable(3), CSV, 2, nil)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 3, "表头一行加两行数据")
	assert.Equal(t, "date,close", lines[0])
	assert.Equal(t, "2024-01-01,10.5", lines[1])
}

func TestRenderCSVQuoting(t *testing.T) {
	table := &datasource.Table{
		Columns: []string{"name", "note"},
		Rows:    [][]string{{"浦发银行", `contains, comma`}},
	}
	out := Render(table, CSV, 0, nil)
	assert.Contains(t, out, `"contains, comma"`)
}

func TestRenderDefaultLimit(t *testing.T) {
	out := Render(kdataTable(MaxRows+10), Markdown, 0, nil)
	assert.Contains(t, out, fmt.Sprintf("truncated to %d from %d", MaxRows, MaxRows+10))
}

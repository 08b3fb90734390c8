package datasource

import "fmt"

// Table 行式结果表。列按提供商返回的顺序，行按返回顺序。
// 所有单元格保持提供商的原始字符串形态，不做类型转换。
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex 按列名查找下标，找不到返回 -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell 读取第 row 行 name 列的值，越界或列不存在返回空串
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// SelectColumns 选取请求列与现有列的交集，保持请求顺序。
// 交集为空时报错：说明调用方请求的列全部不存在。
func (t *Table) SelectColumns(fields []string) (*Table, error) {
	indexes := make([]int, 0, len(fields))
	selected := make([]string, 0, len(fields))
	for _, f := range fields {
		if idx := t.ColumnIndex(f); idx >= 0 {
			indexes = append(indexes, idx)
			selected = append(selected, f)
		}
	}
	if len(indexes) == 0 {
		return nil, fmt.Errorf("none of the requested fields %v are available in the result", fields)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out := make([]string, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				out[i] = row[idx]
			}
		}
		rows = append(rows, out)
	}
	return &Table{Columns: selected, Rows: rows}, nil
}

// FilterRows 保留谓词为真的行，col 不存在时返回空表
func (t *Table) FilterRows(col string, pred func(value string) bool) *Table {
	out := &Table{Columns: t.Columns}
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return out
	}
	for _, row := range t.Rows {
		if idx < len(row) && pred(row[idx]) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Head 取前 n 行（n 大于行数时返回原表的浅拷贝）
func (t *Table) Head(n int) *Table {
	if n >= len(t.Rows) {
		return &Table{Columns: t.Columns, Rows: t.Rows}
	}
	if n < 0 {
		n = 0
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashare/pkg/datasource"
)

func industryTable() *datasource.Table {
	return &datasource.Table{
		Columns: []string{"updateDate", "code", "code_name", "industry"},
		Rows: [][]string{
			{"2024-05-10", "sh.600000", "浦发银行", "银行"},
			{"2024-05-10", "sz.000001", "平安银行", "银行"},
			{"2024-05-10", "sh.600519", "贵州茅台", "食品饮料"},
			{"2024-05-10", "sh.601318", "中国平安", "非银金融"},
			{"2024-05-10", "sz.300750", "宁德时代", ""},
		},
	}
}

func TestDistinctIndustries(t *testing.T) {
	out := distinctIndustries(industryTable())

	require.Equal(t, []string{"industry"}, out.Columns)
	assert.Equal(t, [][]string{{"非银金融"}, {"食品饮料"}, {"银行"}}, out.Rows, "行业名称应去重并排序，空值剔除")
}

func TestDistinctIndustriesFallbackColumn(t *testing.T) {
	table := &datasource.Table{
		Columns: []string{"code", "sector"},
		Rows: [][]string{
			{"sh.600000", "银行"},
			{"sz.000001", "银行"},
		},
	}

	out := distinctIndustries(table)
	require.Equal(t, 1, out.Len(), "缺少 industry 列时应退回最后一列")
	assert.Equal(t, "银行", out.Rows[0][0])
}

func TestIndustryMembers(t *testing.T) {
	tests := []struct {
		name     string
		industry string
		codes    []string
	}{
		{"多只成员", "银行", []string{"sh.600000", "sz.000001"}},
		{"单只成员", "食品饮料", []string{"sh.600519"}},
		{"未知行业返回空表", "航天军工", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := industryMembers(industryTable(), tt.industry)
			var codes []string
			for i := 0; i < out.Len(); i++ {
				codes = append(codes, out.Cell(i, "code"))
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

// constituentSource 记录三大指数成份股查询各被调用的日期
type constituentSource struct {
	datasource.FinancialDataSource
	sz50, hs300, zz500 string
}

func (s *constituentSource) GetSZ50Stocks(ctx context.Context, date string) (*datasource.Table, error) {
	s.sz50 = date
	return &datasource.Table{Columns: []string{"code"}, Rows: [][]string{{"sh.600000"}}}, nil
}

func (s *constituentSource) GetHS300Stocks(ctx context.Context, date string) (*datasource.Table, error) {
	s.hs300 = date
	return &datasource.Table{Columns: []string{"code"}, Rows: [][]string{{"sh.600519"}}}, nil
}

func (s *constituentSource) GetZZ500Stocks(ctx context.Context, date string) (*datasource.Table, error) {
	s.zz500 = date
	return &datasource.Table{Columns: []string{"code"}, Rows: [][]string{{"sz.300750"}}}, nil
}

func TestConstituentFetcher(t *testing.T) {
	source := &constituentSource{}
	r := &Registry{source: source}

	tests := []struct {
		name  string
		index string
		want  string
	}{
		{"上证50", "sz50", "sh.600000"},
		{"沪深300", "hs300", "sh.600519"},
		{"中证500", "zz500", "sz.300750"},
		{"大小写与空白不敏感", " HS300 ", "sh.600519"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetch, err := r.constituentFetcher(tt.index)
			require.NoError(t, err)

			table, err := fetch(context.Background(), "2024-05-10")
			require.NoError(t, err)
			require.Equal(t, 1, table.Len())
			assert.Equal(t, tt.want, table.Rows[0][0])
		})
	}

	_, err := r.constituentFetcher("csi1000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid index 'csi1000'")
}

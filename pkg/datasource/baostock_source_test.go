package datasource

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFields(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		expected string
		wantErr  bool
	}{
		{"空列表退回默认字段", nil, "code,tradeStatus,code_name", false},
		{"显式字段保持顺序", []string{"close", "date"}, "close,date", false},
		{"单个字段", []string{"date"}, "date", false},
		{"空白项非法", []string{"date", " "}, "", true},
		{"空串项非法", []string{""}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := formatFields(tt.fields, DefaultBasicFields)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestDefaultKFields(t *testing.T) {
	joined, err := formatFields(nil, DefaultKFields)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(joined, "date,code,open"))
	assert.Contains(t, joined, "isST")
}

// kdataSession 记录 K线查询收到的字段串
type kdataSession struct {
	Session
	cur       Cursor
	gotFields string
}

func (s *kdataSession) QueryHistoryKData(code, fields, startDate, endDate, frequency, adjustFlag string) (Cursor, error) {
	s.gotFields = fields
	return s.cur, nil
}

func (s *kdataSession) Close() error { return nil }

type singleSessionFactory struct {
	session Session
}

func (f *singleSessionFactory) Open(ctx context.Context) (Session, error) {
	return f.session, nil
}

func TestGetHistoricalKDataFieldsPassthrough(t *testing.T) {
	session := &kdataSession{cur: &fakeCursor{
		code:   "0",
		msg:    "success",
		fields: []string{"date", "close"},
		rows:   [][]string{{"2024-01-02", "10.5"}},
	}}
	ds := NewBaostockDataSource(&singleSessionFactory{session: session})

	table, err := ds.GetHistoricalKData(context.Background(), "sh.600000", "2024-01-01", "2024-01-31", "d", "3",
		[]string{"date", "close"})
	require.NoError(t, err)

	assert.Equal(t, "date,close", session.gotFields)
	assert.Equal(t, []string{"date", "close"}, table.Columns)
}

func TestGetHistoricalKDataInvalidFields(t *testing.T) {
	ds := NewBaostockDataSource(&singleSessionFactory{})

	_, err := ds.GetHistoricalKData(context.Background(), "sh.600000", "2024-01-01", "2024-01-31", "d", "3",
		[]string{"date", ""})
	assert.Error(t, err)
}

// basicSession 基本信息查询返回固定列集
type basicSession struct {
	Session
	cur Cursor
}

func (s *basicSession) QueryStockBasic(code string) (Cursor, error) { return s.cur, nil }
func (s *basicSession) Close() error                                { return nil }

func TestGetStockBasicInfoSelectsColumns(t *testing.T) {
	newSession := func() Session {
		return &basicSession{cur: &fakeCursor{
			code:   "0",
			msg:    "success",
			fields: []string{"code", "code_name", "ipoDate", "outDate", "type", "status"},
			rows:   [][]string{{"sh.600000", "浦发银行", "1999-11-10", "", "1", "1"}},
		}}
	}

	t.Run("无筛选返回全部列", func(t *testing.T) {
		ds := NewBaostockDataSource(&singleSessionFactory{session: newSession()})
		table, err := ds.GetStockBasicInfo(context.Background(), "sh.600000", nil)
		require.NoError(t, err)
		assert.Len(t, table.Columns, 6)
	})

	t.Run("筛选取交集并保持请求顺序", func(t *testing.T) {
		ds := NewBaostockDataSource(&singleSessionFactory{session: newSession()})
		table, err := ds.GetStockBasicInfo(context.Background(), "sh.600000", []string{"code_name", "code", "missing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"code_name", "code"}, table.Columns)
		assert.Equal(t, "浦发银行", table.Cell(0, "code_name"))
	})

	t.Run("筛选全部落空时报错", func(t *testing.T) {
		ds := NewBaostockDataSource(&singleSessionFactory{session: newSession()})
		_, err := ds.GetStockBasicInfo(context.Background(), "sh.600000", []string{"nope"})
		assert.Error(t, err)
	})
}

package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	rows := [][]string{{"2024-01-02", "10.5"}}

	tests := []struct {
		name     string
		code     string
		msg      string
		rows     [][]string
		expected OutcomeKind
	}{
		// 成功
		{"成功且有数据", "0", "success", rows, OutcomeSuccess},

		// 空结果的三种信号
		{"消息含no record found", "10001", "no record found", nil, OutcomeEmpty},
		{"消息大小写混合", "10001", "No Record Found in database", nil, OutcomeEmpty},
		{"状态码10002", "10002", "query failed", nil, OutcomeEmpty},
		{"名义成功但零行", "0", "success", nil, OutcomeEmpty},
		{"名义成功但空切片", "0", "success", [][]string{}, OutcomeEmpty},

		// 真实故障
		{"未知错误码", "10004", "system error", nil, OutcomeProviderError},
		{"网络错误码", "10660", "network error", rows, OutcomeProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Classify(tt.code, tt.msg, tt.rows)
			assert.Equal(t, tt.expected, outcome.Kind, "结局分类应匹配预期: %s", tt.name)
		})
	}
}

func TestClassifyFields(t *testing.T) {
	t.Run("成功时携带行数据", func(t *testing.T) {
		rows := [][]string{{"a"}, {"b"}}
		outcome := Classify("0", "success", rows)
		assert.Equal(t, OutcomeSuccess, outcome.Kind)
		assert.Equal(t, rows, outcome.Rows)
	})

	t.Run("空结果时携带原因", func(t *testing.T) {
		outcome := Classify("10002", "no data for this query", nil)
		assert.Equal(t, OutcomeEmpty, outcome.Kind)
		assert.Equal(t, "no data for this query", outcome.Reason)
		assert.Empty(t, outcome.Rows)
	})

	t.Run("零行成功有默认原因", func(t *testing.T) {
		outcome := Classify("0", "success", nil)
		assert.Equal(t, OutcomeEmpty, outcome.Kind)
		assert.Equal(t, "empty result set", outcome.Reason)
	})

	t.Run("故障时携带码与消息", func(t *testing.T) {
		outcome := Classify("10004", "system busy", nil)
		assert.Equal(t, OutcomeProviderError, outcome.Kind)
		assert.Equal(t, "10004", outcome.Code)
		assert.Equal(t, "system busy", outcome.Message)
	})

	// 带行数据的故障依然是故障，行数据不可信
	t.Run("故障时忽略行数据", func(t *testing.T) {
		outcome := Classify("10004", "system busy", [][]string{{"x"}})
		assert.Equal(t, OutcomeProviderError, outcome.Kind)
		assert.Empty(t, outcome.Rows)
	})
}

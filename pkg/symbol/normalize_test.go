package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// 已归一化的输入
		{"标准上海代码", "sh.600000", "sh.600000"},
		{"标准深圳代码", "sz.000001", "sz.000001"},

		// 前缀写法
		{"前缀无点", "sh600000", "sh.600000"},
		{"前缀大写", "SH600000", "sh.600000"},
		{"前缀大写带点", "SZ.000001", "sz.000001"},

		// 后缀写法
		{"后缀带点", "600000.SH", "sh.600000"},
		{"后缀小写", "600000.sh", "sh.600000"},
		{"后缀无点", "000001sz", "sz.000001"},

		// 裸数字按首位分派交易所
		{"裸数字6开头归上海", "600519", "sh.600519"},
		{"裸数字0开头归深圳", "000001", "sz.000001"},
		{"裸数字3开头归深圳", "300750", "sz.300750"},

		// 空白容忍
		{"首尾空白", "  sh.600000  ", "sh.600000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"sh600000", "600000.SH", "600519", "000001", "SZ.300750"}

	for _, input := range inputs {
		once, err := Normalize(input)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "归一化必须幂等: %s", input)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"空串", ""},
		{"纯空白", "   "},
		{"位数不足", "60000"},
		{"位数过多", "6000000"},
		{"未知交易所前缀", "bj.430047"},
		{"中缀点错位", "60.0000sh"},
		{"非数字", "shabcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			assert.Error(t, err)
		})
	}
}

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFrequency(t *testing.T) {
	for _, f := range ValidFrequencies {
		assert.NoError(t, ValidateFrequency(f), "合法频率 %s", f)
	}

	err := ValidateFrequency("h")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid frequency 'h'")
	assert.Contains(t, err.Error(), "d, w, m")
}

func TestValidateAdjustFlag(t *testing.T) {
	for _, f := range ValidAdjustFlags {
		assert.NoError(t, ValidateAdjustFlag(f))
	}
	assert.Error(t, ValidateAdjustFlag("0"))
	assert.Error(t, ValidateAdjustFlag(""))
}

func TestValidateYearType(t *testing.T) {
	assert.NoError(t, ValidateYearType("report"))
	assert.NoError(t, ValidateYearType("operate"))
	assert.Error(t, ValidateYearType("fiscal"))
}

func TestValidateYear(t *testing.T) {
	tests := []struct {
		name  string
		year  string
		valid bool
	}{
		{"标准年份", "2024", true},
		{"早期年份", "1990", true},
		{"两位年份", "24", false},
		{"带月份", "2024-01", false},
		{"非数字", "abcd", false},
		{"空串", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYear(tt.year)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2024-05-15"))
	assert.Error(t, ValidateDate("2024/05/15"))
	assert.Error(t, ValidateDate("2024-5-15"))
	assert.Error(t, ValidateDate("20240515"))
	assert.Error(t, ValidateDate(""))
}

func TestValidateQuarter(t *testing.T) {
	for q := 1; q <= 4; q++ {
		assert.NoError(t, ValidateQuarter(q))
	}
	assert.Error(t, ValidateQuarter(0))
	assert.Error(t, ValidateQuarter(5))
	assert.Error(t, ValidateQuarter(-1))
}

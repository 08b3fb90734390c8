package tools

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var errEmptyKeyword = errors.New("keyword must not be empty")

// 工具参数的合法取值表
var (
	ValidFrequencies = []string{"d", "w", "m", "5", "15", "30", "60"}
	ValidAdjustFlags = []string{"1", "2", "3"}
	ValidYearTypes   = []string{"report", "operate"}
)

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func ensureIn(value string, allowed []string, label string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s '%s'. Valid options are: %s", label, value, strings.Join(allowed, ", "))
}

// ValidateFrequency 校验K线频率取值
func ValidateFrequency(frequency string) error {
	return ensureIn(frequency, ValidFrequencies, "frequency")
}

// ValidateAdjustFlag 校验复权标记取值
func ValidateAdjustFlag(adjustFlag string) error {
	return ensureIn(adjustFlag, ValidAdjustFlags, "adjust_flag")
}

// ValidateYearType 校验分红年份类型取值
func ValidateYearType(yearType string) error {
	return ensureIn(yearType, ValidYearTypes, "year_type")
}

// ValidateYear 校验年份必须是四位数字
func ValidateYear(year string) error {
	if !yearPattern.MatchString(year) {
		return fmt.Errorf("invalid year '%s'. Please provide a 4-digit year", year)
	}
	return nil
}

// ValidateDate 校验日期必须是 'YYYY-MM-DD' 形式
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return fmt.Errorf("invalid date '%s'. Please use 'YYYY-MM-DD' format", date)
	}
	return nil
}

// ValidateQuarter 校验季度必须在 1 到 4 之间
func ValidateQuarter(quarter int) error {
	if quarter < 1 || quarter > 4 {
		return fmt.Errorf("invalid quarter '%d'. Must be between 1 and 4", quarter)
	}
	return nil
}

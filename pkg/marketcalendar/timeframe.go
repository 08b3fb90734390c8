package marketcalendar

import (
	"fmt"
	"time"
)

// 分析窗口粒度
const (
	PeriodRecent   = "recent"
	PeriodQuarter  = "quarter"
	PeriodHalfYear = "half_year"
	PeriodYear     = "year"
)

// ValidPeriods 可用的粒度取值
var ValidPeriods = []string{PeriodRecent, PeriodQuarter, PeriodHalfYear, PeriodYear}

// Timeframe 分析时间窗口：人读的标签加上机器可用的 ISO 日期范围
type Timeframe struct {
	Period    string
	Label     string
	StartDate string // YYYY-MM-DD，窗口起始月的 1 号
	EndDate   string // YYYY-MM-DD，今天（钳到所在月的最后一天）
}

// String 标签带上括号内的 ISO 范围，下游不需要解析自然语言
func (t Timeframe) String() string {
	return fmt.Sprintf("%s (ISO: %s to %s)", t.Label, t.StartDate, t.EndDate)
}

// AnalysisTimeframe 由当前日期和粒度合成分析窗口。
// 纯日历运算，不发任何数据查询。未知的 period 按上一个完整自然月处理。
func (e *Engine) AnalysisTimeframe(period string) Timeframe {
	now := e.clock.Now()
	return analysisTimeframe(period, now)
}

// month 简化的年月对，避免 time.Time 的自动规范化干扰边界分支
type month struct {
	year int
	mon  int
}

func analysisTimeframe(period string, now time.Time) Timeframe {
	y, m, day := now.Year(), int(now.Month()), now.Day()

	var start, middle month

	switch period {
	case PeriodRecent:
		if day < 15 {
			// 月中之前：取当前月之前的两个完整自然月
			switch m {
			case 1:
				start = month{y - 1, 11}
				middle = month{y - 1, 12}
			case 2:
				// 一月是年度首月，往前只剩一个完整月，窗口收窄
				start = month{y, 1}
				middle = start
			default:
				start = month{y, m - 2}
				middle = month{y, m - 1}
			}
		} else {
			if m == 1 {
				start = month{y - 1, 12}
			} else {
				start = month{y, m - 1}
			}
			middle = start
		}

	case PeriodQuarter:
		if m <= 3 {
			start = month{y - 1, m + 9}
		} else {
			start = month{y, m - 3}
		}
		middle = start

	case PeriodHalfYear:
		if m <= 6 {
			start = month{y - 1, m + 6}
		} else {
			start = month{y, m - 6}
		}
		if start.mon <= 9 {
			middle = month{start.year, start.mon + 3}
		} else {
			middle = month{start.year + 1, start.mon - 9}
		}

	case PeriodYear:
		start = month{y - 1, m}
		if start.mon <= 6 {
			middle = month{start.year, start.mon + 6}
		} else {
			middle = month{start.year + 1, start.mon - 6}
		}

	default:
		if m == 1 {
			start = month{y - 1, 12}
		} else {
			start = month{y, m - 1}
		}
		middle = start
	}

	// 结束日钳到所在月的最后一天，防 31 号落进 30 天的月份
	endDay := day
	if last := lastDayOfMonth(y, m); endDay > last {
		endDay = last
	}

	startISO := fmt.Sprintf("%04d-%02d-01", start.year, start.mon)
	endISO := fmt.Sprintf("%04d-%02d-%02d", y, m, endDay)

	var label string
	switch {
	case start.year != y:
		label = fmt.Sprintf("%d年%d月-%d年%d月", start.year, start.mon, y, m)
	case middle.mon != start.mon && middle.mon != m:
		label = fmt.Sprintf("%d年%d月-%d月-%d月", start.year, start.mon, middle.mon, m)
	case start.mon != m:
		label = fmt.Sprintf("%d年%d月-%d月", start.year, start.mon, m)
	default:
		label = fmt.Sprintf("%d年%d月", start.year, start.mon)
	}

	return Timeframe{Period: period, Label: label, StartDate: startISO, EndDate: endISO}
}

func lastDayOfMonth(year, mon int) int {
	// 下个月的第 0 天即本月最后一天
	return time.Date(year, time.Month(mon)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

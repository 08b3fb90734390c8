// Package marketcalendar 交易日历引擎。
//
// 不依赖预置的交易所日历：交易日信息来自数据源对有界日期窗口的查询。
// 日历辅助操作是给 agent 用的尽力而为工具，除 IsTradingDay 外一律
// 不返回错误，失败时降级为哨兵值（今天或输入日期）并记警告日志。
package marketcalendar

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ashare/pkg/datasource"
	"ashare/pkg/logger"
)

const dateLayout = "2006-01-02"

// 交易日历的列名约定
const (
	colCalendarDate = "calendar_date"
	colIsTradingDay = "is_trading_day"
)

// neighborWindowDays 前后交易日的查询窗口半径。
// 取 30 天，远大于现实中任何假期连休的长度。
const neighborWindowDays = 30

// Engine 交易日历引擎
type Engine struct {
	source datasource.FinancialDataSource
	clock  Clock
	log    *logrus.Entry
}

// NewEngine 创建日历引擎
func NewEngine(source datasource.FinancialDataSource, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		source: source,
		clock:  clock,
		log:    logger.WithComponent("marketcalendar"),
	}
}

// LatestTradingDay 返回今天（含）之前最近的交易日。
// 查询窗口取当月 1 号到 28 号：28 是任何月份都存在的安全下界。
// 查询失败或窗口内没有交易日时返回今天并记警告，绝不返回错误，
// 调用方总能拿到一个可用的日期。
func (e *Engine) LatestTradingDay(ctx context.Context) string {
	now := e.clock.Now()
	today := now.Format(dateLayout)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	end := time.Date(now.Year(), now.Month(), 28, 0, 0, 0, 0, now.Location()).Format(dateLayout)

	table, err := e.source.GetTradeDates(ctx, start, end)
	if err != nil {
		e.log.Warnf("latest trading day lookup failed, falling back to today: %v", err)
		return today
	}

	latest := ""
	for i := 0; i < table.Len(); i++ {
		if table.Cell(i, colIsTradingDay) != "1" {
			continue
		}
		d := table.Cell(i, colCalendarDate)
		if d <= today && d > latest {
			latest = d
		}
	}

	if latest == "" {
		e.log.Warnf("no trading day found before %s in current month, returning today", today)
		return today
	}
	return latest
}

// IsTradingDay 判断给定日期是否交易日。
// 查询失败时返回错误，由工具层降级为字符串级别的错误提示。
func (e *Engine) IsTradingDay(ctx context.Context, date string) (bool, error) {
	table, err := e.source.GetTradeDates(ctx, date, date)
	if err != nil {
		return false, err
	}
	if table.Len() == 0 {
		return false, nil
	}

	flagCol := colIsTradingDay
	if table.ColumnIndex(flagCol) < 0 && len(table.Columns) > 0 {
		flagCol = table.Columns[len(table.Columns)-1]
	}
	return table.Cell(0, flagCol) == "1", nil
}

// PreviousTradingDay 返回给定日期之前最近的交易日。
// 在 30 天窗口内找不到候选（或查询失败）时原样返回输入日期，绝不返回错误。
func (e *Engine) PreviousTradingDay(ctx context.Context, date string) string {
	return e.neighborTradingDay(ctx, date, true)
}

// NextTradingDay 返回给定日期之后最近的交易日。
// 降级行为与 PreviousTradingDay 相同。
func (e *Engine) NextTradingDay(ctx context.Context, date string) string {
	return e.neighborTradingDay(ctx, date, false)
}

func (e *Engine) neighborTradingDay(ctx context.Context, date string, previous bool) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		e.log.Warnf("invalid date %q, returning input unchanged: %v", date, err)
		return date
	}

	var start, end string
	if previous {
		start = d.AddDate(0, 0, -neighborWindowDays).Format(dateLayout)
		end = date
	} else {
		start = date
		end = d.AddDate(0, 0, neighborWindowDays).Format(dateLayout)
	}

	table, err := e.source.GetTradeDates(ctx, start, end)
	if err != nil {
		e.log.Warnf("neighbor trading day lookup failed for %s, returning input: %v", date, err)
		return date
	}

	dayCol := colCalendarDate
	if table.ColumnIndex(dayCol) < 0 && len(table.Columns) > 0 {
		dayCol = table.Columns[0]
	}
	flagCol := colIsTradingDay
	if table.ColumnIndex(flagCol) < 0 && len(table.Columns) > 0 {
		flagCol = table.Columns[len(table.Columns)-1]
	}

	// 严格早于/晚于输入日期的最近者；ISO 日期串可直接按字典序比较
	best := ""
	for i := 0; i < table.Len(); i++ {
		if table.Cell(i, flagCol) != "1" {
			continue
		}
		day := table.Cell(i, dayCol)
		if previous {
			if day < date && day > best {
				best = day
			}
		} else {
			if day > date && (best == "" || day < best) {
				best = day
			}
		}
	}

	if best == "" {
		e.log.Warnf("no trading day within %d days of %s, returning input", neighborWindowDays, date)
		return date
	}
	return best
}

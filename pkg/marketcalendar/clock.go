package marketcalendar

import "time"

// Clock 提供当前时间接口，用于mock测试
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系统实际时间
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

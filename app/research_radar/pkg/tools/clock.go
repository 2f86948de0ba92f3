package tools

import "time"

// TimeLayout 时间工具的输出格式
const TimeLayout = "2006-01-02 15:04:05"

// Clock 时间来源，测试中可替换为固定时间
type Clock func() time.Time

// SystemClock 使用本地时间
var SystemClock Clock = time.Now

// Now 返回当前时间，nil Clock 退化为 time.Now
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// CurrentTime 获取当前日期与时间
func (c Clock) CurrentTime() string {
	return c.Now().Format(TimeLayout)
}

package time

import (
	"fmt"
	"time"
)

const (
	SecMs  = 1000
	MinMs  = 60 * SecMs
	HourMs = 60 * MinMs
)

const TimeFormat = "2006-01-02T15:04:05.000Z"

var (
	timeOffset = time.Duration(0) // 时间偏移
	location   = time.UTC         // 默认UTC时区
)

// SetTimezone 设置时区
func SetTimezone(offsetSeconds int64) {
	name := fmt.Sprintf("UTC%+d", offsetSeconds/3600)
	location = time.FixedZone(name, int(offsetSeconds))
}

func GetLocation() *time.Location {
	return location
}

// SetTimeOffset 设置时间偏移量, 测试时用来拨动时钟
func SetTimeOffset(newOffset time.Duration) {
	timeOffset = newOffset
}

// GetTimeOffset 获取时间偏移量
func GetTimeOffset() time.Duration {
	return timeOffset
}

// Now 获取当前时间
func Now() time.Time {
	now := time.Now()
	if timeOffset != 0 {
		now = now.Add(timeOffset)
	}
	return now.In(location)
}

// NowMs 获取当前时间的毫秒时间戳
func NowMs() int64 {
	return Now().UnixMilli()
}

// Ms2Time ms时间戳转化为时间
func Ms2Time(ms int64) time.Time {
	return time.UnixMilli(ms).In(location)
}

// Ms2Duration 毫秒数转化为Duration
func Ms2Duration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

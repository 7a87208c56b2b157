package timer

import "math"

type ID int64

// Entry 定时器快照, Get返回的是拷贝
type Entry struct {
	ID        ID
	Callback  func()
	TimeoutMs int64 // 触发间隔 毫秒
	ElapsedMs int64 // 距上次触发累计的毫秒数
	Once      bool  // 触发一次后自动移除
	Fired     int64 // 已触发次数
}

type _Timer struct {
	id        ID
	callback  func()
	timeoutMs int64
	elapsedMs int64
	once      bool
	fired     int64
}

func (t *_Timer) snapshot() Entry {
	return Entry{
		ID:        t.id,
		Callback:  t.callback,
		TimeoutMs: t.timeoutMs,
		ElapsedMs: t.elapsedMs,
		Once:      t.once,
		Fired:     t.fired,
	}
}

// elapse 累计stepMs, 达到timeout时清零并计一次触发. 累计值到MaxInt64封顶
func (t *_Timer) elapse(stepMs int64) bool {
	if stepMs > 0 && t.elapsedMs > math.MaxInt64-stepMs {
		t.elapsedMs = math.MaxInt64
	} else {
		t.elapsedMs += stepMs
	}
	if t.elapsedMs < t.timeoutMs {
		return false
	}
	t.elapsedMs = 0
	t.fired++
	return true
}

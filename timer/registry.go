package timer

import (
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixkme/appstorm/mlog"
	"github.com/fixkme/appstorm/util/errs"
	ustime "github.com/fixkme/appstorm/util/time"
)

// Registry 一个驱动tick承载多个逻辑定时器
// 每次tick所有定时器累计interval毫秒, 累计值达到timeout时触发回调并清零
// 回调在tick所在协程同步执行, 回调中可以调用Add/Once/Remove/Clear/Update, 但不能调用Tick
type Registry struct {
	name      string
	interval  int64
	publisher Publisher
	warner    Warner

	mu     sync.Mutex
	genId  ID
	timers map[ID]*_Timer

	tickMu   sync.Mutex
	lastTick atomic.Int64

	started  atomic.Bool
	stopOnce sync.Once
	stopSig  chan struct{}
	done     chan struct{}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		interval: DefaultIntervalMs,
		warner:   mlogWarner{},
		timers:   make(map[ID]*_Timer),
		stopSig:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name == "" {
		r.name = defaultName()
	}
	return r
}

type mlogWarner struct{}

func (mlogWarner) Warn(message any, priority int) {
	mlog.Warnf("%v", message)
}

func (r *Registry) Name() string {
	return r.name
}

// Interval 驱动间隔 毫秒
func (r *Registry) Interval() int64 {
	return r.interval
}

// LastTick 最近一次tick的毫秒时间戳, 没有tick过为0
func (r *Registry) LastTick() int64 {
	return r.lastTick.Load()
}

// checkTimeout 非法timeout替换为默认值并告警
func (r *Registry) checkTimeout(timeoutMs int64) int64 {
	if timeoutMs > 0 {
		return timeoutMs
	}
	r.warner.Warn(fmt.Sprintf("timer: the timeout has not been set properly (%d) into %s, timeout has been set to %dms",
		timeoutMs, r.name, DefaultTimeoutMs), 1)
	return DefaultTimeoutMs
}

func (r *Registry) insert(timeoutMs int64, once bool, wrap func(id ID) func()) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.genId++
	id := r.genId
	r.timers[id] = &_Timer{
		id:        id,
		callback:  wrap(id),
		timeoutMs: timeoutMs,
		once:      once,
	}
	return id
}

func plain(callback func()) func(ID) func() {
	return func(ID) func() { return callback }
}

// selfRemoving 回调执行完(包括panic)后移除自己
func (r *Registry) selfRemoving(callback func()) func(ID) func() {
	return func(id ID) func() {
		return func() {
			defer r.Remove(id)
			if callback != nil {
				callback()
			}
		}
	}
}

// Add 注册周期回调, timeoutMs<=0时使用DefaultTimeoutMs
func (r *Registry) Add(callback func(), timeoutMs int64) ID {
	return r.insert(r.checkTimeout(timeoutMs), false, plain(callback))
}

// Once 注册一次性回调, 触发后自动移除
func (r *Registry) Once(callback func(), timeoutMs int64) ID {
	return r.insert(r.checkTimeout(timeoutMs), true, r.selfRemoving(callback))
}

// AddStrict 同Add, 但timeout非法时直接返回错误
func (r *Registry) AddStrict(callback func(), timeoutMs int64) (ID, error) {
	if timeoutMs <= 0 {
		return 0, errs.InvalidTimeout.Printf("timeout=%d", timeoutMs)
	}
	return r.insert(timeoutMs, false, plain(callback)), nil
}

func (r *Registry) OnceStrict(callback func(), timeoutMs int64) (ID, error) {
	if timeoutMs <= 0 {
		return 0, errs.InvalidTimeout.Printf("timeout=%d", timeoutMs)
	}
	return r.insert(timeoutMs, true, r.selfRemoving(callback)), nil
}

func (r *Registry) Get(id ID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[id]
	if !ok {
		return Entry{}, false
	}
	return t.snapshot(), true
}

func (r *Registry) Remove(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timers[id]; !ok {
		return false
	}
	delete(r.timers, id)
	return true
}

// Update 修改timeout并重新计时
func (r *Registry) Update(id ID, timeoutMs int64) (ok bool, err error) {
	if timeoutMs <= 0 {
		return false, errs.InvalidTimeout.Printf("timeout=%d", timeoutMs)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[id]
	if !ok {
		return false, nil
	}
	t.timeoutMs = timeoutMs
	t.elapsedMs = 0
	return true, nil
}

// Clear 丢弃所有定时器, 不触发任何回调
func (r *Registry) Clear() {
	r.mu.Lock()
	r.timers = make(map[ID]*_Timer)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// IDs 按注册顺序返回
func (r *Registry) IDs() []ID {
	r.mu.Lock()
	ids := make([]ID, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// Tick 驱动一次. 先发TickEvent通知, 再按tick开始时的快照推进定时器:
// tick中新加的定时器下次tick才开始计时, tick中被移除的定时器不再触发
func (r *Registry) Tick() {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	r.lastTick.Store(ustime.NowMs())
	if r.publisher != nil {
		r.publisher.Dispatch(TickEvent, nil)
	}
	for _, id := range r.IDs() {
		if cb, fire := r.advance(id); fire {
			r.invoke(id, cb)
		}
	}
}

func (r *Registry) advance(id ID) (cb func(), fire bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[id]
	if !ok {
		return nil, false
	}
	if !t.elapse(r.interval) {
		return nil, false
	}
	return t.callback, true
}

func (r *Registry) invoke(id ID, cb func()) {
	if cb == nil {
		return
	}
	defer func() {
		if e := recover(); e != nil {
			mlog.Errorf("timer %s callback %d panic: %v\n%s", r.name, id, e, debug.Stack())
		}
	}()
	cb()
}

// Start 在新协程里运行驱动
func (r *Registry) Start(quit <-chan struct{}) {
	go r.Run(quit)
}

// Run 驱动循环, quit关闭或Stop后返回. 一个Registry只能运行一次
func (r *Registry) Run(quit <-chan struct{}) {
	if !r.started.CompareAndSwap(false, true) {
		mlog.Warnf("timer %s is already running", r.name)
		return
	}
	defer close(r.done)

	tickTimeSpan := ustime.Ms2Duration(r.interval)
	tickTimer := time.NewTimer(tickTimeSpan)
	defer tickTimer.Stop()
	mlog.Infof("timer %s running, interval %dms", r.name, r.interval)
	for {
		select {
		case <-quit:
			mlog.Infof("timer %s quit", r.name)
			return
		case <-r.stopSig:
			mlog.Infof("timer %s stopped", r.name)
			return
		case <-tickTimer.C:
			// stopSig和tickTimer同时就绪时select随机选, Stop之后不再tick
			if r.stopped() {
				mlog.Infof("timer %s stopped", r.name)
				return
			}
			// 先重置, tick耗时不拉长间隔
			tickTimer.Reset(tickTimeSpan)
			r.Tick()
		}
	}
}

func (r *Registry) stopped() bool {
	select {
	case <-r.stopSig:
		return true
	default:
		return false
	}
}

// Stop 结束驱动, 可重复调用, 也可以在回调中调用
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopSig)
	})
}

// Done 驱动循环退出后关闭
func (r *Registry) Done() <-chan struct{} {
	return r.done
}

func (r *Registry) Running() bool {
	if !r.started.Load() {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

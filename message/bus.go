package message

import (
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/fixkme/appstorm/mlog"
	"github.com/fixkme/appstorm/util/errs"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

type Handler func(data any)

type binding struct {
	token   string
	event   string
	handler Handler
	once    bool
	fired   atomic.Bool
}

type Option func(*options)

type options struct {
	poolSize int
}

// WithPool 监听者在ants协程池里异步执行, size<=0表示同步投递
func WithPool(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}

// Bus 按事件名分发的发布订阅
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]*binding
	tokens    map[string]*binding
	pool      *ants.Pool
}

func NewBus(opts ...Option) (*Bus, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	b := &Bus{
		listeners: make(map[string][]*binding),
		tokens:    make(map[string]*binding),
	}
	if o.poolSize > 0 {
		pool, err := ants.NewPool(o.poolSize,
			ants.WithNonblocking(true),
			ants.WithPanicHandler(func(r any) {
				mlog.Errorf("message handler panic: %v\n%s", r, debug.Stack())
			}),
		)
		if err != nil {
			return nil, errs.Unknown.Wrap(err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *Bus) bind(event string, h Handler, once bool) string {
	l := &binding{
		token:   uuid.NewString(),
		event:   event,
		handler: h,
		once:    once,
	}
	b.mu.Lock()
	b.listeners[event] = append(b.listeners[event], l)
	b.tokens[l.token] = l
	b.mu.Unlock()
	return l.token
}

// Bind 注册监听, 返回的token用于Unbind
func (b *Bus) Bind(event string, h Handler) string {
	return b.bind(event, h, false)
}

// BindOnce 第一次投递后自动解绑
func (b *Bus) BindOnce(event string, h Handler) string {
	return b.bind(event, h, true)
}

func (b *Bus) Unbind(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.tokens[token]
	if !ok {
		return false
	}
	delete(b.tokens, token)
	list := b.listeners[l.event]
	for idx, x := range list {
		if x == l {
			list = append(list[:idx:idx], list[idx+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(b.listeners, l.event)
	} else {
		b.listeners[l.event] = list
	}
	return true
}

// UnbindAll 解绑某个事件的全部监听, 返回解绑数量
func (b *Bus) UnbindAll(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[event]
	for _, l := range list {
		delete(b.tokens, l.token)
	}
	delete(b.listeners, event)
	return len(list)
}

func (b *Bus) Count(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[event])
}

// Dispatch 投递给当前的监听快照, 投递过程中的Bind/Unbind不影响本次
func (b *Bus) Dispatch(event string, data any) {
	b.mu.RLock()
	list := b.listeners[event]
	if len(list) == 0 {
		b.mu.RUnlock()
		return
	}
	snapshot := make([]*binding, len(list))
	copy(snapshot, list)
	b.mu.RUnlock()

	for _, l := range snapshot {
		if l.once {
			if !l.fired.CompareAndSwap(false, true) {
				continue
			}
			b.Unbind(l.token)
		}
		b.deliver(l, data)
	}
}

func (b *Bus) deliver(l *binding, data any) {
	if l.handler == nil {
		return
	}
	if b.pool != nil {
		err := b.pool.Submit(func() { l.handler(data) })
		if err == nil {
			return
		}
		// 池满或已释放, 退化为同步执行
		if errors.Is(err, ants.ErrPoolClosed) {
			mlog.Warnf("message %s deliver inline: %v", l.event, errs.PoolClosed.Wrap(err))
		} else {
			mlog.Debugf("message %s deliver inline: %v", l.event, err)
		}
	}
	call(l, data)
}

func call(l *binding, data any) {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("message %s handler panic: %v\n%s", l.event, r, debug.Stack())
		}
	}()
	l.handler(data)
}

// Release 释放协程池, 之后的投递都是同步的
func (b *Bus) Release() {
	if b.pool != nil && !b.pool.IsClosed() {
		b.pool.Release()
	}
}

func (b *Bus) Async() bool {
	return b.pool != nil && !b.pool.IsClosed()
}

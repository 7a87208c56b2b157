package timer

import "github.com/rs/xid"

const (
	DefaultIntervalMs = 50   // 驱动tick间隔
	DefaultTimeoutMs  = 1000 // 非法timeout的替代值
	TickEvent         = "timer.tick"
)

// Publisher 每次tick发出的通知, message.Bus实现了它
type Publisher interface {
	Dispatch(event string, data any)
}

// Warner 诊断输出, console.Console实现了它
type Warner interface {
	Warn(message any, priority int)
}

type Option func(*Registry)

// WithInterval 驱动间隔 毫秒, 非正数使用默认值
func WithInterval(ms int64) Option {
	return func(r *Registry) {
		if ms > 0 {
			r.interval = ms
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(r *Registry) {
		r.publisher = p
	}
}

func WithWarner(w Warner) Option {
	return func(r *Registry) {
		if w != nil {
			r.warner = w
		}
	}
}

func WithName(name string) Option {
	return func(r *Registry) {
		if name != "" {
			r.name = name
		}
	}
}

func defaultName() string {
	return "timer-" + xid.New().String()
}

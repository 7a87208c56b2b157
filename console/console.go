package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/armon/go-radix"
	"github.com/fixkme/appstorm/ds/staticlist"
	"github.com/fixkme/appstorm/mlog"
)

type Level int

const (
	LevelLog Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelCount
)

// NoPriority 不带优先级的消息, 不受全局verbose过滤
const NoPriority = -1

const DefaultTraceLimit = 2000

var levelNames = [levelCount]string{"log", "info", "warn", "error"}

func (l Level) String() string {
	if l < 0 || l >= levelCount {
		return "log"
	}
	return levelNames[l]
}

// ParseLevel warning是warn的别名, 无法识别时返回LevelLog和false
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log":
		return LevelLog, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelLog, false
}

type Config struct {
	Level      string         // 打印等级: log, info, warn, error; 空表示全部打印
	Verbose    int            // 全局verbose, 优先级低于它的消息不打印
	Namespaces map[string]int // 命名空间verbose, 如 "app.timer": 2
	TraceLimit int            // 每个等级保留的消息条数
}

// Printer 真正的输出端
type Printer func(level Level, text string)

type Option func(*Console)

func WithPrinter(p Printer) Option {
	return func(c *Console) {
		if p != nil {
			c.out = p
		}
	}
}

// Console 分级输出, 并在内存中保留每个等级最近的消息
type Console struct {
	mu      sync.Mutex
	filter  string
	verbose int
	ns      *radix.Tree
	limit   int
	traces  [levelCount]*staticlist.Queue[string]
	out     Printer
}

func New(conf Config, opts ...Option) *Console {
	c := &Console{
		filter:  strings.ToLower(strings.TrimSpace(conf.Level)),
		verbose: conf.Verbose,
		ns:      radix.New(),
		limit:   conf.TraceLimit,
		out:     mlogPrinter,
	}
	if c.limit <= 0 {
		c.limit = DefaultTraceLimit
	}
	for name, v := range conf.Namespaces {
		c.setNamespace(name, v)
	}
	c.resetTraces()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func mlogPrinter(level Level, text string) {
	switch level {
	case LevelError:
		mlog.Error(text)
	case LevelWarn:
		mlog.Warn(text)
	default:
		mlog.Info(text)
	}
}

func (c *Console) resetTraces() {
	for i := range c.traces {
		c.traces[i] = staticlist.NewQueue[string](c.limit)
	}
}

// nsKey 以"."结尾, 保证只匹配完整的命名空间段
func nsKey(name string) string {
	return strings.TrimSuffix(name, ".") + "."
}

func (c *Console) setNamespace(name string, verbosity int) {
	if strings.Trim(name, ".") == "" {
		return
	}
	c.ns.Insert(nsKey(name), verbosity)
}

func (c *Console) SetNamespace(name string, verbosity int) {
	c.mu.Lock()
	c.setNamespace(name, verbosity)
	c.mu.Unlock()
}

func (c *Console) RemoveNamespace(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.ns.Delete(nsKey(name))
	return ok
}

func (c *Console) SetLevel(level string) {
	c.mu.Lock()
	c.filter = strings.ToLower(strings.TrimSpace(level))
	c.mu.Unlock()
}

func (c *Console) SetVerbose(verbose int) {
	c.mu.Lock()
	c.verbose = verbose
	c.mu.Unlock()
}

// levelAllowed 按配置的打印等级过滤
func (c *Console) levelAllowed(level Level) bool {
	switch c.filter {
	case "error":
		return level == LevelError
	case "warn", "warning":
		return level == LevelWarn || level == LevelError
	case "info":
		return level != LevelLog
	}
	return true
}

func (c *Console) shouldPrint(text string, isString bool, level Level, priority int) bool {
	should := c.levelAllowed(level)
	found := false
	if isString {
		if idx := strings.IndexByte(text, ':'); idx >= 0 {
			// 命名空间配置存在时, 只看命名空间的verbose
			if _, v, ok := c.ns.LongestPrefix(nsKey(text[:idx])); ok {
				found = true
				should = priority <= v.(int)
			}
		}
	}
	if !found && priority != NoPriority && priority < c.verbose {
		should = false
	}
	return should
}

// Write 记录消息, appear为false时只记录不打印
func (c *Console) Write(level Level, message any, priority int, appear bool) {
	if level < 0 || level >= levelCount {
		level = LevelLog
	}
	text, isString := message.(string)
	if !isString {
		text = fmt.Sprint(message)
	}

	c.mu.Lock()
	c.traces[level].PushEvict(text)
	show := appear && c.shouldPrint(text, isString, level, priority)
	out := c.out
	c.mu.Unlock()

	if show {
		out(level, text)
	}
}

func (c *Console) Log(message any, priority int) {
	c.Write(LevelLog, message, priority, true)
}

func (c *Console) Info(message any, priority int) {
	c.Write(LevelInfo, message, priority, true)
}

func (c *Console) Warn(message any, priority int) {
	c.Write(LevelWarn, message, priority, true)
}

func (c *Console) Error(message any, priority int) {
	c.Write(LevelError, message, priority, true)
}

// Trace 返回某个等级保留的消息, 旧的在前
func (c *Console) Trace(level Level) []string {
	if level < 0 || level >= levelCount {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.traces[level].Values()
}

func (c *Console) TraceAll() map[Level][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := make(map[Level][]string, levelCount)
	for i, q := range c.traces {
		all[Level(i)] = q.Values()
	}
	return all
}

// Clear 清空保留的消息
func (c *Console) Clear() {
	c.mu.Lock()
	for _, q := range c.traces {
		q.Clear()
	}
	c.mu.Unlock()
}

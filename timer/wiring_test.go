package timer_test

import (
	"testing"

	"github.com/fixkme/appstorm/console"
	"github.com/fixkme/appstorm/message"
	"github.com/fixkme/appstorm/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryWithBusAndConsole(t *testing.T) {
	var printed []string
	cons := console.New(console.Config{Namespaces: map[string]int{"timer": 0}},
		console.WithPrinter(func(_ console.Level, text string) { printed = append(printed, text) }))
	bus, err := message.NewBus()
	require.NoError(t, err)

	r := timer.NewRegistry(
		timer.WithInterval(50),
		timer.WithPublisher(bus),
		timer.WithWarner(cons),
	)

	ticks := 0
	bus.Bind(timer.TickEvent, func(data any) {
		assert.Nil(t, data)
		ticks++
	})

	id := r.Add(func() {}, -1)
	e, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, int64(timer.DefaultTimeoutMs), e.TimeoutMs)

	// 告警一定进入trace, 命名空间timer的verbose是0, 优先级1的告警不打印
	warns := cons.Trace(console.LevelWarn)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "timeout has been set to 1000ms")
	assert.Empty(t, printed)

	for i := 0; i < 20; i++ {
		r.Tick()
	}
	assert.Equal(t, 20, ticks)
	e, _ = r.Get(id)
	assert.Equal(t, int64(1), e.Fired)
}

func TestBusOnceListenerOnTick(t *testing.T) {
	bus, err := message.NewBus()
	require.NoError(t, err)
	r := timer.NewRegistry(timer.WithPublisher(bus))

	first := 0
	bus.BindOnce(timer.TickEvent, func(any) { first++ })
	r.Tick()
	r.Tick()
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, bus.Count(timer.TickEvent))
}

package timer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElapse(t *testing.T) {
	tm := &_Timer{timeoutMs: 100}
	assert.False(t, tm.elapse(50))
	assert.Equal(t, int64(50), tm.elapsedMs)
	assert.True(t, tm.elapse(50))
	assert.Equal(t, int64(0), tm.elapsedMs)
	assert.Equal(t, int64(1), tm.fired)
}

func TestElapseSaturates(t *testing.T) {
	tm := &_Timer{timeoutMs: math.MaxInt64, elapsedMs: math.MaxInt64 - 10}
	assert.True(t, tm.elapse(50))
	assert.Equal(t, int64(0), tm.elapsedMs)
	assert.Equal(t, int64(1), tm.fired)

	tm = &_Timer{timeoutMs: math.MaxInt64, elapsedMs: math.MaxInt64 - 100}
	assert.False(t, tm.elapse(50))
	assert.Equal(t, int64(math.MaxInt64-50), tm.elapsedMs)
}

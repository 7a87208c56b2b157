package time

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeOffset(t *testing.T) {
	defer SetTimeOffset(0)

	before := NowMs()
	SetTimeOffset(time.Hour)
	assert.Equal(t, time.Hour, GetTimeOffset())
	assert.GreaterOrEqual(t, NowMs()-before, int64(HourMs))
}

func TestMsConversion(t *testing.T) {
	assert.Equal(t, 50*time.Millisecond, Ms2Duration(50))
	assert.Equal(t, int64(1234), Ms2Time(1234).UnixMilli())
}

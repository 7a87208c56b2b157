package errs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErr(t *testing.T) {
	err := InvalidTimeout.Printf("timeout=%d", -5)
	assert.Equal(t, "INVALID_TIMEOUT,timeout=-5", err.Error())
	assert.True(t, errors.Is(err, InvalidTimeout))
	assert.False(t, errors.Is(err, InvalidConfig))
	assert.Equal(t, int32(ErrCode_InvalidTimeout), err.Code())
}

func TestPrint(t *testing.T) {
	err := InvalidConfig.Print("timer_interval_ms", "must be positive")
	assert.Equal(t, "INVALID_CONFIG,timer_interval_ms,must be positive", err.Error())
	assert.Same(t, InvalidConfig, InvalidConfig.Print())
}

func TestWrap(t *testing.T) {
	err := InvalidConfig.Wrap(io.ErrUnexpectedEOF)
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.True(t, errors.Is(err, InvalidConfig))
	assert.Equal(t, "INVALID_CONFIG: unexpected EOF", err.Error())

	plain := WrapError(io.EOF)
	assert.Equal(t, int32(ErrCode_Unknown), plain.Code())
	assert.True(t, errors.Is(plain, io.EOF))

	assert.Equal(t, int32(ErrCode_OK), CodeOf(nil))
	assert.Equal(t, int32(ErrCode_InvalidConfig), CodeOf(err))
	assert.Nil(t, WrapError(nil))
}

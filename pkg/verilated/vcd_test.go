package verilated

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVCDUnsupportedOnDetached(t *testing.T) {
	useDetached(t)

	v, err := NewVCD()
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, v)
}

func TestVCDForwards(t *testing.T) {
	spy := newSpyRuntime()
	useRuntime(t, spy)

	EnableTraceCapability(true)
	v, err := NewVCD()
	require.NoError(t, err)
	require.Len(t, spy.tracers, 1)
	ft := spy.tracers[0]

	require.NoError(t, v.SetTimeUnit("1ns"))
	require.NoError(t, v.SetTimeResolution("1ps"))
	require.NoError(t, v.Open("wave.vcd"))
	assert.True(t, v.IsOpen())
	v.SetRolloverMB(64)
	v.Dump(0)
	v.Dump(10)
	v.Flush()
	v.OpenNext(true)
	v.Close()
	assert.False(t, v.IsOpen())
	assert.True(t, v.Native() != nil)

	assert.Equal(t, "1ns", ft.unit)
	assert.Equal(t, "1ps", ft.res)
	assert.Equal(t, []string{"wave.vcd"}, ft.files)
	assert.Equal(t, uint64(64), ft.rollover)
	assert.Equal(t, []uint64{0, 10}, ft.dumps)
	assert.Equal(t, 1, ft.flushes)
	assert.Equal(t, 1, ft.next)

	v.Release()
	v.Release()
	assert.Equal(t, 1, ft.freed)
	assert.True(t, v.Native() == nil)
	assert.False(t, v.IsOpen())
	v.Dump(20)
	assert.Len(t, ft.dumps, 2)
}

func TestVCDRejectsNUL(t *testing.T) {
	spy := newSpyRuntime()
	useRuntime(t, spy)
	v, err := NewVCD()
	require.NoError(t, err)
	defer v.Release()

	var encErr *EncodingError
	require.ErrorAs(t, v.Open("a\x00.vcd"), &encErr)
	require.ErrorAs(t, v.SetTimeUnit("n\x00s"), &encErr)
	require.ErrorAs(t, v.SetTimeResolution("\x00"), &encErr)
	assert.Empty(t, spy.tracers[0].files)
}

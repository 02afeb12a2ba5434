package verilated

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vlgo/verilated-go/internal/backend"
	"github.com/vlgo/verilated-go/pkg/verilated/logging"
)

func TestRandomResetRoundTrip(t *testing.T) {
	useDetached(t)

	for _, m := range []RandomResetMode{AllZeros, AllBits, Randomize} {
		SetRandomReset(m)
		assert.Equal(t, m, RandomReset(), m.String())
	}
}

func TestRandomResetUnknownCodes(t *testing.T) {
	d := useDetached(t)

	for _, code := range []int32{-1, 3, 42, -2147483648} {
		d.SetRandReset(code)
		assert.Equal(t, Randomize, RandomReset(), "code %d", code)
	}
}

func TestRandomResetModeText(t *testing.T) {
	for in, want := range map[string]RandomResetMode{
		"zeros": AllZeros, "0": AllZeros,
		"ones": AllBits, "1": AllBits,
		"random": Randomize, "randomize": Randomize, "2": Randomize,
	} {
		var m RandomResetMode
		require.NoError(t, m.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, m, in)
	}

	var m RandomResetMode
	assert.ErrorContains(t, m.UnmarshalText([]byte("3")), "out of range")
	assert.ErrorContains(t, m.UnmarshalText([]byte("sometimes")), "unknown")

	b, err := AllBits.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ones", string(b))
}

func TestSignalFinishIdempotent(t *testing.T) {
	useDetached(t)

	assert.False(t, HasFinished())
	SignalFinish()
	assert.True(t, HasFinished())
	SignalFinish()
	assert.True(t, HasFinished())
}

func TestEnableTraceCapability(t *testing.T) {
	useDetached(t)

	assert.False(t, CalcUnusedSignals())
	EnableTraceCapability(true)
	assert.True(t, CalcUnusedSignals())
	EnableTraceCapability(false)
	assert.True(t, CalcUnusedSignals())
}

func TestSetCommandArguments(t *testing.T) {
	d := useDetached(t)

	args := []string{"sim", "+verbose", "+seed=42"}
	require.NoError(t, SetCommandArguments(args))
	got, loaded := d.Args()
	assert.True(t, loaded)
	assert.Equal(t, args, got)

	require.NoError(t, SetCommandArguments(nil))
	got, loaded = d.Args()
	assert.True(t, loaded)
	assert.Empty(t, got)
}

func TestSetCommandArgumentsNULMakesNoCall(t *testing.T) {
	spy := newSpyRuntime()
	useRuntime(t, spy)

	err := SetCommandArguments([]string{"sim", "+ok", "bad\x00arg"})
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 2, encErr.Index)
	assert.Equal(t, 3, encErr.Offset)
	assert.Equal(t, 0, spy.calls())

	_, loaded := spy.Args()
	assert.False(t, loaded)
}

func TestRuntimeOptionsFromArguments(t *testing.T) {
	useDetached(t)

	require.NoError(t, SetCommandArguments([]string{
		"sim", "+verilator+rand+reset+1", "+verilator+debugi+3", "+verilator+noassert",
	}))
	assert.Equal(t, AllBits, RandomReset())
	assert.Equal(t, 3, DebugLevel())
	assert.False(t, Assertions())
}

func TestPlusArgMatch(t *testing.T) {
	useDetached(t)

	_, err := PlusArgMatch("seed")
	require.ErrorIs(t, err, ErrNoCommandArgs)

	require.NoError(t, SetCommandArguments([]string{"sim", "seed=1", "+seed=42", "+seed=7"}))

	got, err := PlusArgMatch("seed")
	require.NoError(t, err)
	assert.Equal(t, "+seed=42", got)

	got, err = PlusArgMatch("trace")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = PlusArgMatch("se\x00ed")
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, -1, encErr.Index)
}

func TestPlusArgMatchStateFollowsRuntime(t *testing.T) {
	useDetached(t)
	require.NoError(t, SetCommandArguments([]string{"+a"}))

	useDetached(t)
	_, err := PlusArgMatch("a")
	assert.ErrorIs(t, err, ErrNoCommandArgs)
}

func TestProductIdentity(t *testing.T) {
	useDetached(t)

	name, err := ProductName()
	require.NoError(t, err)
	assert.Equal(t, "Verilator", name)

	v1, err := ProductVersion()
	require.NoError(t, err)
	v2, err := ProductVersion()
	require.NoError(t, err)
	assert.NotEmpty(t, v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, v1, RuntimeVersion())
	assert.NotEmpty(t, WrapperVersion())
}

func TestProductIdentityInvalidUTF8(t *testing.T) {
	spy := newSpyRuntime()
	spy.version = "5.0\xff"
	useRuntime(t, spy)

	_, err := ProductVersion()
	var decErr *DecodingError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "product version", decErr.What)
	assert.Equal(t, 3, decErr.Offset)
	assert.Equal(t, "unknown", RuntimeVersion())

	name, err := ProductName()
	require.NoError(t, err)
	assert.Equal(t, "Verilator", name)
}

func TestDumps(t *testing.T) {
	var buf bytes.Buffer
	useRuntime(t, backend.NewDetached(backend.WithOutput(&buf)))

	DumpInternalState()
	DumpScopeNames()
	DumpInternalState()
	assert.Contains(t, buf.String(), "internalsDump")
	assert.Contains(t, buf.String(), "scopesDump")
}

func TestRuntimeFlags(t *testing.T) {
	useDetached(t)

	assert.True(t, Assertions())
	assert.True(t, FatalOnVPIError())

	SetDebugLevel(2)
	SetCalcUnusedSignals(true)
	SetAssertions(false)
	SetFatalOnVPIError(false)

	assert.Equal(t, 2, DebugLevel())
	assert.True(t, CalcUnusedSignals())
	assert.False(t, Assertions())
	assert.False(t, FatalOnVPIError())
}

func TestSetCommandArgumentsLogsNoArgv(t *testing.T) {
	useDetached(t)
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(logging.NewZap(zap.New(core)))
	t.Cleanup(func() { SetLogger(nil) })

	require.NoError(t, SetCommandArguments([]string{"sim", "+license=s3cret"}))

	entries := logs.FilterMessage("command arguments set").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["count"])
	assert.NotContains(t, fields["argv"], "s3cret")
	assert.NotEmpty(t, fields["argv"])
}

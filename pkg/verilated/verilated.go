package verilated

import (
	"context"

	"github.com/vlgo/verilated-go/pkg/verilated/logging"
)

// SetRandomReset selects how the runtime initializes signals that the
// design leaves uninitialized. It takes effect for models evaluated after the
// call.
func SetRandomReset(m RandomResetMode) {
	rt().SetRandReset(m.code())
}

// RandomReset returns the current policy. It never fails; a code the
// binding does not know reads as Randomize.
func RandomReset() RandomResetMode {
	return decodeMode(rt().RandReset())
}

// SignalFinish raises the process-wide $finish flag. Raising it again is a
// no-op.
func SignalFinish() {
	rt().SetGotFinish(true)
}

// HasFinished reports whether $finish has been raised, by the design or by
// SignalFinish.
func HasFinished() bool {
	return rt().GotFinish()
}

// EnableTraceCapability allows waveform tracing to be turned on later. It
// must be called before the model is constructed. Enabling it costs
// performance: the runtime keeps signals it would otherwise optimize away.
// Once enabled the runtime may refuse to disable it again; passing false
// afterwards is forwarded but should not be relied on.
func EnableTraceCapability(on bool) {
	rt().TraceEverOn(on)
}

// SetCommandArguments hands the program arguments to the runtime for
// $test$plusargs and $value$plusargs. Each argument becomes a NUL-terminated
// copy that lives only for the duration of the call; the runtime keeps its
// own copy.
//
// An argument containing a NUL byte cannot be represented: the call then
// returns *EncodingError and the runtime is not called at all.
func SetCommandArguments(args []string) error {
	if err := checkArgs(args); err != nil {
		return err
	}
	cur := bound.Load()
	cur.b.CommandArgs(args)
	cur.argsLoaded.Store(true)
	log().Debug(context.Background(), "command arguments set", "count", len(args), logging.Redacted("argv"))
	return nil
}

// PlusArgMatch returns the first argument of the form "+<prefix>...",
// including the leading '+', or "" when none matches. The runtime reuses one
// buffer for every lookup; the result is copied before returning.
func PlusArgMatch(prefix string) (string, error) {
	if err := checkText(prefix); err != nil {
		return "", err
	}
	cur := bound.Load()
	if !cur.argsLoaded.Load() {
		return "", ErrNoCommandArgs
	}
	return decodeText("plusarg match", cur.b.CommandArgsPlusMatch(prefix))
}

// ProductName returns the runtime's product name, e.g. "Verilator". The text
// is owned by the runtime and immutable for the life of the process.
func ProductName() (string, error) {
	return decodeText("product name", rt().ProductName())
}

// ProductVersion returns the runtime's version string. Same ownership as
// ProductName.
func ProductVersion() (string, error) {
	return decodeText("product version", rt().ProductVersion())
}

// DumpInternalState prints much of the runtime's internal state to its
// standard output. Debug aid only: the format changes between runtime
// versions and must not be parsed.
func DumpInternalState() {
	rt().InternalsDump()
}

// DumpScopeNames prints every scope name with DPI import/export context.
// Debug aid only, like DumpInternalState.
func DumpScopeNames() {
	rt().ScopesDump()
}

// SetDebugLevel sets the runtime's internal debug level. Levels above zero
// only print when the model was built with VL_DEBUG.
func SetDebugLevel(level int) {
	rt().SetDebug(int32(level))
}

// DebugLevel returns the runtime's internal debug level.
func DebugLevel() int {
	return int(rt().Debug())
}

// SetCalcUnusedSignals makes the runtime compute signals nothing reads.
// EnableTraceCapability implies it.
func SetCalcUnusedSignals(on bool) {
	rt().SetCalcUnusedSigs(on)
}

// CalcUnusedSignals reports whether the runtime computes unread signals.
func CalcUnusedSignals() bool {
	return rt().CalcUnusedSigs()
}

// SetAssertions enables or disables SystemVerilog assertion checking.
func SetAssertions(on bool) {
	rt().SetAssertOn(on)
}

// Assertions reports whether assertion checking is enabled.
func Assertions() bool {
	return rt().AssertOn()
}

// SetFatalOnVPIError selects whether a VPI error stops the simulation.
func SetFatalOnVPIError(on bool) {
	rt().SetFatalOnVpiError(on)
}

// FatalOnVPIError reports whether a VPI error stops the simulation.
func FatalOnVPIError() bool {
	return rt().FatalOnVpiError()
}

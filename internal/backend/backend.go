package backend

import "errors"

// ErrNotBuilt reports that the native bindings were not linked into the
// current binary.
var ErrNotBuilt = errors.New("verilated/internal/backend: native bindings not built")

// Kind selects one of the two callback lists kept by the runtime.
type Kind uint8

const (
	Flush Kind = iota
	Exit
)

func (k Kind) String() string {
	switch k {
	case Flush:
		return "flush"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Caps is the set of optional features a runtime supports.
type Caps uint32

const (
	// CapFlushCallbacks: addFlushCb/removeFlushCb with a data pointer
	// (Verilator 4.038 and later).
	CapFlushCallbacks Caps = 1 << iota
	// CapExitCallbacks: addExitCb/removeExitCb (Verilator 4.038 and later).
	CapExitCallbacks
	// CapLegacyFlush: the single global flushCb hook without a data pointer.
	CapLegacyFlush
	// CapVCD: VerilatedVcdC is available.
	CapVCD
)

// Has reports whether all bits of want are set.
func (c Caps) Has(want Caps) bool { return c&want == want }

// ForKind returns the capability bit that guards callbacks of kind k.
func ForKind(k Kind) Caps {
	if k == Exit {
		return CapExitCallbacks
	}
	return CapFlushCallbacks
}

// Dispatcher receives callbacks from the runtime. Dispatch is invoked through
// the fixed-signature trampoline with the opaque word that was passed to
// AddCallback; DispatchLegacyFlush is invoked by the data-less legacy hook.
//
// Both may be called from threads the caller does not control and must be
// safe for concurrent use.
type Dispatcher interface {
	Dispatch(data uintptr)
	DispatchLegacyFlush()
}

// Backend is the control surface of one runtime. Every method maps to exactly
// one call into the runtime. Strings handed to a Backend have already been
// checked for embedded NUL bytes.
type Backend interface {
	// Name identifies the backend ("cgo", "dynlib", "detached").
	Name() string
	Caps() Caps
	// Install routes runtime callbacks to d. It must be called before any
	// callback is added.
	Install(d Dispatcher)

	SetRandReset(code int32)
	RandReset() int32
	SetDebug(level int32)
	Debug() int32
	SetCalcUnusedSigs(on bool)
	CalcUnusedSigs() bool
	SetGotFinish(on bool)
	GotFinish() bool
	TraceEverOn(on bool)
	SetAssertOn(on bool)
	AssertOn() bool
	SetFatalOnVpiError(on bool)
	FatalOnVpiError() bool

	// CommandArgs hands argv to the runtime. The runtime copies the strings
	// before returning.
	CommandArgs(args []string)
	// CommandArgsPlusMatch returns a copy of the first "+prefix..." argument,
	// or "" when none matches.
	CommandArgsPlusMatch(prefix string) string

	// ProductName and ProductVersion return views of immortal runtime-owned
	// text. The bytes are not validated.
	ProductName() string
	ProductVersion() string

	InternalsDump()
	ScopesDump()

	AddCallback(k Kind, data uintptr)
	RemoveCallback(k Kind, data uintptr)
	RunCallbacks(k Kind)

	// InstallLegacyFlush points the data-less flush hook at the legacy
	// trampoline. There is no way back: pre-4.038 runtimes abort when the
	// hook is changed to anything else.
	InstallLegacyFlush()
	LegacyFlushCall()

	// NewTracer creates a VCD writer; ErrNotBuilt without CapVCD.
	NewTracer() (Tracer, error)
}

package backend

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	detachedProductName    = "Verilator"
	detachedProductVersion = "0.000 detached"
)

// Detached is an in-process stand-in for the Verilator runtime. It keeps the
// same process-wide control state the runtime keeps and calls back through
// the installed Dispatcher the way the C trampoline does, but simulates
// nothing. It is bound when the binary carries no native runtime and is the
// runtime every unit test runs against.
type Detached struct {
	mu sync.Mutex

	caps Caps
	out  io.Writer
	d    Dispatcher

	randReset      int32
	debug          int32
	calcUnusedSigs bool
	gotFinish      bool
	assertOn       bool
	fatalOnVpi     bool

	args       []string
	argsLoaded bool

	cbs    [2][]uintptr
	legacy bool
}

// DetachedOption configures a Detached runtime.
type DetachedOption func(*Detached)

// WithCaps overrides the advertised capabilities. Without CapFlushCallbacks
// the runtime behaves like a pre-4.038 Verilator: only the legacy hook works.
func WithCaps(c Caps) DetachedOption {
	return func(r *Detached) { r.caps = c &^ CapVCD }
}

// WithOutput sets where the dump functions write. Defaults to os.Stderr.
func WithOutput(w io.Writer) DetachedOption {
	return func(r *Detached) { r.out = w }
}

// NewDetached returns a runtime in Verilator's power-on state.
func NewDetached(opts ...DetachedOption) *Detached {
	r := &Detached{
		caps:       CapFlushCallbacks | CapExitCallbacks,
		out:        os.Stderr,
		assertOn:   true,
		fatalOnVpi: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Detached) Name() string { return "detached" }

func (r *Detached) Caps() Caps { return r.caps }

func (r *Detached) Install(d Dispatcher) {
	r.mu.Lock()
	r.d = d
	r.mu.Unlock()
}

func (r *Detached) SetRandReset(code int32) {
	r.mu.Lock()
	r.randReset = code
	r.mu.Unlock()
}

func (r *Detached) RandReset() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.randReset
}

func (r *Detached) SetDebug(level int32) {
	r.mu.Lock()
	r.debug = level
	r.mu.Unlock()
}

func (r *Detached) Debug() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debug
}

func (r *Detached) SetCalcUnusedSigs(on bool) {
	r.mu.Lock()
	r.calcUnusedSigs = on
	r.mu.Unlock()
}

func (r *Detached) CalcUnusedSigs() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calcUnusedSigs
}

func (r *Detached) SetGotFinish(on bool) {
	r.mu.Lock()
	r.gotFinish = on
	r.mu.Unlock()
}

func (r *Detached) GotFinish() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gotFinish
}

// TraceEverOn only ever turns signal calculation on; a false flag is ignored
// just as in the runtime.
func (r *Detached) TraceEverOn(on bool) {
	if !on {
		return
	}
	r.mu.Lock()
	r.calcUnusedSigs = true
	r.mu.Unlock()
}

func (r *Detached) SetAssertOn(on bool) {
	r.mu.Lock()
	r.assertOn = on
	r.mu.Unlock()
}

func (r *Detached) AssertOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assertOn
}

func (r *Detached) SetFatalOnVpiError(on bool) {
	r.mu.Lock()
	r.fatalOnVpi = on
	r.mu.Unlock()
}

func (r *Detached) FatalOnVpiError() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatalOnVpi
}

// CommandArgs replaces the stored arguments and applies the few
// +verilator+ runtime options that touch state kept here.
func (r *Detached) CommandArgs(args []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.args = slices.Clone(args)
	r.argsLoaded = true
	for _, arg := range args {
		r.applyRuntimeArg(arg)
	}
}

func (r *Detached) applyRuntimeArg(arg string) {
	opt, ok := strings.CutPrefix(arg, "+verilator+")
	if !ok {
		return
	}
	switch {
	case opt == "debug":
		r.debug = 4
	case opt == "noassert":
		r.assertOn = false
	case strings.HasPrefix(opt, "debugi+"):
		if v, err := strconv.ParseInt(opt[len("debugi+"):], 10, 32); err == nil {
			r.debug = int32(v)
		}
	case strings.HasPrefix(opt, "rand+reset+"):
		if v, err := strconv.ParseInt(opt[len("rand+reset+"):], 10, 32); err == nil {
			r.randReset = int32(v)
		}
	}
}

// CommandArgsPlusMatch returns the first argument of the form "+<prefix>...".
func (r *Detached) CommandArgsPlusMatch(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, arg := range r.args {
		if strings.HasPrefix(arg, "+") && strings.HasPrefix(arg[1:], prefix) {
			return arg
		}
	}
	return ""
}

func (r *Detached) ProductName() string { return detachedProductName }

func (r *Detached) ProductVersion() string { return detachedProductVersion }

func (r *Detached) InternalsDump() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "internalsDump:\n")
	fmt.Fprintf(r.out, "  Version: %s %s\n", detachedProductName, detachedProductVersion)
	fmt.Fprintf(r.out, "  randReset=%d debug=%d calcUnusedSigs=%t\n", r.randReset, r.debug, r.calcUnusedSigs)
	fmt.Fprintf(r.out, "  gotFinish=%t assertOn=%t fatalOnVpiError=%t\n", r.gotFinish, r.assertOn, r.fatalOnVpi)
	if r.argsLoaded {
		fmt.Fprintf(r.out, "  Argv:")
		for _, arg := range r.args {
			fmt.Fprintf(r.out, " %s", arg)
		}
		fmt.Fprintf(r.out, "\n")
	}
	fmt.Fprintf(r.out, "  Callbacks: flush=%d exit=%d\n", len(r.cbs[Flush]), len(r.cbs[Exit]))
}

// ScopesDump prints an empty scope table: no model is loaded.
func (r *Detached) ScopesDump() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "  scopesDump:\n\n")
}

// AddCallback moves an already present pair to the end of the list instead
// of storing it twice.
func (r *Detached) AddCallback(k Kind, data uintptr) {
	if !r.caps.Has(ForKind(k)) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := slices.DeleteFunc(r.cbs[k], func(v uintptr) bool { return v == data })
	r.cbs[k] = append(list, data)
}

func (r *Detached) RemoveCallback(k Kind, data uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cbs[k] = slices.DeleteFunc(r.cbs[k], func(v uintptr) bool { return v == data })
}

// RunCallbacks calls every registered callback of kind k over a snapshot, so
// handlers may register or unregister while the list runs.
func (r *Detached) RunCallbacks(k Kind) {
	if k == Flush && !r.caps.Has(CapFlushCallbacks) {
		r.LegacyFlushCall()
		return
	}
	r.mu.Lock()
	d := r.d
	list := slices.Clone(r.cbs[k])
	r.mu.Unlock()
	if d == nil {
		return
	}
	for _, data := range list {
		d.Dispatch(data)
	}
}

func (r *Detached) InstallLegacyFlush() {
	r.mu.Lock()
	r.legacy = true
	r.mu.Unlock()
}

// LegacyFlushCall runs the modern flush list when present, then the legacy
// hook.
func (r *Detached) LegacyFlushCall() {
	if r.caps.Has(CapFlushCallbacks) {
		r.mu.Lock()
		d := r.d
		list := slices.Clone(r.cbs[Flush])
		r.mu.Unlock()
		if d != nil {
			for _, data := range list {
				d.Dispatch(data)
			}
		}
	}
	r.mu.Lock()
	d, legacy := r.d, r.legacy
	r.mu.Unlock()
	if legacy && d != nil {
		d.DispatchLegacyFlush()
	}
}

func (r *Detached) NewTracer() (Tracer, error) {
	return nil, ErrNotBuilt
}

// Args returns a copy of the stored command arguments and whether any were
// ever set.
func (r *Detached) Args() ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.args), r.argsLoaded
}

// Registered returns a copy of the callback list of kind k.
func (r *Detached) Registered(k Kind) []uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.cbs[k])
}

//go:build (darwin || linux) && (amd64 || arm64)

package dynlib

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"

	"github.com/vlgo/verilated-go/internal/backend"
)

// Supported reports whether shared runtimes can be loaded on this platform.
const Supported = true

type symbols struct {
	caps              func() uint32
	setDispatch       func(fn uintptr)
	setLegacyDispatch func(fn uintptr)

	setRandReset       func(int32)
	randReset          func() int32
	setDebug           func(int32)
	debug              func() int32
	setCalcUnusedSigs  func(int32)
	calcUnusedSigs     func() int32
	setGotFinish       func(int32)
	gotFinish          func() int32
	traceEverOn        func(int32)
	setAssertOn        func(int32)
	assertOn           func() int32
	setFatalOnVpiError func(int32)
	fatalOnVpiError    func() int32

	commandArgs    func(argc int32, argv **byte)
	plusMatch      func(prefix string) string
	productName    func() uintptr
	productVersion func() uintptr

	internalsDump func()
	scopesDump    func()

	addCb  func(kind int32, data uintptr)
	rmCb   func(kind int32, data uintptr)
	runCbs func(kind int32)

	legacyFlushInstall func()
	legacyFlushCall    func()

	vcdNew               func() uintptr
	vcdDelete            func(uintptr)
	vcdIsOpen            func(uintptr) int32
	vcdOpen              func(uintptr, string)
	vcdOpenNext          func(uintptr, int32)
	vcdRolloverMB        func(uintptr, uint64)
	vcdClose             func(uintptr)
	vcdFlush             func(uintptr)
	vcdDump              func(uintptr, uint64)
	vcdSetTimeUnit       func(uintptr, string)
	vcdSetTimeResolution func(uintptr, string)
}

func (s *symbols) table() map[string]any {
	return map[string]any{
		"vlgo_caps":                    &s.caps,
		"vlgo_set_dispatch":            &s.setDispatch,
		"vlgo_set_legacy_dispatch":     &s.setLegacyDispatch,
		"vlgo_set_rand_reset":          &s.setRandReset,
		"vlgo_rand_reset":              &s.randReset,
		"vlgo_set_debug":               &s.setDebug,
		"vlgo_debug":                   &s.debug,
		"vlgo_set_calc_unused_sigs":    &s.setCalcUnusedSigs,
		"vlgo_calc_unused_sigs":        &s.calcUnusedSigs,
		"vlgo_set_got_finish":          &s.setGotFinish,
		"vlgo_got_finish":              &s.gotFinish,
		"vlgo_trace_ever_on":           &s.traceEverOn,
		"vlgo_set_assert_on":           &s.setAssertOn,
		"vlgo_assert_on":               &s.assertOn,
		"vlgo_set_fatal_on_vpi_error":  &s.setFatalOnVpiError,
		"vlgo_fatal_on_vpi_error":      &s.fatalOnVpiError,
		"vlgo_command_args":            &s.commandArgs,
		"vlgo_command_args_plus_match": &s.plusMatch,
		"vlgo_product_name":            &s.productName,
		"vlgo_product_version":         &s.productVersion,
		"vlgo_internals_dump":          &s.internalsDump,
		"vlgo_scopes_dump":             &s.scopesDump,
		"vlgo_add_cb":                  &s.addCb,
		"vlgo_remove_cb":               &s.rmCb,
		"vlgo_run_cbs":                 &s.runCbs,
		"vlgo_legacy_flush_install":    &s.legacyFlushInstall,
		"vlgo_legacy_flush_call":       &s.legacyFlushCall,
		"vlgo_vcd_new":                 &s.vcdNew,
		"vlgo_vcd_delete":              &s.vcdDelete,
		"vlgo_vcd_is_open":             &s.vcdIsOpen,
		"vlgo_vcd_open":                &s.vcdOpen,
		"vlgo_vcd_open_next":           &s.vcdOpenNext,
		"vlgo_vcd_rollover_mb":         &s.vcdRolloverMB,
		"vlgo_vcd_close":               &s.vcdClose,
		"vlgo_vcd_flush":               &s.vcdFlush,
		"vlgo_vcd_dump":                &s.vcdDump,
		"vlgo_vcd_set_time_unit":       &s.vcdSetTimeUnit,
		"vlgo_vcd_set_time_resolution": &s.vcdSetTimeResolution,
	}
}

type dispatcherBox struct{ d backend.Dispatcher }

var (
	dispatcher    atomic.Pointer[dispatcherBox]
	callbacksOnce sync.Once
	dispatchCb    uintptr
	legacyCb      uintptr
)

// purego callback slots are never released, so both are created once and
// shared by every library opened in the process.
func trampolines() (uintptr, uintptr) {
	callbacksOnce.Do(func() {
		dispatchCb = purego.NewCallback(func(datap uintptr) {
			if box := dispatcher.Load(); box != nil {
				box.d.Dispatch(datap)
			}
		})
		legacyCb = purego.NewCallback(func() {
			if box := dispatcher.Load(); box != nil {
				box.d.DispatchLegacyFlush()
			}
		})
	})
	return dispatchCb, legacyCb
}

// Library is a runtime loaded from a shared object.
type Library struct {
	path   string
	handle uintptr
	sym    symbols
}

// Open loads the shared object at path and resolves every vlgo_* symbol.
func Open(path string) (*Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Wrapf(err, "dlopen %s", path)
	}
	lib := &Library{path: path, handle: h}
	for name, fptr := range lib.sym.table() {
		addr, err := purego.Dlsym(h, name)
		if err != nil {
			_ = purego.Dlclose(h)
			return nil, errors.Wrapf(err, "resolve %s in %s", name, path)
		}
		purego.RegisterFunc(fptr, addr)
	}
	return lib, nil
}

// Close unloads the shared object. Callbacks must have been removed first.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	l.sym.setDispatch(0)
	l.sym.setLegacyDispatch(0)
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return errors.Wrapf(err, "dlclose %s", l.path)
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

func (l *Library) Name() string { return "dynlib" }

func (l *Library) Caps() backend.Caps { return backend.Caps(l.sym.caps()) }

func (l *Library) Install(d backend.Dispatcher) {
	dispatcher.Store(&dispatcherBox{d: d})
	dcb, lcb := trampolines()
	l.sym.setDispatch(dcb)
	l.sym.setLegacyDispatch(lcb)
}

func (l *Library) SetRandReset(code int32) { l.sym.setRandReset(code) }
func (l *Library) RandReset() int32        { return l.sym.randReset() }
func (l *Library) SetDebug(level int32)    { l.sym.setDebug(level) }
func (l *Library) Debug() int32            { return l.sym.debug() }

func (l *Library) SetCalcUnusedSigs(on bool)  { l.sym.setCalcUnusedSigs(cBool(on)) }
func (l *Library) CalcUnusedSigs() bool       { return l.sym.calcUnusedSigs() != 0 }
func (l *Library) SetGotFinish(on bool)       { l.sym.setGotFinish(cBool(on)) }
func (l *Library) GotFinish() bool            { return l.sym.gotFinish() != 0 }
func (l *Library) TraceEverOn(on bool)        { l.sym.traceEverOn(cBool(on)) }
func (l *Library) SetAssertOn(on bool)        { l.sym.setAssertOn(cBool(on)) }
func (l *Library) AssertOn() bool             { return l.sym.assertOn() != 0 }
func (l *Library) SetFatalOnVpiError(on bool) { l.sym.setFatalOnVpiError(cBool(on)) }
func (l *Library) FatalOnVpiError() bool      { return l.sym.fatalOnVpiError() != 0 }

// CommandArgs passes Go-allocated buffers; they are pinned for the duration
// of the call because the pointer array refers to them.
func (l *Library) CommandArgs(args []string) {
	var pinner runtime.Pinner
	defer pinner.Unpin()

	ptrs := make([]*byte, len(args)+1)
	for i, arg := range args {
		buf := append([]byte(arg), 0)
		pinner.Pin(&buf[0])
		ptrs[i] = &buf[0]
	}
	pinner.Pin(&ptrs[0])
	l.sym.commandArgs(int32(len(args)), &ptrs[0])
}

func (l *Library) CommandArgsPlusMatch(prefix string) string { return l.sym.plusMatch(prefix) }

func (l *Library) ProductName() string    { return cString(l.sym.productName()) }
func (l *Library) ProductVersion() string { return cString(l.sym.productVersion()) }

func (l *Library) InternalsDump() { l.sym.internalsDump() }
func (l *Library) ScopesDump()    { l.sym.scopesDump() }

func (l *Library) AddCallback(k backend.Kind, data uintptr)    { l.sym.addCb(int32(k), data) }
func (l *Library) RemoveCallback(k backend.Kind, data uintptr) { l.sym.rmCb(int32(k), data) }
func (l *Library) RunCallbacks(k backend.Kind)                 { l.sym.runCbs(int32(k)) }

func (l *Library) InstallLegacyFlush() { l.sym.legacyFlushInstall() }
func (l *Library) LegacyFlushCall()    { l.sym.legacyFlushCall() }

func cBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// cString copies a NUL-terminated C string. The memory stays owned by the
// library.
func cString(c uintptr) string {
	ptr := unsafe.Pointer(c)
	if ptr == nil {
		return ""
	}
	var n uintptr
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}

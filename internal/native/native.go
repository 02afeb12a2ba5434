//go:build cgo && verilator

package native

/*
#cgo pkg-config: verilator
#cgo CXXFLAGS: -std=c++17 -Wno-unused-parameter
#cgo LDFLAGS: -lstdc++
#include <stdlib.h>
#include <string.h>
#include "shim.h"

extern void vlgoDispatch(void*);
extern void vlgoLegacyFlush(void);

static void vlgo_install_go(void) {
	vlgo_set_dispatch(vlgoDispatch);
	vlgo_set_legacy_dispatch(vlgoLegacyFlush);
}
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/vlgo/verilated-go/internal/backend"
)

// Linked reports whether this binary carries the cgo bindings.
const Linked = true

type dispatcherBox struct{ d backend.Dispatcher }

var (
	dispatcher  atomic.Pointer[dispatcherBox]
	installOnce sync.Once
)

// Runtime is the cgo backend. It is stateless; all state lives in the
// Verilator runtime.
type Runtime struct{}

// Open returns the linked runtime.
func Open() (backend.Backend, error) {
	return Runtime{}, nil
}

func (Runtime) Name() string { return "cgo" }

func (Runtime) Caps() backend.Caps { return backend.Caps(C.vlgo_caps()) }

func (Runtime) Install(d backend.Dispatcher) {
	dispatcher.Store(&dispatcherBox{d: d})
	installOnce.Do(func() { C.vlgo_install_go() })
}

func (Runtime) SetRandReset(code int32) { C.vlgo_set_rand_reset(C.int(code)) }
func (Runtime) RandReset() int32        { return int32(C.vlgo_rand_reset()) }
func (Runtime) SetDebug(level int32)    { C.vlgo_set_debug(C.int(level)) }
func (Runtime) Debug() int32            { return int32(C.vlgo_debug()) }

func (Runtime) SetCalcUnusedSigs(on bool) { C.vlgo_set_calc_unused_sigs(cBool(on)) }
func (Runtime) CalcUnusedSigs() bool      { return C.vlgo_calc_unused_sigs() != 0 }
func (Runtime) SetGotFinish(on bool)      { C.vlgo_set_got_finish(cBool(on)) }
func (Runtime) GotFinish() bool           { return C.vlgo_got_finish() != 0 }
func (Runtime) TraceEverOn(on bool)       { C.vlgo_trace_ever_on(cBool(on)) }
func (Runtime) SetAssertOn(on bool)       { C.vlgo_set_assert_on(cBool(on)) }
func (Runtime) AssertOn() bool            { return C.vlgo_assert_on() != 0 }
func (Runtime) SetFatalOnVpiError(on bool) {
	C.vlgo_set_fatal_on_vpi_error(cBool(on))
}
func (Runtime) FatalOnVpiError() bool { return C.vlgo_fatal_on_vpi_error() != 0 }

// CommandArgs copies args into C memory, hands the array to the runtime and
// frees everything once the call returns; the runtime keeps its own copy.
func (Runtime) CommandArgs(args []string) {
	cArray, cStrs := createCStringArray(args)
	defer freeCStringArray(cArray, cStrs)
	C.vlgo_command_args(C.int(len(args)), (**C.char)(cArray))
}

// CommandArgsPlusMatch copies the match out of the runtime's reused buffer
// before returning.
func (Runtime) CommandArgsPlusMatch(prefix string) string {
	cPrefix := C.CString(prefix)
	defer C.free(unsafe.Pointer(cPrefix))
	return C.GoString(C.vlgo_command_args_plus_match(cPrefix))
}

func (Runtime) ProductName() string    { return immortalString(C.vlgo_product_name()) }
func (Runtime) ProductVersion() string { return immortalString(C.vlgo_product_version()) }

func (Runtime) InternalsDump() { C.vlgo_internals_dump() }
func (Runtime) ScopesDump()    { C.vlgo_scopes_dump() }

func (Runtime) AddCallback(k backend.Kind, data uintptr) {
	C.vlgo_add_cb(C.int(k), C.uintptr_t(data))
}

func (Runtime) RemoveCallback(k backend.Kind, data uintptr) {
	C.vlgo_remove_cb(C.int(k), C.uintptr_t(data))
}

func (Runtime) RunCallbacks(k backend.Kind) { C.vlgo_run_cbs(C.int(k)) }

func (Runtime) InstallLegacyFlush() { C.vlgo_legacy_flush_install() }
func (Runtime) LegacyFlushCall()    { C.vlgo_legacy_flush_call() }

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// immortalString views runtime-owned text that lives for the whole process.
// No copy is made; the string must never be freed.
func immortalString(p *C.char) string {
	if p == nil {
		return ""
	}
	return unsafe.String((*byte)(unsafe.Pointer(p)), int(C.strlen(p)))
}

// createCStringArray builds a C argv. Both the array and the strings live in
// C memory so the pointer array never holds Go pointers.
func createCStringArray(strs []string) (unsafe.Pointer, []*C.char) {
	if len(strs) == 0 {
		return nil, nil
	}
	cArray := C.malloc(C.size_t(len(strs)) * C.size_t(unsafe.Sizeof(uintptr(0))))
	cSlice := unsafe.Slice((**C.char)(cArray), len(strs))
	cStrs := make([]*C.char, len(strs))
	for i, s := range strs {
		cStrs[i] = C.CString(s)
		cSlice[i] = cStrs[i]
	}
	return cArray, cStrs
}

func freeCStringArray(cArray unsafe.Pointer, cStrs []*C.char) {
	if cArray != nil {
		C.free(cArray)
	}
	for _, cStr := range cStrs {
		if cStr != nil {
			C.free(unsafe.Pointer(cStr))
		}
	}
}

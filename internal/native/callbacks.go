//go:build cgo && verilator

package native

// #include "shim.h"
import "C"

import "unsafe"

// Entry points called by the C trampolines. They may run on any thread,
// including during the runtime's own teardown.

//export vlgoDispatch
func vlgoDispatch(datap unsafe.Pointer) {
	if box := dispatcher.Load(); box != nil {
		box.d.Dispatch(uintptr(datap))
	}
}

//export vlgoLegacyFlush
func vlgoLegacyFlush() {
	if box := dispatcher.Load(); box != nil {
		box.d.DispatchLegacyFlush()
	}
}

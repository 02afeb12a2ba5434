// Package native contains all cgo bindings to the Verilator runtime.
//
// # Design Principles
//
//  1. Isolation: ALL cgo code lives in this package. No other package may
//     import "C"; internal/internalcheck enforces this.
//
//  2. Minimal Surface: shim.cpp re-exports the Verilated:: static control API
//     and VerilatedVcdC as plain C functions. Nothing else is wrapped.
//
//  3. Callbacks: the runtime stores a plain function pointer plus one opaque
//     word. Every registration uses the same C adapter (vlgo_trampoline) and a
//     registry id as the word; the adapter forwards the id to the installed
//     backend.Dispatcher. No Go pointer is ever stored on the C side.
//
//  4. Memory: strings passed in are copied to C memory for the duration of one
//     call. Strings returned by the runtime are either immortal (product
//     identity, viewed without copying) or copied before return.
//
// # Building
//
// The real bindings need cgo, the `verilator` build tag and a pkg-config entry
// for Verilator. The runtime itself (verilated.cpp and friends) is compiled
// with the user's model, so the final link needs the model library, for
// example:
//
//	CGO_LDFLAGS="-L obj_dir -lVtop" go build -tags verilator ./...
//
// Without the tag this package only reports ErrNotBuilt.
//
// # Threading
//
// Verilator's static state is process-wide and is not serialized here.
// A fatal error inside the runtime ends the process without returning.
package native

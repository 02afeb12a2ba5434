// Package verilated exposes the process-wide control surface of the Verilator
// runtime: random-reset policy, the $finish flag, trace enablement, command
// arguments and plusargs, flush and exit callbacks, product identity and
// debug dumps.
//
// Every function forwards to the runtime with no caching; all state lives
// there and is shared by the whole process. Nothing here starts goroutines or
// serializes access to the runtime.
//
// # Runtimes
//
// Built with cgo and the `verilator` tag, the package binds the linked
// runtime. Otherwise it binds a detached runtime that keeps the same control
// state in process but simulates nothing; OpenShared can replace it with a
// runtime loaded from a shared object. BackendName and Capabilities report
// what is bound.
//
// # Safety
//
// Text passed in must not contain NUL bytes (*EncodingError); text read back
// must be valid UTF-8 (*DecodingError). Callbacks are plain Go values: the
// runtime only ever holds an integer per registration, and the registration
// keeps its user data reachable until it is unregistered. A fatal error
// inside the runtime, such as a failed assertion with fatal severity, ends the
// process without returning to the caller.
package verilated

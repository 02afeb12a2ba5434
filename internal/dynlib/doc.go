// Package dynlib binds the vlgo_* shim exported by a shared library at run
// time through purego, so a Go binary built without cgo can still drive a
// Verilator runtime. The shared library is the same shim.cpp that
// internal/native compiles, linked together with the verilated model:
//
//	g++ -shared -fPIC -std=c++17 $(pkg-config --cflags verilator) \
//	    internal/native/shim.cpp obj_dir/*.o -o libvtop.so
//
// Callbacks reach Go through two purego callbacks created once per process.
package dynlib

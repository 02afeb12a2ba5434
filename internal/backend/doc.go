// Package backend describes the raw control surface of a Verilator runtime
// and hosts Detached, an in-process runtime used whenever no native runtime is
// linked into the binary. The real implementations live in internal/native
// (cgo) and internal/dynlib (purego) so that the rest of the repository can
// compile without either.
package backend

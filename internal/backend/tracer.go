package backend

import "unsafe"

// Tracer is a VerilatedVcdC instance owned by a runtime.
type Tracer interface {
	IsOpen() bool
	Open(filename string)
	OpenNext(incFilename bool)
	RolloverMB(mb uint64)
	Close()
	Flush()
	Dump(timeui uint64)
	SetTimeUnit(unit string)
	SetTimeResolution(unit string)
	// Pointer returns the underlying VerilatedVcdC*, for handing to a
	// model's trace() method from caller cgo code.
	Pointer() unsafe.Pointer
	// Free deletes the C++ object. The Tracer must not be used afterwards.
	Free()
}

//go:build cgo && verilator

package native

/*
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"unsafe"

	"github.com/vlgo/verilated-go/internal/backend"
)

type vcd struct {
	p unsafe.Pointer
}

func (Runtime) NewTracer() (backend.Tracer, error) {
	p := C.vlgo_vcd_new()
	if p == nil {
		return nil, backend.ErrNotBuilt
	}
	return &vcd{p: p}, nil
}

func (v *vcd) IsOpen() bool { return C.vlgo_vcd_is_open(v.p) != 0 }

func (v *vcd) Open(filename string) {
	cName := C.CString(filename)
	defer C.free(unsafe.Pointer(cName))
	C.vlgo_vcd_open(v.p, cName)
}

func (v *vcd) OpenNext(incFilename bool) { C.vlgo_vcd_open_next(v.p, cBool(incFilename)) }
func (v *vcd) RolloverMB(mb uint64)      { C.vlgo_vcd_rollover_mb(v.p, C.uint64_t(mb)) }
func (v *vcd) Close()                    { C.vlgo_vcd_close(v.p) }
func (v *vcd) Flush()                    { C.vlgo_vcd_flush(v.p) }
func (v *vcd) Dump(timeui uint64)        { C.vlgo_vcd_dump(v.p, C.uint64_t(timeui)) }

func (v *vcd) SetTimeUnit(unit string) {
	cUnit := C.CString(unit)
	defer C.free(unsafe.Pointer(cUnit))
	C.vlgo_vcd_set_time_unit(v.p, cUnit)
}

func (v *vcd) SetTimeResolution(unit string) {
	cUnit := C.CString(unit)
	defer C.free(unsafe.Pointer(cUnit))
	C.vlgo_vcd_set_time_resolution(v.p, cUnit)
}

func (v *vcd) Pointer() unsafe.Pointer { return v.p }

func (v *vcd) Free() {
	if v.p != nil {
		C.vlgo_vcd_delete(v.p)
		v.p = nil
	}
}

//go:build (darwin || linux) && (amd64 || arm64)

package dynlib

import (
	"unsafe"

	"github.com/vlgo/verilated-go/internal/backend"
)

type vcd struct {
	lib *Library
	p   uintptr
}

func (l *Library) NewTracer() (backend.Tracer, error) {
	p := l.sym.vcdNew()
	if p == 0 {
		return nil, backend.ErrNotBuilt
	}
	return &vcd{lib: l, p: p}, nil
}

func (v *vcd) IsOpen() bool                  { return v.lib.sym.vcdIsOpen(v.p) != 0 }
func (v *vcd) Open(filename string)          { v.lib.sym.vcdOpen(v.p, filename) }
func (v *vcd) OpenNext(incFilename bool)     { v.lib.sym.vcdOpenNext(v.p, cBool(incFilename)) }
func (v *vcd) RolloverMB(mb uint64)          { v.lib.sym.vcdRolloverMB(v.p, mb) }
func (v *vcd) Close()                        { v.lib.sym.vcdClose(v.p) }
func (v *vcd) Flush()                        { v.lib.sym.vcdFlush(v.p) }
func (v *vcd) Dump(timeui uint64)            { v.lib.sym.vcdDump(v.p, timeui) }
func (v *vcd) SetTimeUnit(unit string)       { v.lib.sym.vcdSetTimeUnit(v.p, unit) }
func (v *vcd) SetTimeResolution(unit string) { v.lib.sym.vcdSetTimeResolution(v.p, unit) }

func (v *vcd) Pointer() unsafe.Pointer {
	return unsafe.Pointer(v.p)
}

func (v *vcd) Free() {
	if v.p != 0 {
		v.lib.sym.vcdDelete(v.p)
		v.p = 0
	}
}

package verilated

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/vlgo/verilated-go/internal/backend"
)

// VCD writes a Value Change Dump through the runtime's VerilatedVcdC. The
// model fills it: pass Native() to the model's trace() from cgo code, after
// EnableTraceCapability(true) and before time zero.
//
// A VCD must not be used concurrently. Release frees the C++ object; every
// method is a no-op afterwards.
type VCD struct {
	mu sync.Mutex
	t  backend.Tracer
}

// NewVCD creates a VCD writer. It returns ErrUnsupported when the bound
// runtime has no VerilatedVcdC.
func NewVCD() (*VCD, error) {
	b := rt()
	if !b.Caps().Has(backend.CapVCD) {
		return nil, fmt.Errorf("NewVCD on %s runtime: %w", b.Name(), ErrUnsupported)
	}
	t, err := b.NewTracer()
	if err != nil {
		return nil, err
	}
	return &VCD{t: t}, nil
}

func (v *VCD) tracer() backend.Tracer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.t
}

// Open starts a new dump file, header included.
func (v *VCD) Open(filename string) error {
	if err := checkText(filename); err != nil {
		return err
	}
	if t := v.tracer(); t != nil {
		t.Open(filename)
	}
	return nil
}

// OpenNext continues the dump in a new file. The header is only written to
// the first file, so the pieces can be concatenated.
func (v *VCD) OpenNext(incFilename bool) {
	if t := v.tracer(); t != nil {
		t.OpenNext(incFilename)
	}
}

// SetRolloverMB sets the size after which OpenNext happens automatically.
// Verilator 5 ignores it.
func (v *VCD) SetRolloverMB(mb uint64) {
	if t := v.tracer(); t != nil {
		t.RolloverMB(mb)
	}
}

func (v *VCD) IsOpen() bool {
	if t := v.tracer(); t != nil {
		return t.IsOpen()
	}
	return false
}

// Dump writes one cycle of values at time t.
func (v *VCD) Dump(timeui uint64) {
	if t := v.tracer(); t != nil {
		t.Dump(timeui)
	}
}

func (v *VCD) Flush() {
	if t := v.tracer(); t != nil {
		t.Flush()
	}
}

// Close closes the dump file; the writer can be opened again.
func (v *VCD) Close() {
	if t := v.tracer(); t != nil {
		t.Close()
	}
}

// SetTimeUnit sets the time unit ("1ns", "ps", ...).
func (v *VCD) SetTimeUnit(unit string) error {
	if err := checkText(unit); err != nil {
		return err
	}
	if t := v.tracer(); t != nil {
		t.SetTimeUnit(unit)
	}
	return nil
}

// SetTimeResolution sets the time resolution.
func (v *VCD) SetTimeResolution(unit string) error {
	if err := checkText(unit); err != nil {
		return err
	}
	if t := v.tracer(); t != nil {
		t.SetTimeResolution(unit)
	}
	return nil
}

// Native returns the VerilatedVcdC*, or nil after Release.
func (v *VCD) Native() unsafe.Pointer {
	if t := v.tracer(); t != nil {
		return t.Pointer()
	}
	return nil
}

// Release deletes the underlying object. It is safe to call more than once.
func (v *VCD) Release() {
	v.mu.Lock()
	t := v.t
	v.t = nil
	v.mu.Unlock()
	if t != nil {
		t.Free()
	}
}

package verilated

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vlgo/verilated-go/internal/backend"
)

var (
	// ErrNotBuilt reports that no native runtime is linked into the binary.
	ErrNotBuilt = backend.ErrNotBuilt

	// ErrUnsupported reports that the bound runtime cannot represent the
	// request, for example exit callbacks on a Verilator older than 4.038.
	ErrUnsupported = errors.New("verilated: not supported by this runtime")

	// ErrNoCommandArgs reports a plusarg lookup before any arguments were
	// handed to the runtime. Verilator treats that as a fatal error.
	ErrNoCommandArgs = errors.New("verilated: plusarg lookup before SetCommandArguments")

	// ErrLibraryClosed is returned when a Library is closed twice.
	ErrLibraryClosed = errors.New("verilated: library already closed")
)

// EncodingError reports text that cannot be passed to the runtime as a
// NUL-terminated string.
type EncodingError struct {
	// Index is the position of the offending argument, or -1 for a single
	// value.
	Index int
	// Offset is the byte offset of the first NUL.
	Offset int
}

func (e *EncodingError) Error() string {
	if e.Index < 0 {
		return "verilated: text contains NUL byte at offset " + strconv.Itoa(e.Offset)
	}
	return fmt.Sprintf("verilated: argument %d contains NUL byte at offset %d", e.Index, e.Offset)
}

// DecodingError reports runtime-owned text that is not valid UTF-8.
type DecodingError struct {
	// What names the value, e.g. "product name".
	What string
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("verilated: %s is not valid UTF-8 (offset %d)", e.What, e.Offset)
}

// MisuseError reports a call the binding refuses because honoring it would
// corrupt runtime state.
type MisuseError struct {
	Op     string
	Reason string
}

func (e *MisuseError) Error() string {
	return "verilated: " + e.Op + ": " + e.Reason
}

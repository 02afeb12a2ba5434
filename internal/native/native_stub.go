//go:build !cgo || !verilator

package native

import "github.com/vlgo/verilated-go/internal/backend"

// Linked reports whether this binary carries the cgo bindings.
const Linked = false

// Open reports ErrNotBuilt: this build has no cgo bindings.
func Open() (backend.Backend, error) {
	return nil, backend.ErrNotBuilt
}

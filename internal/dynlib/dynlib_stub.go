//go:build !((darwin || linux) && (amd64 || arm64))

package dynlib

import (
	"github.com/pkg/errors"

	"github.com/vlgo/verilated-go/internal/backend"
)

// Supported reports whether shared runtimes can be loaded on this platform.
const Supported = false

// Library is never produced on this platform.
type Library struct {
	backend.Backend
}

// Open always fails on this platform.
func Open(path string) (*Library, error) {
	return nil, errors.Wrapf(backend.ErrNotBuilt, "load %s: shared runtimes unsupported on this platform", path)
}

func (l *Library) Close() error { return nil }

func (l *Library) Path() string { return "" }

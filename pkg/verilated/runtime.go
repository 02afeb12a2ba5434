package verilated

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/vlgo/verilated-go/internal/backend"
	"github.com/vlgo/verilated-go/internal/dynlib"
	"github.com/vlgo/verilated-go/internal/native"
	"github.com/vlgo/verilated-go/pkg/verilated/logging"
)

type binding struct {
	b backend.Backend
	// argsLoaded records whether this runtime has been given command
	// arguments; Verilator aborts on a plusarg lookup before that.
	argsLoaded atomic.Bool
}

type loggerBox struct {
	l logging.Logger
}

var (
	bound  atomic.Pointer[binding]
	logger atomic.Pointer[loggerBox]
)

func init() {
	logger.Store(&loggerBox{l: logging.Nop()})
	b, err := native.Open()
	if err != nil {
		b = backend.NewDetached()
	}
	bind(b)
}

func bind(b backend.Backend) {
	rebind(&binding{b: b})
}

func rebind(cur *binding) {
	cur.b.Install(registry)
	bound.Store(cur)
}

func rt() backend.Backend {
	return bound.Load().b
}

func log() logging.Logger {
	return logger.Load().l
}

// SetLogger sets the logger used by the binding. nil restores the default,
// which discards everything.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	logger.Store(&loggerBox{l: l})
}

// Capability is a feature a runtime may or may not provide.
type Capability = backend.Caps

const (
	CapFlushCallbacks = backend.CapFlushCallbacks
	CapExitCallbacks  = backend.CapExitCallbacks
	CapLegacyFlush    = backend.CapLegacyFlush
	CapVCD            = backend.CapVCD
)

// Linked reports whether the binary was built with the cgo bindings.
func Linked() bool { return native.Linked }

// BackendName names the runtime currently bound: "cgo", "dynlib" or
// "detached". A detached runtime keeps the control state in process but
// simulates nothing.
func BackendName() string { return rt().Name() }

// Capabilities reports what the bound runtime supports.
func Capabilities() Capability { return rt().Caps() }

// Library is a Verilator runtime loaded from a shared object with
// OpenShared.
type Library struct {
	lib    *dynlib.Library
	prev   *binding
	closed bool
}

// OpenShared loads a shared build of the shim (see internal/dynlib) and binds
// it in place of the current runtime. It needs no cgo. Every callback must be
// unregistered first: the words held by the old runtime would be lost.
func OpenShared(path string) (*Library, error) {
	if err := checkText(path); err != nil {
		return nil, err
	}

	registry.opMu.Lock()
	defer registry.opMu.Unlock()

	if n := registry.live(); n > 0 {
		return nil, &MisuseError{Op: "OpenShared", Reason: fmt.Sprintf("%d callbacks still registered", n)}
	}
	lib, err := dynlib.Open(path)
	if err != nil {
		return nil, err
	}
	prev := bound.Load()
	bind(lib)
	log().Info(context.Background(), "runtime bound",
		"backend", lib.Name(), "path", path, "caps", uint32(lib.Caps()))
	return &Library{lib: lib, prev: prev}, nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.lib.Path() }

// Close rebinds the runtime that was active before OpenShared and unloads the
// library. Libraries opened on top of each other must be closed in reverse
// order; closing one that is not bound returns *MisuseError and leaves it
// loaded. It returns ErrLibraryClosed when called twice.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}

	registry.opMu.Lock()
	defer registry.opMu.Unlock()

	if l.closed {
		return ErrLibraryClosed
	}
	if cur := bound.Load(); cur == nil || cur.b != backend.Backend(l.lib) {
		return &MisuseError{Op: "Library.Close", Reason: "library is not the bound runtime; close libraries in reverse order of OpenShared"}
	}
	if n := registry.live(); n > 0 {
		return &MisuseError{Op: "Library.Close", Reason: fmt.Sprintf("%d callbacks still registered", n)}
	}
	rebind(l.prev)
	l.closed = true
	log().Info(context.Background(), "runtime unbound", "path", l.lib.Path(), "backend", rt().Name())
	return l.lib.Close()
}

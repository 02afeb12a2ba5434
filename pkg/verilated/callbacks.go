package verilated

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vlgo/verilated-go/internal/backend"
)

// Handler is caller logic run by the runtime through a flush or exit
// callback. The handler value and its user data together identify a
// registration, so both must be comparable; pointer types are the usual
// choice.
//
// HandleCallback may run on a thread the caller does not control, during the
// runtime's own teardown, concurrently with any other binding call. A panic
// is recovered and logged: it cannot unwind through the runtime's C frames.
type Handler interface {
	HandleCallback(userData any)
}

type funcHandler struct {
	fn func(userData any)
}

func (h *funcHandler) HandleCallback(userData any) { h.fn(userData) }

// NewHandler wraps fn in a Handler with pointer identity. Keep the returned
// value to unregister later; wrapping the same fn twice yields two distinct
// handlers. A nil fn yields a nil Handler.
func NewHandler(fn func(userData any)) Handler {
	if fn == nil {
		return nil
	}
	return &funcHandler{fn: fn}
}

// handle is the opaque word the runtime stores next to the trampoline.
type handle uintptr

type registration struct {
	kind     backend.Kind
	handler  Handler
	userData any
	legacy   func()
}

type regKey struct {
	kind     backend.Kind
	handler  Handler
	userData any
}

// callbackRegistry maps the words stored by the runtime back to Go
// registrations. The runtime only ever holds integers, so user data stays
// reachable here for exactly as long as it is registered.
type callbackRegistry struct {
	// opMu serializes everything that changes what the runtime holds.
	opMu sync.Mutex

	mu    sync.Mutex
	next  handle
	reg   map[handle]*registration
	byKey map[regKey]handle

	legacyHandle handle
	legacySlot   atomic.Pointer[registration]
}

func newRegistry() *callbackRegistry {
	return &callbackRegistry{
		next:  1,
		reg:   map[handle]*registration{},
		byKey: map[regKey]handle{},
	}
}

var registry = newRegistry()

func (r *callbackRegistry) put(key *regKey, v *registration) handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.next
	r.next++
	r.reg[h] = v
	if key != nil {
		r.byKey[*key] = h
	}
	return h
}

func (r *callbackRegistry) get(h handle) (*registration, bool) {
	r.mu.Lock()
	v, ok := r.reg[h]
	r.mu.Unlock()
	return v, ok
}

func (r *callbackRegistry) lookup(key regKey) (handle, bool) {
	r.mu.Lock()
	h, ok := r.byKey[key]
	r.mu.Unlock()
	return h, ok
}

func (r *callbackRegistry) del(h handle) {
	r.mu.Lock()
	if v, ok := r.reg[h]; ok && v.handler != nil {
		delete(r.byKey, regKey{kind: v.kind, handler: v.handler, userData: v.userData})
	}
	delete(r.reg, h)
	r.mu.Unlock()
}

// live counts registrations the runtime may still call.
func (r *callbackRegistry) live() int {
	r.mu.Lock()
	n := len(r.reg)
	r.mu.Unlock()
	if r.legacySlot.Load() != nil {
		n++
	}
	return n
}

// Dispatch is the Go half of the trampoline: it turns the runtime's word back
// into the registration and runs it. Words with no registration are stale
// and ignored.
func (r *callbackRegistry) Dispatch(data uintptr) {
	reg, ok := r.get(handle(data))
	if !ok {
		return
	}
	reg.invoke()
}

func (r *callbackRegistry) DispatchLegacyFlush() {
	if reg := r.legacySlot.Load(); reg != nil {
		reg.invoke()
	}
}

func (reg *registration) invoke() {
	defer func() {
		if p := recover(); p != nil {
			log().Error(context.Background(), "callback panicked",
				"kind", reg.kind.String(), "panic", fmt.Sprint(p))
		}
	}()
	if reg.legacy != nil {
		reg.legacy()
		return
	}
	reg.handler.HandleCallback(reg.userData)
}

// keyable reports whether v can take part in a map key without panicking.
func keyable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}

func (r *callbackRegistry) register(op string, k backend.Kind, h Handler, userData any) error {
	if h == nil {
		return &MisuseError{Op: op, Reason: "nil handler"}
	}
	if !keyable(h) {
		return &MisuseError{Op: op, Reason: fmt.Sprintf("handler of type %T is not comparable", h)}
	}
	if !keyable(userData) {
		return &MisuseError{Op: op, Reason: fmt.Sprintf("user data of type %T is not comparable", userData)}
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	b := rt()
	if !b.Caps().Has(backend.ForKind(k)) {
		return fmt.Errorf("%s on %s runtime: %w", op, b.Name(), ErrUnsupported)
	}

	key := regKey{kind: k, handler: h, userData: userData}
	hd, existed := r.lookup(key)
	if !existed {
		hd = r.put(&key, &registration{kind: k, handler: h, userData: userData})
	}
	// Same pair, same word: the runtime recognizes the repeat and keeps one
	// entry.
	b.AddCallback(k, uintptr(hd))
	log().Debug(context.Background(), "callback registered",
		"kind", k.String(), "handle", uint64(hd), "repeat", existed)
	return nil
}

func (r *callbackRegistry) unregister(k backend.Kind, h Handler, userData any) {
	if h == nil || !keyable(h) || !keyable(userData) {
		return
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	hd, ok := r.lookup(regKey{kind: k, handler: h, userData: userData})
	if !ok {
		log().Debug(context.Background(), "unregister of unknown callback", "kind", k.String())
		return
	}
	// Remove from the runtime first so a concurrent run never sees a word
	// whose registration is already gone.
	rt().RemoveCallback(k, uintptr(hd))
	r.del(hd)
	log().Debug(context.Background(), "callback unregistered", "kind", k.String(), "handle", uint64(hd))
}

func (r *callbackRegistry) setLegacy(fn func()) error {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	b := rt()
	caps := b.Caps()
	switch {
	case caps.Has(backend.CapFlushCallbacks):
		if r.legacyHandle != 0 {
			b.RemoveCallback(backend.Flush, uintptr(r.legacyHandle))
			r.del(r.legacyHandle)
			r.legacyHandle = 0
		}
		if fn != nil {
			r.legacyHandle = r.put(nil, &registration{kind: backend.Flush, legacy: fn})
			b.AddCallback(backend.Flush, uintptr(r.legacyHandle))
		}
		return nil
	case caps.Has(backend.CapLegacyFlush):
		if fn == nil {
			// The runtime's hook stays on the trampoline, which finds the
			// slot empty.
			r.legacySlot.Store(nil)
			return nil
		}
		r.legacySlot.Store(&registration{kind: backend.Flush, legacy: fn})
		b.InstallLegacyFlush()
		return nil
	default:
		if fn == nil {
			return nil
		}
		return fmt.Errorf("SetLegacyFlushCallback on %s runtime: %w", b.Name(), ErrUnsupported)
	}
}

// RegisterFlushCallback asks the runtime to call h.HandleCallback(userData)
// whenever it flushes buffered output. Registering the same pair again keeps
// a single registration.
//
// Errors: *MisuseError for a nil or non-comparable handler or user data;
// ErrUnsupported when the runtime predates data-carrying flush callbacks (use
// SetLegacyFlushCallback there).
func RegisterFlushCallback(h Handler, userData any) error {
	return registry.register("RegisterFlushCallback", backend.Flush, h, userData)
}

// UnregisterFlushCallback removes the pair registered by RegisterFlushCallback.
// A pair that is not registered is ignored.
func UnregisterFlushCallback(h Handler, userData any) {
	registry.unregister(backend.Flush, h, userData)
}

// RunFlushCallbacks runs every registered flush callback now. Ordering is
// whatever the runtime uses.
func RunFlushCallbacks() {
	rt().RunCallbacks(backend.Flush)
}

// RegisterExitCallback asks the runtime to call h.HandleCallback(userData)
// when the simulation terminates ($finish, $stop or a fatal error). Same rules
// as RegisterFlushCallback.
func RegisterExitCallback(h Handler, userData any) error {
	return registry.register("RegisterExitCallback", backend.Exit, h, userData)
}

// UnregisterExitCallback removes the pair registered by RegisterExitCallback.
// A pair that is not registered is ignored.
func UnregisterExitCallback(h Handler, userData any) {
	registry.unregister(backend.Exit, h, userData)
}

// RunExitCallbacks runs every registered exit callback now.
func RunExitCallbacks() {
	rt().RunCallbacks(backend.Exit)
}

// SetLegacyFlushCallback installs fn in the single, data-less flush slot of
// older runtimes; nil clears it. Each call replaces the previous fn. The
// runtime's own hook is never removed once installed: clearing only empties
// the slot it calls into.
//
// On runtimes with data-carrying flush callbacks the slot is emulated: fn is
// registered as one more flush callback and InvokeLegacyFlush runs all of
// them. A runtime with neither interface returns ErrUnsupported rather than
// dropping fn.
func SetLegacyFlushCallback(fn func()) error {
	return registry.setLegacy(fn)
}

// InvokeLegacyFlush calls the runtime's legacy flush entry point, which on
// current runtimes runs every flush callback.
func InvokeLegacyFlush() {
	rt().LegacyFlushCall()
}

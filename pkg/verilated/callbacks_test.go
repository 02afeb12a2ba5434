package verilated

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vlgo/verilated-go/internal/backend"
	"github.com/vlgo/verilated-go/pkg/verilated/logging"
)

type counter struct {
	mu   sync.Mutex
	seen []any
}

func (c *counter) HandleCallback(userData any) {
	c.mu.Lock()
	c.seen = append(c.seen, userData)
	c.mu.Unlock()
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// sliceHandler is not comparable.
type sliceHandler []int

func (sliceHandler) HandleCallback(any) {}

func TestFlushCallbackLifecycle(t *testing.T) {
	d := useDetached(t)
	c := &counter{}
	data := new(int)

	require.NoError(t, RegisterFlushCallback(c, data))
	RunFlushCallbacks()
	RunFlushCallbacks()
	assert.Equal(t, 2, c.count())
	assert.Same(t, data, c.seen[0])

	UnregisterFlushCallback(c, data)
	RunFlushCallbacks()
	assert.Equal(t, 2, c.count())
	assert.Empty(t, d.Registered(backend.Flush))
	assert.Zero(t, registry.live())
}

func TestDuplicateRegistrationRunsOnce(t *testing.T) {
	d := useDetached(t)
	c := &counter{}

	require.NoError(t, RegisterFlushCallback(c, "ctx"))
	require.NoError(t, RegisterFlushCallback(c, "ctx"))
	assert.Len(t, d.Registered(backend.Flush), 1)

	RunFlushCallbacks()
	assert.Equal(t, 1, c.count())

	UnregisterFlushCallback(c, "ctx")
	assert.Empty(t, d.Registered(backend.Flush))
}

func TestSameHandlerDifferentData(t *testing.T) {
	useDetached(t)
	c := &counter{}
	a, b := new(int), new(int)

	require.NoError(t, RegisterFlushCallback(c, a))
	require.NoError(t, RegisterFlushCallback(c, b))
	RunFlushCallbacks()
	assert.Equal(t, 2, c.count())

	UnregisterFlushCallback(c, a)
	RunFlushCallbacks()
	assert.Equal(t, 3, c.count())
	assert.Same(t, b, c.seen[2])
	UnregisterFlushCallback(c, b)
}

func TestUnregisterUnknownIsIgnored(t *testing.T) {
	d := useDetached(t)
	c := &counter{}

	UnregisterFlushCallback(c, nil)
	UnregisterExitCallback(nil, nil)
	UnregisterFlushCallback(sliceHandler{1}, nil)
	assert.Empty(t, d.Registered(backend.Flush))
	assert.Zero(t, c.count())

	require.NoError(t, RegisterFlushCallback(c, 1))
	UnregisterFlushCallback(c, 2)
	UnregisterExitCallback(c, 1)
	assert.Len(t, d.Registered(backend.Flush), 1)
	UnregisterFlushCallback(c, 1)
}

func TestRegisterMisuse(t *testing.T) {
	useDetached(t)

	var misuse *MisuseError
	require.ErrorAs(t, RegisterFlushCallback(nil, nil), &misuse)
	assert.Equal(t, "nil handler", misuse.Reason)
	require.ErrorAs(t, RegisterExitCallback(NewHandler(nil), nil), &misuse)

	require.ErrorAs(t, RegisterFlushCallback(sliceHandler{1}, nil), &misuse)
	assert.Contains(t, misuse.Reason, "not comparable")

	require.ErrorAs(t, RegisterFlushCallback(&counter{}, []byte("x")), &misuse)
	assert.Contains(t, misuse.Reason, "user data")
	assert.Zero(t, registry.live())
}

func TestExitCallbacks(t *testing.T) {
	useDetached(t)
	exit, flush := &counter{}, &counter{}

	require.NoError(t, RegisterExitCallback(exit, nil))
	require.NoError(t, RegisterFlushCallback(flush, nil))
	RunExitCallbacks()
	assert.Equal(t, 1, exit.count())
	assert.Zero(t, flush.count())

	UnregisterExitCallback(exit, nil)
	UnregisterFlushCallback(flush, nil)
}

func TestNewHandlerIdentity(t *testing.T) {
	d := useDetached(t)
	var n atomic.Int32
	fn := func(any) { n.Add(1) }
	h1, h2 := NewHandler(fn), NewHandler(fn)

	require.NoError(t, RegisterFlushCallback(h1, nil))
	require.NoError(t, RegisterFlushCallback(h2, nil))
	RunFlushCallbacks()
	assert.EqualValues(t, 2, n.Load())

	UnregisterFlushCallback(h1, nil)
	UnregisterFlushCallback(h2, nil)
	assert.Empty(t, d.Registered(backend.Flush))
}

func TestHandlerPanicIsContained(t *testing.T) {
	useDetached(t)
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(logging.NewZap(zap.New(core)))
	t.Cleanup(func() { SetLogger(nil) })

	after := &counter{}
	boom := NewHandler(func(any) { panic("boom") })
	require.NoError(t, RegisterFlushCallback(boom, nil))
	require.NoError(t, RegisterFlushCallback(after, nil))

	assert.NotPanics(t, RunFlushCallbacks)
	assert.Equal(t, 1, after.count())

	panics := logs.FilterMessage("callback panicked").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "boom", panics[0].ContextMap()["panic"])

	UnregisterFlushCallback(boom, nil)
	UnregisterFlushCallback(after, nil)
}

func TestStaleHandleIgnored(t *testing.T) {
	useDetached(t)
	assert.NotPanics(t, func() { registry.Dispatch(12345) })
	assert.NotPanics(t, registry.DispatchLegacyFlush)
}

func TestHandlerMayUnregisterItself(t *testing.T) {
	useDetached(t)
	var self Handler
	var n atomic.Int32
	self = NewHandler(func(any) {
		n.Add(1)
		UnregisterFlushCallback(self, nil)
	})
	require.NoError(t, RegisterFlushCallback(self, nil))

	RunFlushCallbacks()
	RunFlushCallbacks()
	assert.EqualValues(t, 1, n.Load())
}

func TestLegacyFlushOnModernRuntime(t *testing.T) {
	d := useDetached(t)
	c := &counter{}
	var legacy atomic.Int32

	require.NoError(t, RegisterFlushCallback(c, nil))
	require.NoError(t, SetLegacyFlushCallback(func() { legacy.Add(1) }))
	assert.Len(t, d.Registered(backend.Flush), 2)

	InvokeLegacyFlush()
	assert.EqualValues(t, 1, legacy.Load())
	assert.Equal(t, 1, c.count())

	var replaced atomic.Int32
	require.NoError(t, SetLegacyFlushCallback(func() { replaced.Add(1) }))
	assert.Len(t, d.Registered(backend.Flush), 2)
	RunFlushCallbacks()
	assert.EqualValues(t, 1, legacy.Load())
	assert.EqualValues(t, 1, replaced.Load())

	require.NoError(t, SetLegacyFlushCallback(nil))
	assert.Len(t, d.Registered(backend.Flush), 1)
	UnregisterFlushCallback(c, nil)
	assert.Zero(t, registry.live())
}

func TestLegacyOnlyRuntime(t *testing.T) {
	useDetached(t, backend.WithCaps(backend.CapLegacyFlush))
	var n atomic.Int32

	err := RegisterFlushCallback(&counter{}, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	require.ErrorIs(t, RegisterExitCallback(&counter{}, nil), ErrUnsupported)

	require.NoError(t, SetLegacyFlushCallback(func() { n.Add(1) }))
	InvokeLegacyFlush()
	RunFlushCallbacks()
	assert.EqualValues(t, 2, n.Load())
	assert.Equal(t, 1, registry.live())

	require.NoError(t, SetLegacyFlushCallback(nil))
	InvokeLegacyFlush()
	assert.EqualValues(t, 2, n.Load())
	assert.Zero(t, registry.live())
}

func TestNoFlushCapability(t *testing.T) {
	useDetached(t, backend.WithCaps(backend.CapExitCallbacks))

	require.ErrorIs(t, RegisterFlushCallback(&counter{}, nil), ErrUnsupported)
	require.ErrorIs(t, SetLegacyFlushCallback(func() {}), ErrUnsupported)
	assert.NoError(t, SetLegacyFlushCallback(nil))
	assert.NoError(t, RegisterExitCallback(&counter{}, nil))
}

func TestConcurrentRegistration(t *testing.T) {
	d := useDetached(t)
	const workers = 16
	handlers := make([]*counter, workers)
	for i := range handlers {
		handlers[i] = &counter{}
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, RegisterFlushCallback(handlers[i], i))
				RunFlushCallbacks()
				UnregisterFlushCallback(handlers[i], i)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, d.Registered(backend.Flush))
	assert.Zero(t, registry.live())
	for _, h := range handlers {
		assert.GreaterOrEqual(t, h.count(), 50)
	}
}

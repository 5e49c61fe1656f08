package light

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"TrafficLight/phase"
	"TrafficLight/ticker"
)

// TickEvent is one OnPhaseTick call.
type TickEvent struct {
	Name      string
	Remaining int
}

// StateEvent is one OnRunStateChange call.
type StateEvent struct {
	From, To RunState
}

// EnterEvent is one OnPhaseEnter call.
type EnterEvent struct {
	Phase   phase.Phase
	Seconds int
}

// recorder captures every notification it receives.
type recorder struct {
	mu     sync.Mutex
	Ticks  []TickEvent
	Enters []EnterEvent
	States []StateEvent
	Lamps  []Lamps
}

func (r *recorder) OnPhaseTick(name string, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ticks = append(r.Ticks, TickEvent{Name: name, Remaining: remaining})
}

func (r *recorder) OnPhaseEnter(p phase.Phase, seconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Enters = append(r.Enters, EnterEvent{Phase: p, Seconds: seconds})
}

func (r *recorder) OnRunStateChange(from, to RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, StateEvent{From: from, To: to})
}

func (r *recorder) OnLampsChange(l Lamps) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lamps = append(r.Lamps, l)
}

func (r *recorder) lastTick() TickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Ticks) == 0 {
		return TickEvent{}
	}
	return r.Ticks[len(r.Ticks)-1]
}

// rig is a controller wired to manual tickers.
type rig struct {
	t      *testing.T
	c      *Controller
	clock  *ticker.MockTicker
	green  *ticker.MockTicker
	yellow *ticker.MockTicker
	rec    *recorder
}

func newRig(t *testing.T, opts ...Option) *rig {
	t.Helper()
	r := &rig{
		t:      t,
		clock:  ticker.NewMockTicker(),
		green:  ticker.NewMockTicker(),
		yellow: ticker.NewMockTicker(),
		rec:    &recorder{},
	}
	opts = append([]Option{
		WithLogger(zap.NewNop()),
		WithTickers(r.clock, r.green, r.yellow),
		WithObserver(r.rec),
	}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	r.c = c
	return r
}

// seconds fires the phase clock n times, handling each tick.
func (r *rig) seconds(n int) {
	r.t.Helper()
	for i := 0; i < n; i++ {
		require.True(r.t, r.clock.Fire(), "clock must be running to tick")
		require.Equal(r.t, 1, r.c.Poll())
	}
}

// blink fires one blink channel once and handles it.
func (r *rig) blink(tk *ticker.MockTicker) {
	r.t.Helper()
	require.True(r.t, tk.Fire(), "blink ticker must be running")
	require.Equal(r.t, 1, r.c.Poll())
}

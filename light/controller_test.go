package light

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrafficLight/phase"
	"TrafficLight/ticker"
)

func TestController_InitialState(t *testing.T) {
	r := newRig(t)
	s := r.c.Snapshot()

	assert.Equal(t, Stopped, s.State)
	assert.Equal(t, phase.Red, s.Phase)
	assert.Equal(t, "Red", s.Name)
	assert.Equal(t, 5, s.Remaining)
	assert.Equal(t, Lamps{Red: true}, s.Lamps)
	assert.False(t, r.clock.Running(), "clock waits for Start")
}

func TestController_RejectsInvalidDurations(t *testing.T) {
	_, err := New(WithDurations(phase.Durations{5, 2, 2, -1, 3, 2}), WithTickers(ticker.NewMockTicker(), ticker.NewMockTicker(), ticker.NewMockTicker()))
	assert.True(t, errors.Is(err, phase.ErrInvalidDuration))
}

// TestController_FullCycle follows the stock 19 second cycle.
func TestController_FullCycle(t *testing.T) {
	r := newRig(t)
	r.c.Start()

	checks := []struct {
		after     int
		phase     phase.Phase
		remaining int
	}{
		{5, phase.RedYellow, 2},
		{2, phase.YellowPreGreen, 2},
		{2, phase.Green, 5},
		{5, phase.FlashingGreen, 3},
		{3, phase.YellowPostGreen, 2},
		{2, phase.Red, 5},
	}
	elapsed := 0
	for _, chk := range checks {
		r.seconds(chk.after)
		elapsed += chk.after
		s := r.c.Snapshot()
		assert.Equal(t, chk.phase, s.Phase, "phase at t=%d", elapsed)
		assert.Equal(t, chk.remaining, s.Remaining, "remaining at t=%d", elapsed)
		assert.Equal(t, chk.phase == phase.FlashingGreen, s.GreenBlinking, "green blink at t=%d", elapsed)
	}
	assert.Equal(t, 19, elapsed)
}

func TestController_ObserverSeesEveryTick(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(7)

	want := []TickEvent{
		{"Red", 4}, {"Red", 3}, {"Red", 2}, {"Red", 1},
		{"RedYellow", 2},
		{"RedYellow", 1},
		{"Yellow", 2},
	}
	assert.Equal(t, want, r.rec.Ticks)
	assert.Equal(t, []EnterEvent{{phase.RedYellow, 2}, {phase.YellowPreGreen, 2}}, r.rec.Enters)
}

func TestController_StartIsIdempotent(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.c.Start()

	assert.Equal(t, Running, r.c.State())
	assert.Equal(t, 1, r.clock.Starts())
	assert.Equal(t, []StateEvent{{Stopped, Running}}, r.rec.States)
}

func TestController_StopBeforeStartIsNoop(t *testing.T) {
	r := newRig(t)
	before := r.c.Snapshot()

	r.c.Stop()

	assert.Equal(t, before, r.c.Snapshot())
	assert.False(t, r.yellow.Running())
	assert.Empty(t, r.rec.States)
}

func TestController_StopPauses(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(2)

	r.c.Stop()
	s := r.c.Snapshot()

	assert.Equal(t, Paused, s.State)
	assert.Equal(t, Lamps{}, s.Lamps, "static lamps go dark")
	assert.True(t, s.YellowBlinking)
	assert.False(t, s.GreenBlinking)
	assert.False(t, r.clock.Running(), "countdown frozen")
	assert.Equal(t, 3, s.Remaining)

	r.blink(r.yellow)
	assert.Equal(t, Lamps{Yellow: true}, r.c.Snapshot().Lamps)
	r.blink(r.yellow)
	assert.Equal(t, Lamps{}, r.c.Snapshot().Lamps)
}

func TestController_StopTwiceIsIdempotent(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.c.Stop()
	r.blink(r.yellow)
	before := r.c.Snapshot()

	r.c.Stop()

	assert.Equal(t, before, r.c.Snapshot())
	assert.Equal(t, 1, r.yellow.Starts())
}

func TestController_PausedBlinksYellowInEveryPhase(t *testing.T) {
	for _, p := range phase.All() {
		r := newRig(t)
		r.c.Start()
		r.seconds(secondsUntil(p))
		require.Equal(t, p, r.c.Snapshot().Phase)

		r.c.Stop()
		s := r.c.Snapshot()
		assert.True(t, s.YellowBlinking, "yellow blink while paused in %v", p)
		assert.False(t, s.GreenBlinking, "no green blink while paused in %v", p)
		assert.False(t, r.green.Running())
	}
}

func TestController_StopResumeRoundTrip(t *testing.T) {
	for _, p := range phase.All() {
		r := newRig(t)
		r.c.Start()
		r.seconds(secondsUntil(p) + 1)
		before := r.c.Snapshot()
		require.Equal(t, p, before.Phase)

		r.c.Stop()
		r.c.Resume()
		after := r.c.Snapshot()

		assert.Equal(t, Running, after.State)
		assert.Equal(t, before.Phase, after.Phase)
		assert.Equal(t, before.Remaining, after.Remaining)
		assert.Equal(t, before.Lamps, after.Lamps, "lamps restored in %v", p)
		assert.Equal(t, before.GreenBlinking, after.GreenBlinking)
		assert.False(t, after.YellowBlinking)
		assert.True(t, r.clock.Running())
	}
}

func TestController_ResumeFlashingGreenRestartsBlink(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(secondsUntil(phase.FlashingGreen))
	r.blink(r.green)
	require.True(t, r.c.Snapshot().Lamps.Green)

	r.c.Stop()
	r.c.Resume()

	s := r.c.Snapshot()
	assert.True(t, s.GreenBlinking)
	assert.False(t, s.Lamps.Green, "blink restarts from off")
	assert.Equal(t, 2, r.green.Starts())

	r.blink(r.green)
	assert.True(t, r.c.Snapshot().Lamps.Green)
}

func TestController_ResumeWhenNotPausedIsNoop(t *testing.T) {
	r := newRig(t)
	r.c.Resume()
	assert.Equal(t, Stopped, r.c.State())

	r.c.Start()
	r.seconds(1)
	before := r.c.Snapshot()
	r.c.Resume()
	assert.Equal(t, before, r.c.Snapshot())
	assert.Equal(t, 1, r.clock.Starts())
}

func TestController_StartWhilePausedIsNoop(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.c.Stop()
	r.c.Start()

	assert.Equal(t, Paused, r.c.State())
	assert.True(t, r.yellow.Running())
	assert.False(t, r.clock.Running())
}

func TestController_PausePreservesRemaining(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(3)
	r.c.Stop()

	assert.False(t, r.clock.Fire(), "no clock ticks while paused")

	r.c.Resume()
	r.seconds(1)
	s := r.c.Snapshot()
	assert.Equal(t, phase.Red, s.Phase)
	assert.Equal(t, 1, s.Remaining)
	r.seconds(1)
	assert.Equal(t, phase.RedYellow, r.c.Snapshot().Phase)
}

func TestController_ConfigureInactivePhase(t *testing.T) {
	r := newRig(t)
	r.c.Start()

	require.NoError(t, r.c.Configure(phase.Green, 8))
	r.seconds(secondsUntil(phase.Green))

	s := r.c.Snapshot()
	assert.Equal(t, phase.Green, s.Phase)
	assert.Equal(t, 8, s.Remaining)
}

func TestController_ConfigureActivePhase(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(secondsUntil(phase.Green) + 1)
	require.Equal(t, phase.Green, r.c.Snapshot().Phase)

	require.NoError(t, r.c.Configure(phase.Green, 8))
	assert.Equal(t, 4, r.c.Snapshot().Remaining, "running countdown untouched")
	r.seconds(4)
	assert.Equal(t, phase.FlashingGreen, r.c.Snapshot().Phase)

	// Next lap uses the new duration
	r.seconds(3 + 2 + 5 + 2 + 2)
	s := r.c.Snapshot()
	assert.Equal(t, phase.Green, s.Phase)
	assert.Equal(t, 8, s.Remaining)
	assert.Equal(t, 8, s.Durations[phase.Green])
}

func TestController_ConfigureValidation(t *testing.T) {
	r := newRig(t)

	err := r.c.Configure(phase.Phase(6), 3)
	assert.True(t, errors.Is(err, phase.ErrInvalidPhase))

	err = r.c.Configure(phase.Red, 0)
	assert.True(t, errors.Is(err, phase.ErrInvalidDuration))

	assert.Equal(t, phase.DefaultDurations, r.c.Snapshot().Durations)
}

func TestController_StaleTicksIgnored(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.c.onClockTick(ticker.Tick{Epoch: 42})
	assert.Equal(t, 5, r.c.Snapshot().Remaining)

	r.c.Stop()
	r.c.onClockTick(ticker.Tick{Epoch: 1})
	assert.Equal(t, 5, r.c.Snapshot().Remaining, "paused clock ignores late ticks")

	r.c.Resume()
	r.c.onClockTick(ticker.Tick{Epoch: 1})
	assert.Equal(t, 5, r.c.Snapshot().Remaining, "tick from the run before the pause is dropped")

	r.c.onBlinkTick(r.c.blink.Yellow, ticker.Tick{Epoch: 1})
	assert.Equal(t, Lamps{Red: true}, r.c.Snapshot().Lamps, "halted yellow channel stays dark")
}

func TestController_LampNotifications(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(5)

	require.NotEmpty(t, r.rec.Lamps)
	assert.Equal(t, Lamps{Red: true, Yellow: true}, r.rec.Lamps[len(r.rec.Lamps)-1])

	r.c.Stop()
	assert.Equal(t, Lamps{}, r.rec.Lamps[len(r.rec.Lamps)-1])
}

func TestController_Reset(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(secondsUntil(phase.FlashingGreen))
	r.c.Stop()

	r.c.Reset()
	s := r.c.Snapshot()

	assert.Equal(t, Stopped, s.State)
	assert.Equal(t, phase.Red, s.Phase)
	assert.Equal(t, 5, s.Remaining)
	assert.Equal(t, Lamps{Red: true}, s.Lamps)
	assert.False(t, s.GreenBlinking)
	assert.False(t, s.YellowBlinking)
	assert.False(t, r.clock.Running())

	r.c.Start()
	assert.Equal(t, Running, r.c.State())
}

func TestController_Unsubscribe(t *testing.T) {
	r := newRig(t)
	other := &recorder{}
	id := r.c.Subscribe(other)

	r.c.Start()
	r.seconds(1)
	require.Len(t, other.Ticks, 1)

	assert.True(t, r.c.Unsubscribe(id))
	assert.False(t, r.c.Unsubscribe(id))
	r.seconds(1)
	assert.Len(t, other.Ticks, 1)
	assert.Len(t, r.rec.Ticks, 2)
}

func TestController_ObserverFunc(t *testing.T) {
	r := newRig(t)
	var got []string
	r.c.Subscribe(ObserverFunc(func(name string, remaining int) {
		got = append(got, name)
	}))

	r.c.Start()
	r.seconds(5)
	assert.Equal(t, []string{"Red", "Red", "Red", "Red", "RedYellow"}, got)
}

func TestController_ObserverMayCallBack(t *testing.T) {
	r := newRig(t)
	var snaps int32
	r.c.Subscribe(ObserverFunc(func(string, int) {
		_ = r.c.Snapshot()
		atomic.AddInt32(&snaps, 1)
	}))

	r.c.Start()
	r.seconds(2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&snaps))
}

func TestController_StartAfterCloseRestoresPattern(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(secondsUntil(phase.FlashingGreen))
	r.c.Close()
	require.False(t, r.c.Snapshot().GreenBlinking)

	r.c.Start()
	s := r.c.Snapshot()
	assert.Equal(t, phase.FlashingGreen, s.Phase)
	assert.True(t, s.GreenBlinking, "flashing green blinks again after restart")
	r.blink(r.green)
	assert.True(t, r.c.Snapshot().Lamps.Green)
}

func TestController_StartAfterClosingPaused(t *testing.T) {
	r := newRig(t)
	r.c.Start()
	r.seconds(1)
	r.c.Stop()
	r.c.Close()
	assert.Equal(t, Lamps{}, r.c.Snapshot().Lamps)

	r.c.Start()
	s := r.c.Snapshot()
	assert.Equal(t, Running, s.State)
	assert.Equal(t, Lamps{Red: true}, s.Lamps)
	assert.Equal(t, 4, s.Remaining)
	assert.False(t, s.YellowBlinking)
}

// orderRecorder records ticks and run state changes in arrival order. The
// first tick calls block before it is recorded.
type orderRecorder struct {
	BaseObserver
	mu     sync.Mutex
	events []string
	block  func()
}

func (o *orderRecorder) OnPhaseTick(string, int) {
	if o.block != nil {
		o.block()
	}
	o.add("tick")
}

func (o *orderRecorder) OnRunStateChange(_, to RunState) {
	o.add("state:" + to.String())
}

func (o *orderRecorder) add(e string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *orderRecorder) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}

func TestController_NotificationsKeepMutationOrder(t *testing.T) {
	r := newRig(t)
	r.c.Start()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	obs := &orderRecorder{block: func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}}
	r.c.Subscribe(obs)

	require.True(t, r.clock.Fire())
	polled := make(chan int, 1)
	go func() { polled <- r.c.Poll() }()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("tick was not delivered")
	}

	// The tick is still being delivered on the polling goroutine
	r.c.Stop()
	assert.Equal(t, Paused, r.c.State())
	assert.Empty(t, obs.snapshot(), "stop waits behind the tick in delivery")

	close(release)
	assert.Equal(t, 1, <-polled)
	assert.Equal(t, []string{"tick", "state:paused"}, obs.snapshot())
}

func TestController_NestedCallsDeliverInOrder(t *testing.T) {
	r := newRig(t)
	obs := &orderRecorder{}
	var once sync.Once
	r.c.Subscribe(ObserverFunc(func(string, int) {
		once.Do(r.c.Stop)
	}))
	r.c.Subscribe(obs)

	r.c.Start()
	r.seconds(1)

	assert.Equal(t, []string{"state:running", "tick", "state:paused"}, obs.snapshot())
	assert.Equal(t, Paused, r.c.State())
}

// TestController_RunWithRealTickers drives the controller from real
// tickers at an accelerated cadence.
func TestController_RunWithRealTickers(t *testing.T) {
	rec := &recorder{}
	c, err := New(
		WithDurations(phase.Durations{1, 1, 1, 1, 2, 1}),
		WithPeriods(10*time.Millisecond, 5*time.Millisecond),
		WithObserver(rec),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	c.Start()
	require.Eventually(t, func() bool {
		return rec.lastTick().Name == "FlashingGreen"
	}, 2*time.Second, 5*time.Millisecond)

	c.Stop()
	require.Eventually(t, func() bool {
		return c.Snapshot().Lamps.Yellow
	}, 2*time.Second, 2*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, Stopped, c.State())
}

// secondsUntil returns the ticks from a fresh start until p is entered.
func secondsUntil(p phase.Phase) int {
	n := 0
	for q := phase.Red; q != p; q = q.Next() {
		n += phase.DefaultDurations[q]
	}
	return n
}

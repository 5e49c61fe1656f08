// Package ticker provides the periodic tick sources that drive the signal
// clock and the blink channels.
//
// Provides two implementations:
// 1. RealTicker - Production ticker backed by time.Ticker
// 2. MockTicker - Manually fired ticker for testing
//
// Every Start opens a new epoch and every delivery carries the epoch it
// was produced for. A consumer that remembers the epoch returned by Start
// can discard deliveries that raced with a Stop or a restart.
package ticker

import (
	"sync"
	"time"
)

// Tick is one delivery from a Ticker.
type Tick struct {
	Epoch uint64
	At    time.Time
}

// Ticker produces periodic ticks until stopped.
// All implementations must be safe for concurrent use.
type Ticker interface {
	// Start begins ticking every period, restarting if already running,
	// and returns the epoch of the new run.
	Start(period time.Duration) uint64

	// Stop halts ticking and drains any pending delivery.
	Stop()

	// C returns the delivery channel. It has capacity 1; ticks are dropped
	// while the consumer lags.
	C() <-chan Tick

	// Running reports whether the ticker has been started and not stopped.
	Running() bool
}

// RealTicker implements Ticker using time.Ticker from stdlib.
type RealTicker struct {
	mu     sync.Mutex
	ch     chan Tick
	epoch  uint64
	period time.Duration
	stop   chan struct{}
}

// NewRealTicker creates a new stopped RealTicker.
func NewRealTicker() *RealTicker {
	return &RealTicker{
		ch: make(chan Tick, 1),
	}
}

// Start starts ticking every period.
func (t *RealTicker) Start(period time.Duration) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.epoch++
	t.period = period
	t.stop = make(chan struct{})

	go t.forward(time.NewTicker(period), t.stop, t.epoch)
	return t.epoch
}

func (t *RealTicker) forward(tk *time.Ticker, stop <-chan struct{}, epoch uint64) {
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case at := <-tk.C:
			select {
			case t.ch <- Tick{Epoch: epoch, At: at}:
			default:
				// Consumer lagging, drop like time.Ticker does
			}
		}
	}
}

// Stop stops the ticker.
func (t *RealTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *RealTicker) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
	select {
	case <-t.ch:
	default:
	}
}

// C returns the delivery channel.
func (t *RealTicker) C() <-chan Tick {
	return t.ch
}

// Running reports whether the ticker is active.
func (t *RealTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// MockTicker implements Ticker for testing with manual control.
type MockTicker struct {
	mu      sync.Mutex
	ch      chan Tick
	epoch   uint64
	period  time.Duration
	running bool
	starts  int
}

// NewMockTicker creates a new stopped MockTicker.
func NewMockTicker() *MockTicker {
	return &MockTicker{
		ch: make(chan Tick, 1),
	}
}

// Start records the period and opens a new epoch; it never fires on its own.
func (t *MockTicker) Start(period time.Duration) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.drainLocked()
	t.epoch++
	t.period = period
	t.running = true
	t.starts++
	return t.epoch
}

// Stop stops the ticker.
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.drainLocked()
}

func (t *MockTicker) drainLocked() {
	select {
	case <-t.ch:
	default:
	}
}

// C returns the delivery channel.
func (t *MockTicker) C() <-chan Tick {
	return t.ch
}

// Running reports whether the ticker is active.
func (t *MockTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Fire delivers one tick if the ticker is running and the channel is
// empty. It reports whether a tick was delivered.
func (t *MockTicker) Fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return false
	}
	select {
	case t.ch <- Tick{Epoch: t.epoch, At: time.Now()}:
		return true
	default:
		return false
	}
}

// Period returns the period of the last Start.
func (t *MockTicker) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Starts returns how many times Start has been called.
func (t *MockTicker) Starts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.starts
}

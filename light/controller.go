// Package light contains the signal core: the phase clock, the two blink
// channels and the Controller facade that owns them.
//
// Maintenance notes:
//   - Three periodic processes share the lamp panel: the 1 Hz phase clock,
//     the 2 Hz green blink and the 2 Hz yellow blink. All of them are
//     applied by Controller under a single mutex, so a phase change and
//     the matching blink (de)activation happen in one step.
//   - Every ticker delivery carries the epoch of the Start that produced
//     it. Handlers compare it to the epoch their component remembers, so a
//     process that was halted never produces another callback.
//   - Notifications are queued under the mutex in mutation order and
//     delivered after it is released, by one goroutine at a time. A caller
//     that finds a delivery in progress leaves its batch to that goroutine,
//     so batches from the clock loop and the command loop never overtake
//     each other. Observers may call back into the Controller.
package light

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TrafficLight/phase"
	"TrafficLight/ticker"
)

// Default cadences.
const (
	TickPeriod  = time.Second
	BlinkPeriod = 500 * time.Millisecond
)

type options struct {
	durations   phase.Durations
	logger      *zap.Logger
	clock       ticker.Ticker
	green       ticker.Ticker
	yellow      ticker.Ticker
	tickPeriod  time.Duration
	blinkPeriod time.Duration
	observers   []Observer
}

// Option configures a Controller.
type Option func(*options)

// WithDurations seeds the phase table.
func WithDurations(d phase.Durations) Option {
	return func(o *options) { o.durations = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTickers replaces the tick sources of the phase clock and of the
// green and yellow blink channels.
func WithTickers(clock, green, yellow ticker.Ticker) Option {
	return func(o *options) {
		o.clock = clock
		o.green = green
		o.yellow = yellow
	}
}

// WithPeriods overrides the clock and blink cadences.
func WithPeriods(tick, blink time.Duration) Option {
	return func(o *options) {
		o.tickPeriod = tick
		o.blinkPeriod = blink
	}
}

// WithObserver subscribes o before the first notification can happen.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observers = append(opts.observers, o) }
}

type subscription struct {
	id  uuid.UUID
	obs Observer
}

// pending is a batch waiting for delivery with the observers subscribed
// when it was produced.
type pending struct {
	b         *batch
	observers []Observer
}

// Controller is the facade over the phase clock and blink channels. It
// enforces the Stopped/Running/Paused state machine. All methods are safe
// for concurrent use.
type Controller struct {
	mu     sync.Mutex
	logger *zap.Logger

	table *phase.Table
	panel *Panel
	blink *BlinkController
	clock *PhaseClock
	state RunState

	subs []subscription

	outbox     []pending
	delivering bool
}

// New creates a Controller showing the first phase, not yet ticking.
func New(opts ...Option) (*Controller, error) {
	o := options{
		durations:   phase.DefaultDurations,
		tickPeriod:  TickPeriod,
		blinkPeriod: BlinkPeriod,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.clock == nil {
		o.clock = ticker.NewRealTicker()
	}
	if o.green == nil {
		o.green = ticker.NewRealTicker()
	}
	if o.yellow == nil {
		o.yellow = ticker.NewRealTicker()
	}

	table, err := phase.NewTable(o.durations)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		logger: o.logger,
		table:  table,
		panel:  &Panel{},
		state:  Stopped,
	}
	c.blink = newBlinkController(c.panel, o.green, o.yellow, o.blinkPeriod)
	c.clock = newPhaseClock(table, c.panel, c.blink, o.clock, o.tickPeriod)
	c.clock.EnterPhase(phase.Red)

	for _, obs := range o.observers {
		c.Subscribe(obs)
	}
	return c, nil
}

// Subscribe registers o and returns a handle for Unsubscribe.
func (c *Controller) Subscribe(o Observer) uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New()
	c.subs = append(c.subs, subscription{id: id, obs: o})
	return id
}

// Unsubscribe removes a registration. It reports whether id was known.
func (c *Controller) Unsubscribe(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return true
		}
	}
	return false
}

// mutate runs fn under the lock and queues what it produced. The batch is
// delivered before mutate returns unless another goroutine is already
// delivering, in which case that goroutine delivers it in order.
func (c *Controller) mutate(fn func(b *batch)) {
	c.mu.Lock()
	b := &batch{before: c.panel.Lamps()}
	fn(b)
	if after := c.panel.Lamps(); after != b.before {
		b.lamps(after)
	}
	if len(b.notices) > 0 {
		observers := make([]Observer, len(c.subs))
		for i, s := range c.subs {
			observers[i] = s.obs
		}
		c.outbox = append(c.outbox, pending{b: b, observers: observers})
	}
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	c.mu.Unlock()

	c.deliver()
}

// deliver drains the outbox in order. Only one goroutine runs it at a time.
func (c *Controller) deliver() {
	for {
		c.mu.Lock()
		if len(c.outbox) == 0 {
			c.delivering = false
			c.mu.Unlock()
			return
		}
		next := c.outbox[0]
		c.outbox[0] = pending{}
		c.outbox = c.outbox[1:]
		c.mu.Unlock()

		next.b.dispatch(next.observers)
	}
}

// transition is the only place the run state changes.
func (c *Controller) transition(b *batch, to RunState) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.logger.Debug("run state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("phase", c.clock.Phase()),
		zap.Int("remaining", c.clock.Remaining()))
	b.runState(from, to)
}

// Start begins ticking from the current phase, redrawing its pattern. It
// only acts when the signal is stopped; a paused signal must be resumed
// instead.
func (c *Controller) Start() {
	c.mutate(func(b *batch) {
		if c.state != Stopped {
			return
		}
		c.clock.Restore()
		c.clock.Run()
		c.transition(b, Running)
	})
}

// Stop pauses a running signal: the countdown freezes, every lamp goes
// dark and yellow starts flashing. It does nothing otherwise.
func (c *Controller) Stop() {
	c.mutate(func(b *batch) {
		if c.state != Running {
			return
		}
		c.clock.Halt()
		c.panel.Reset()
		c.blink.Green.Deactivate()
		c.blink.Yellow.Activate()
		c.transition(b, Paused)
	})
}

// Resume continues a paused signal with the remaining time and lamps it
// had when it was stopped. It does nothing unless paused.
func (c *Controller) Resume() {
	c.mutate(func(b *batch) {
		if c.state != Paused {
			return
		}
		c.blink.Yellow.Deactivate()
		c.clock.Run()
		c.clock.Restore()
		c.transition(b, Running)
	})
}

// Reset halts everything and returns to the first phase, stopped.
func (c *Controller) Reset() {
	c.mutate(func(b *batch) {
		c.clock.Halt()
		c.blink.Halt()
		c.clock.EnterPhase(phase.Red)
		b.phaseEnter(phase.Red, c.clock.Remaining())
		c.transition(b, Stopped)
	})
}

// Close stops all tick sources and leaves the signal stopped where it is.
// A later Start continues the current phase with its remaining time.
func (c *Controller) Close() {
	c.mutate(func(b *batch) {
		c.clock.Halt()
		c.blink.Halt()
		c.transition(b, Stopped)
	})
}

// Configure sets the duration of p. It takes effect the next time p is
// entered; a countdown in progress keeps its remaining time.
func (c *Controller) Configure(p phase.Phase, seconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.table.SetDuration(p, seconds); err != nil {
		c.logger.Warn("rejected duration", zap.Int("phase", int(p)), zap.Int("seconds", seconds), zap.Error(err))
		return err
	}
	c.logger.Debug("duration configured", zap.Stringer("phase", p), zap.Int("seconds", seconds))
	return nil
}

func (c *Controller) onClockTick(tk ticker.Tick) {
	c.mutate(func(b *batch) {
		if c.state != Running || !c.clock.accepts(tk.Epoch) {
			return
		}
		step := c.clock.Tick()
		if step.Advanced {
			c.logger.Debug("phase entered", zap.Stringer("phase", step.Phase), zap.Int("seconds", step.Remaining))
			b.phaseEnter(step.Phase, step.Remaining)
		}
		b.phaseTick(step.Phase.String(), step.Remaining)
	})
}

func (c *Controller) onBlinkTick(ch *BlinkChannel, tk ticker.Tick) {
	c.mutate(func(b *batch) {
		ch.Toggle(tk.Epoch)
	})
}

// Run drives the controller from its tick sources until ctx is done, then
// closes it.
func (c *Controller) Run(ctx context.Context) error {
	clockC := c.clock.ticker.C()
	greenC := c.blink.Green.ticker.C()
	yellowC := c.blink.Yellow.ticker.C()

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return ctx.Err()
		case tk := <-clockC:
			c.onClockTick(tk)
		case tk := <-greenC:
			c.onBlinkTick(c.blink.Green, tk)
		case tk := <-yellowC:
			c.onBlinkTick(c.blink.Yellow, tk)
		}
	}
}

// Poll handles every tick already delivered without blocking and returns
// how many it handled. It is an alternative to Run for callers that own
// their own loop.
func (c *Controller) Poll() int {
	n := 0
	for {
		select {
		case tk := <-c.clock.ticker.C():
			c.onClockTick(tk)
		case tk := <-c.blink.Green.ticker.C():
			c.onBlinkTick(c.blink.Green, tk)
		case tk := <-c.blink.Yellow.ticker.C():
			c.onBlinkTick(c.blink.Yellow, tk)
		default:
			return n
		}
		n++
	}
}

// Snapshot is a consistent view of the controller for renderers.
type Snapshot struct {
	Phase          phase.Phase
	Name           string
	Remaining      int
	State          RunState
	Lamps          Lamps
	GreenBlinking  bool
	YellowBlinking bool
	Durations      phase.Durations
}

// Snapshot returns the current state taken under the lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Phase:          c.clock.Phase(),
		Name:           c.clock.Phase().String(),
		Remaining:      c.clock.Remaining(),
		State:          c.state,
		Lamps:          c.panel.Lamps(),
		GreenBlinking:  c.blink.Green.Active(),
		YellowBlinking: c.blink.Yellow.Active(),
		Durations:      c.table.Durations(),
	}
}

// State returns the run state.
func (c *Controller) State() RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

package light

import (
	"time"

	"TrafficLight/phase"
	"TrafficLight/ticker"
)

// Step is the clock state after one tick.
type Step struct {
	Phase     phase.Phase
	Remaining int
	Advanced  bool
}

// PhaseClock counts down the current phase once per tick and advances
// through the cycle. Durations are read from the table only when a phase
// is entered, so reconfiguring never touches a running countdown.
type PhaseClock struct {
	table  *phase.Table
	panel  *Panel
	blink  *BlinkController
	ticker ticker.Ticker
	period time.Duration

	current   phase.Phase
	remaining int
	running   bool
	epoch     uint64
}

func newPhaseClock(table *phase.Table, panel *Panel, blink *BlinkController, t ticker.Ticker, period time.Duration) *PhaseClock {
	return &PhaseClock{table: table, panel: panel, blink: blink, ticker: t, period: period}
}

// EnterPhase makes p current with its full configured duration and shows
// its light pattern.
func (c *PhaseClock) EnterPhase(p phase.Phase) {
	c.current = p
	c.remaining = c.table.Duration(p)
	c.Restore()
}

// Restore redraws the current phase's pattern from a dark panel. Green
// blink is stopped first and restarted only for FlashingGreen, so the old
// and new patterns are never shown together.
func (c *PhaseClock) Restore() {
	c.panel.Reset()
	c.blink.Green.Deactivate()

	pat := c.current.Pattern()
	c.panel.Set(SlotRed, pat.Red)
	c.panel.Set(SlotYellow, pat.Yellow)
	c.panel.Set(SlotGreen, pat.Green)
	if pat.BlinkGreen {
		c.blink.Green.Activate()
	}
}

// Tick consumes one second. When the countdown reaches zero the next
// phase is entered in the same step.
func (c *PhaseClock) Tick() Step {
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.EnterPhase(c.current.Next())
		return Step{Phase: c.current, Remaining: c.remaining, Advanced: true}
	}
	return Step{Phase: c.current, Remaining: c.remaining}
}

// Run starts the one-second ticker.
func (c *PhaseClock) Run() {
	if c.running {
		return
	}
	c.epoch = c.ticker.Start(c.period)
	c.running = true
}

// Halt stops the ticker; the countdown is frozen as is.
func (c *PhaseClock) Halt() {
	if !c.running {
		return
	}
	c.ticker.Stop()
	c.running = false
}

func (c *PhaseClock) accepts(epoch uint64) bool {
	return c.running && epoch == c.epoch
}

// Phase returns the current phase.
func (c *PhaseClock) Phase() phase.Phase { return c.current }

// Remaining returns the seconds left in the current phase.
func (c *PhaseClock) Remaining() int { return c.remaining }

// Running reports whether the clock is ticking.
func (c *PhaseClock) Running() bool { return c.running }

package light

import (
	"time"

	"TrafficLight/ticker"
)

// BlinkChannel toggles one lamp on its own ticker while active. The
// cadence is independent of the phase clock.
type BlinkChannel struct {
	slot   Slot
	panel  *Panel
	ticker ticker.Ticker
	period time.Duration

	active bool
	epoch  uint64
}

func newBlinkChannel(slot Slot, panel *Panel, t ticker.Ticker, period time.Duration) *BlinkChannel {
	return &BlinkChannel{slot: slot, panel: panel, ticker: t, period: period}
}

// Activate starts blinking from the off appearance. Calling it on an
// active channel does nothing.
func (b *BlinkChannel) Activate() {
	if b.active {
		return
	}
	b.active = true
	b.panel.Set(b.slot, false)
	b.epoch = b.ticker.Start(b.period)
}

// Deactivate stops the ticker before returning and leaves the lamp off.
func (b *BlinkChannel) Deactivate() {
	if b.active {
		b.ticker.Stop()
		b.active = false
	}
	b.panel.Set(b.slot, false)
}

// Toggle flips the lamp for a delivery of the current activation. Ticks
// from a stopped or earlier activation are ignored.
func (b *BlinkChannel) Toggle(epoch uint64) bool {
	if !b.active || epoch != b.epoch {
		return false
	}
	b.panel.Toggle(b.slot)
	return true
}

// Active reports whether the channel is blinking.
func (b *BlinkChannel) Active() bool {
	return b.active
}

// BlinkController owns the flashing-green and flashing-yellow channels.
// At most one of them runs at a time; PhaseClock and Controller call them
// in an order that guarantees it.
type BlinkController struct {
	Green  *BlinkChannel
	Yellow *BlinkChannel
}

func newBlinkController(panel *Panel, green, yellow ticker.Ticker, period time.Duration) *BlinkController {
	return &BlinkController{
		Green:  newBlinkChannel(SlotGreen, panel, green, period),
		Yellow: newBlinkChannel(SlotYellow, panel, yellow, period),
	}
}

// Halt deactivates both channels.
func (bc *BlinkController) Halt() {
	bc.Green.Deactivate()
	bc.Yellow.Deactivate()
}

// Package phase defines the fixed six-stage signal cycle, the light
// pattern shown in each stage and the table of configured durations.
package phase

import (
	"errors"
	"fmt"
)

// Phase identifies one stage of the signal cycle.
type Phase int

const (
	Red Phase = iota
	RedYellow
	YellowPreGreen
	Green
	FlashingGreen
	YellowPostGreen
)

// Count is the length of the cycle.
const Count = 6

// Duration bounds in seconds.
const (
	MinDuration = 1
	MaxDuration = 3600
)

var (
	ErrInvalidPhase    = errors.New("invalid phase")
	ErrInvalidDuration = errors.New("invalid duration")
)

var names = [Count]string{"Red", "RedYellow", "Yellow", "Green", "FlashingGreen", "Yellow"}

// String returns the display name. Both yellow stages are named "Yellow".
func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return names[p]
}

// Valid reports whether p is one of the six stages.
func (p Phase) Valid() bool {
	return p >= 0 && p < Count
}

// Next returns the stage that follows p, wrapping after the last one.
func (p Phase) Next() Phase {
	return Phase((int(p) + 1) % Count)
}

// Pattern describes which lamps a phase lights. BlinkGreen replaces a
// static green lamp during FlashingGreen.
type Pattern struct {
	Red        bool
	Yellow     bool
	Green      bool
	BlinkGreen bool
}

// Pattern returns the light pattern of p.
func (p Phase) Pattern() Pattern {
	switch p {
	case Red:
		return Pattern{Red: true}
	case RedYellow:
		return Pattern{Red: true, Yellow: true}
	case YellowPreGreen, YellowPostGreen:
		return Pattern{Yellow: true}
	case Green:
		return Pattern{Green: true}
	case FlashingGreen:
		return Pattern{BlinkGreen: true}
	}
	return Pattern{}
}

// All returns the stages in cycle order.
func All() []Phase {
	return []Phase{Red, RedYellow, YellowPreGreen, Green, FlashingGreen, YellowPostGreen}
}

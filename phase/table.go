package phase

import "fmt"

// Durations maps every phase to its length in seconds.
type Durations [Count]int

// DefaultDurations is the stock cycle: 19 seconds in total.
var DefaultDurations = Durations{5, 2, 2, 5, 3, 2}

// Total returns the length of one full cycle in seconds.
func (d Durations) Total() int {
	total := 0
	for _, s := range d {
		total += s
	}
	return total
}

// Validate checks every entry against the duration bounds.
func (d Durations) Validate() error {
	for i, s := range d {
		if err := checkDuration(s); err != nil {
			return fmt.Errorf("%s (index %d): %w", Phase(i), i, err)
		}
	}
	return nil
}

// Table holds the configured durations. It is not safe for concurrent
// use; the owner serializes access.
type Table struct {
	durations Durations
}

// NewTable returns a table seeded with d.
func NewTable(d Durations) (*Table, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Table{durations: d}, nil
}

// Duration returns the configured length of p in seconds.
func (t *Table) Duration(p Phase) int {
	if !p.Valid() {
		return 0
	}
	return t.durations[p]
}

// SetDuration changes the length of p. Out of range phases and durations
// are rejected and leave the table unchanged.
func (t *Table) SetDuration(p Phase, seconds int) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPhase, int(p))
	}
	if err := checkDuration(seconds); err != nil {
		return err
	}
	t.durations[p] = seconds
	return nil
}

// Durations returns a copy of all durations.
func (t *Table) Durations() Durations {
	return t.durations
}

// Clamp forces seconds into [MinDuration, MaxDuration].
func Clamp(seconds int) int {
	if seconds < MinDuration {
		return MinDuration
	}
	if seconds > MaxDuration {
		return MaxDuration
	}
	return seconds
}

func checkDuration(seconds int) error {
	if seconds < MinDuration || seconds > MaxDuration {
		return fmt.Errorf("%w: %d seconds (want %d..%d)", ErrInvalidDuration, seconds, MinDuration, MaxDuration)
	}
	return nil
}

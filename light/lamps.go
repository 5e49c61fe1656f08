package light

// Slot is one of the three indicator positions on the signal head.
type Slot int

const (
	SlotRed Slot = iota
	SlotYellow
	SlotGreen
)

func (s Slot) String() string {
	switch s {
	case SlotRed:
		return "red"
	case SlotYellow:
		return "yellow"
	case SlotGreen:
		return "green"
	}
	return "unknown"
}

// Lamps is the visible state of the signal head. A lamp is either lit in
// its own colour or off.
type Lamps struct {
	Red    bool
	Yellow bool
	Green  bool
}

// Lit reports whether the lamp in slot s is lit.
func (l Lamps) Lit(s Slot) bool {
	switch s {
	case SlotRed:
		return l.Red
	case SlotYellow:
		return l.Yellow
	case SlotGreen:
		return l.Green
	}
	return false
}

func (l *Lamps) set(s Slot, lit bool) {
	switch s {
	case SlotRed:
		l.Red = lit
	case SlotYellow:
		l.Yellow = lit
	case SlotGreen:
		l.Green = lit
	}
}

// Panel is the single source of truth for the lamps. The phase clock and
// both blink channels write to it; it is guarded by the Controller mutex.
type Panel struct {
	lamps Lamps
}

// Set lights or darkens one lamp.
func (p *Panel) Set(s Slot, lit bool) {
	p.lamps.set(s, lit)
}

// Toggle flips one lamp.
func (p *Panel) Toggle(s Slot) {
	p.lamps.set(s, !p.lamps.Lit(s))
}

// Lit reports whether one lamp is lit.
func (p *Panel) Lit(s Slot) bool {
	return p.lamps.Lit(s)
}

// Reset turns every lamp off.
func (p *Panel) Reset() {
	p.lamps = Lamps{}
}

// Lamps returns the current lamp state.
func (p *Panel) Lamps() Lamps {
	return p.lamps
}

package light

import "TrafficLight/phase"

// RunState is the run/pause state of the signal.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Observer receives the per-second countdown while the signal runs.
type Observer interface {
	// OnPhaseTick is called once per clock tick with the phase name and
	// the seconds left after the tick. On the tick that advances the
	// cycle it reports the new phase and its full duration.
	OnPhaseTick(name string, remaining int)
}

// ExtendedObserver provides additional optional notifications.
type ExtendedObserver interface {
	Observer

	// OnPhaseEnter is called when a phase starts counting from its full duration.
	OnPhaseEnter(p phase.Phase, seconds int)

	// OnRunStateChange is called on every run state transition.
	OnRunStateChange(from, to RunState)

	// OnLampsChange is called whenever the visible lamps change, blink toggles included.
	OnLampsChange(l Lamps)
}

// BaseObserver provides no-op implementations for embedding.
type BaseObserver struct{}

func (BaseObserver) OnPhaseTick(string, int) {}
func (BaseObserver) OnPhaseEnter(phase.Phase, int) {}
func (BaseObserver) OnRunStateChange(RunState, RunState) {}
func (BaseObserver) OnLampsChange(Lamps) {}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(name string, remaining int)

// OnPhaseTick calls f.
func (f ObserverFunc) OnPhaseTick(name string, remaining int) {
	f(name, remaining)
}

type notice func(o Observer)

// batch collects notifications produced under the controller lock so
// they can be delivered, in order, once the lock is released.
type batch struct {
	before  Lamps
	notices []notice
}

func (b *batch) phaseTick(name string, remaining int) {
	b.notices = append(b.notices, func(o Observer) {
		o.OnPhaseTick(name, remaining)
	})
}

func (b *batch) phaseEnter(p phase.Phase, seconds int) {
	b.notices = append(b.notices, func(o Observer) {
		if x, ok := o.(ExtendedObserver); ok {
			x.OnPhaseEnter(p, seconds)
		}
	})
}

func (b *batch) runState(from, to RunState) {
	b.notices = append(b.notices, func(o Observer) {
		if x, ok := o.(ExtendedObserver); ok {
			x.OnRunStateChange(from, to)
		}
	})
}

func (b *batch) lamps(l Lamps) {
	b.notices = append(b.notices, func(o Observer) {
		if x, ok := o.(ExtendedObserver); ok {
			x.OnLampsChange(l)
		}
	})
}

func (b *batch) dispatch(observers []Observer) {
	for _, n := range b.notices {
		for _, o := range observers {
			n(o)
		}
	}
}

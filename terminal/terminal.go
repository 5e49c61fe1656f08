// Package terminal draws the signal in a text terminal with tcell and maps
// key presses to controller commands.
package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"TrafficLight/control"
	"TrafficLight/i18n"
	"TrafficLight/light"
	"TrafficLight/phase"
)

// App is what the view needs from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
	Snapshot() light.Snapshot
}

// Source is where the view subscribes for changes. *light.Controller
// implements it.
type Source interface {
	Subscribe(o light.Observer) uuid.UUID
	Unsubscribe(id uuid.UUID) bool
}

// Layout
const (
	lampX      = 3
	lampTop    = 2
	lampWidth  = 5
	lampGap    = 2
	statusRow  = lampTop + 3*lampGap + 1
	tableTop   = statusRow + 2
	tableX     = 2
	valueX     = 36
	helpOffset = phase.Count + 1
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleOff      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)

	lampStyles = [3]tcell.Style{
		tcell.StyleDefault.Foreground(tcell.NewRGBColor(221, 46, 68)),
		tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 204, 77)),
		tcell.StyleDefault.Foreground(tcell.NewRGBColor(119, 178, 85)),
	}
)

const helpText = "space start/stop  s start  p stop  r resume  x reset  1-6 select  +/- adjust  q quit"

type quitSignal struct{}

// View renders snapshots onto a tcell screen. It observes the controller
// and wakes the event loop on every change.
type View struct {
	light.BaseObserver

	screen   tcell.Screen
	app      App
	logger   *zap.Logger
	selected phase.Phase
}

// NewView creates a view over an initialized screen.
func NewView(screen tcell.Screen, app App, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{screen: screen, app: app, logger: logger}
}

// Selected returns the phase whose duration +/- adjusts.
func (v *View) Selected() phase.Phase {
	return v.selected
}

// OnPhaseTick wakes the event loop for a redraw.
func (v *View) OnPhaseTick(string, int) { v.wake() }

// OnLampsChange wakes the event loop for a redraw.
func (v *View) OnLampsChange(light.Lamps) { v.wake() }

// OnRunStateChange wakes the event loop for a redraw.
func (v *View) OnRunStateChange(_, _ light.RunState) { v.wake() }

// Attach subscribes the view to src. The returned func unsubscribes it and
// must be called before the screen is finalized.
func (v *View) Attach(src Source) (detach func()) {
	id := src.Subscribe(v)
	v.logger.Debug("view attached", zap.Stringer("subscription", id))
	return func() {
		if src.Unsubscribe(id) {
			v.logger.Debug("view detached", zap.Stringer("subscription", id))
		}
	}
}

func (v *View) wake() {
	// A full queue already holds a pending redraw
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// HandleKey applies a key press. It returns false when the user asked to
// quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return false
	case tcell.KeyUp:
		v.selected = (v.selected + phase.Count - 1) % phase.Count
		return true
	case tcell.KeyDown:
		v.selected = v.selected.Next()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	r := ev.Rune()
	switch {
	case r == 'q' || r == 'Q':
		return false
	case r >= '1' && r < '1'+phase.Count:
		v.selected = phase.Phase(r - '1')
	case r == '+' || r == '=':
		v.adjust(1)
	case r == '-' || r == '_':
		v.adjust(-1)
	default:
		if cmd, ok := control.CommandForKey(r, v.app.Snapshot().State); ok {
			v.app.EnqueueCommand(cmd)
		}
	}
	return true
}

func (v *View) adjust(delta int) {
	current := v.app.Snapshot().Durations[v.selected]
	next := phase.Clamp(current + delta)
	if next == current {
		return
	}
	v.logger.Debug("adjust duration", zap.Stringer("phase", v.selected), zap.Int("seconds", next))
	v.app.EnqueueCommand(control.Configure(v.selected, next))
}

// Draw renders the current snapshot.
func (v *View) Draw() {
	s := v.app.Snapshot()
	v.screen.Clear()

	drawText(v.screen, 1, 0, styleTitle, i18n.T("Traffic Light"))

	for i := 0; i < 3; i++ {
		slot := light.Slot(i)
		style := styleOff
		if s.Lamps.Lit(slot) {
			style = lampStyles[i]
		}
		y := lampTop + i*lampGap
		for x := 0; x < lampWidth; x++ {
			v.screen.SetContent(lampX+x, y, '█', nil, style)
		}
	}

	status := fmt.Sprintf("%s: %d (%s, %s)", i18n.T("Time"), s.Remaining, i18n.T(s.Name), s.State)
	drawText(v.screen, 1, statusRow, styleDefault, status)

	for _, p := range phase.All() {
		style := styleDefault
		marker := "  "
		if p == v.selected {
			style = styleSelected
			marker = "> "
		}
		if p == s.Phase {
			marker = marker[:1] + "*"
		}
		y := tableTop + int(p)
		drawText(v.screen, tableX, y, style, fmt.Sprintf("%s%d %s", marker, int(p)+1, i18n.DurationLabel(int(p))))
		drawText(v.screen, valueX, y, style, fmt.Sprintf("%4d", s.Durations[p]))
	}

	drawText(v.screen, 1, tableTop+helpOffset, styleHelp, helpText)
	v.screen.Show()
}

// Run draws and handles events until the user quits, the screen is
// finalized or ctx is done.
func (v *View) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-stop:
		}
	}()

	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.HandleKey(ev) {
				v.logger.Info("quit requested")
				return nil
			}
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitSignal); ok {
				return ctx.Err()
			}
		}
		v.Draw()
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

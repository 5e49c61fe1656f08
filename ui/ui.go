package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"TrafficLight/control"
	"TrafficLight/i18n"
	"TrafficLight/light"
	"TrafficLight/phase"
)

// App is what the widgets need from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
	Snapshot() light.Snapshot
	HandleKeyRune(r rune)
}

// SignalWidget draws the signal body, its three lamps and the countdown.
type SignalWidget struct {
	app App

	body      *canvas.Rectangle
	lamps     [3]*canvas.Circle
	timeText  *canvas.Text
	tappable  *TappableContainer
	container *fyne.Container
}

// NewSignalWidget builds the signal head. Tapping it starts, stops or
// resumes the signal depending on its state.
func NewSignalWidget(a App) *SignalWidget {
	w := &SignalWidget{app: a}

	w.body = canvas.NewRectangle(BodyColor)
	w.body.CornerRadius = CornerRadius
	w.body.SetMinSize(fyne.NewSize(BodyWidth, BodyHeight))

	lampBox := container.New(layout.NewVBoxLayout())
	for i := range w.lamps {
		lamp := canvas.NewCircle(OffColor)
		lamp.Resize(fyne.NewSize(LampDiameter, LampDiameter))
		w.lamps[i] = lamp

		holder := canvas.NewRectangle(color.Transparent)
		holder.SetMinSize(fyne.NewSize(LampDiameter, LampDiameter))
		lampBox.Add(container.NewStack(holder, lamp))
		if i < len(w.lamps)-1 {
			gap := canvas.NewRectangle(color.Transparent)
			gap.SetMinSize(fyne.NewSize(0, LampSpacing))
			lampBox.Add(gap)
		}
	}

	w.timeText = canvas.NewText("", color.White)
	w.timeText.TextSize = FontSizeTime
	w.timeText.Alignment = fyne.TextAlignCenter

	head := container.NewStack(w.body, container.NewCenter(lampBox))
	w.tappable = NewTappableContainer(head, func() {
		w.app.HandleKeyRune(' ')
	}, func(*fyne.PointEvent) {
		w.app.EnqueueCommand(control.Command{Type: control.CmdReset})
	})

	w.container = container.NewVBox(container.NewCenter(w.tappable), w.timeText)
	w.draw(a.Snapshot())
	return w
}

// CanvasObject returns the root object of the widget.
func (w *SignalWidget) CanvasObject() fyne.CanvasObject {
	return w.container
}

// UpdateDisplay redraws lamps and countdown from a fresh snapshot.
func (w *SignalWidget) UpdateDisplay() {
	s := w.app.Snapshot()
	fyne.Do(func() {
		w.draw(s)
	})
}

func (w *SignalWidget) draw(s light.Snapshot) {
	for i, lamp := range w.lamps {
		slot := light.Slot(i)
		lamp.FillColor = LampColor(slot, s.Lamps.Lit(slot))
		lamp.Refresh()
	}
	w.timeText.Text = TimeLabel(s)
	w.timeText.Refresh()
}

// Controls holds the duration sliders and the run buttons.
type Controls struct {
	app App

	startButton  *widget.Button
	stopButton   *widget.Button
	resumeButton *widget.Button
	resetButton  *widget.Button
	sliders      [phase.Count]*widget.Slider
	container    *fyne.Container
}

// NewControls builds one labeled slider per phase and the button row.
func NewControls(a App) *Controls {
	c := &Controls{app: a}
	s := a.Snapshot()

	rows := container.NewVBox()
	for _, p := range phase.All() {
		rows.Add(c.durationSlider(p, s.Durations[p]))
	}

	c.startButton = widget.NewButton(i18n.T("Start"), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdStart})
	})
	c.stopButton = widget.NewButton(i18n.T("Stop"), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdStop})
	})
	c.resumeButton = widget.NewButton(i18n.T("Resume"), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdResume})
	})
	c.resetButton = widget.NewButton(i18n.T("Reset"), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdReset})
	})

	controlStack := container.NewStack(c.startButton, c.stopButton, c.resumeButton)
	buttons := container.NewHBox(layout.NewSpacer(), controlStack, c.resetButton, layout.NewSpacer())

	c.container = container.NewVBox(rows, buttons)
	c.showButtons(s.State)
	return c
}

func (c *Controls) durationSlider(p phase.Phase, seconds int) fyne.CanvasObject {
	value := widget.NewLabel(fmt.Sprintf("%d", seconds))
	label := widget.NewLabel(i18n.DurationLabel(int(p)))

	slider := widget.NewSlider(SliderMin, SliderMax)
	slider.Step = 1
	slider.Value = SliderValue(seconds)
	slider.OnChanged = func(v float64) {
		value.SetText(fmt.Sprintf("%d", int(v)))
	}
	slider.OnChangeEnded = func(v float64) {
		c.app.EnqueueCommand(control.Configure(p, int(v)))
	}
	c.sliders[p] = slider

	return container.NewVBox(container.NewHBox(label, layout.NewSpacer(), value), slider)
}

// CanvasObject returns the root object of the controls.
func (c *Controls) CanvasObject() fyne.CanvasObject {
	return c.container
}

// UpdateButtons shows the run button that applies to state.
func (c *Controls) UpdateButtons(state light.RunState) {
	fyne.Do(func() {
		c.showButtons(state)
	})
}

func (c *Controls) showButtons(state light.RunState) {
	c.startButton.Hide()
	c.stopButton.Hide()
	c.resumeButton.Hide()
	switch state {
	case light.Stopped:
		c.startButton.Show()
	case light.Running:
		c.stopButton.Show()
	case light.Paused:
		c.resumeButton.Show()
	}
}

// MainWindow is the application window. It observes the controller and
// refreshes its widgets on every change.
type MainWindow struct {
	light.BaseObserver

	Window   fyne.Window
	signal   *SignalWidget
	controls *Controls
}

// OnPhaseTick refreshes the countdown.
func (m *MainWindow) OnPhaseTick(string, int) {
	m.signal.UpdateDisplay()
}

// OnLampsChange refreshes the lamps, blink toggles included.
func (m *MainWindow) OnLampsChange(light.Lamps) {
	m.signal.UpdateDisplay()
}

// OnRunStateChange swaps the run buttons.
func (m *MainWindow) OnRunStateChange(_, to light.RunState) {
	m.controls.UpdateButtons(to)
	m.signal.UpdateDisplay()
}

// CreateMainWindow builds the window with the signal head above the
// duration sliders and buttons.
func CreateMainWindow(a App, fyneApp fyne.App) *MainWindow {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = i18n.T("Traffic Light")
	}
	w := fyneApp.NewWindow(title)

	m := &MainWindow{
		Window:   w,
		signal:   NewSignalWidget(a),
		controls: NewControls(a),
	}

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)
	w.SetContent(container.NewPadded(container.NewVBox(
		m.signal.CanvasObject(),
		m.controls.CanvasObject(),
	)))
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	return m
}

// TappableContainer wraps any canvas object with tap callbacks.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

// NewTappableContainer wraps c.
func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

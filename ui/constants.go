package ui

import (
	"fmt"
	"image/color"

	"TrafficLight/i18n"
	"TrafficLight/light"
)

// UI constants
const (
	FontSizeTime float32 = 18.0

	// Dimensions
	BodyWidth    = 100
	BodyHeight   = 200
	LampDiameter = 40
	LampSpacing  = 15
	CornerRadius = 20.0
	WindowWidth  = 350
	WindowHeight = 720

	// Slider range in seconds
	SliderMin = 1
	SliderMax = 10
)

var (
	RedColor        = color.NRGBA{R: 221, G: 46, B: 68, A: 0xff}
	YellowColor     = color.NRGBA{R: 255, G: 204, B: 77, A: 0xff}
	GreenColor      = color.NRGBA{R: 119, G: 178, B: 85, A: 0xff}
	OffColor        = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	BodyColor       = color.NRGBA{R: 49, G: 55, B: 61, A: 0xff}
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
)

// LampColor returns the fill of a lamp slot.
func LampColor(s light.Slot, lit bool) color.Color {
	if !lit {
		return OffColor
	}
	switch s {
	case light.SlotRed:
		return RedColor
	case light.SlotYellow:
		return YellowColor
	case light.SlotGreen:
		return GreenColor
	}
	return OffColor
}

// TimeLabel is the text under the signal head, e.g. "Time: 4 (Red, running)".
func TimeLabel(s light.Snapshot) string {
	return fmt.Sprintf("%s: %d (%s, %s)", i18n.T("Time"), s.Remaining, i18n.T(s.Name), s.State)
}

// SliderValue clamps a duration into the slider range.
func SliderValue(seconds int) float64 {
	if seconds < SliderMin {
		return SliderMin
	}
	if seconds > SliderMax {
		return SliderMax
	}
	return float64(seconds)
}

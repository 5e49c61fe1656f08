package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme darkens the window background behind the signal head and
// keeps every other theme value from the default theme.
type CustomTheme struct {
	fyne.Theme
	background color.Color
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme(background color.Color) fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme(), background: background}
}

// Color returns the themed color for name.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return t.background
	}
	return t.Theme.Color(name, variant)
}

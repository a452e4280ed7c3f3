package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// viewerSizes shrinks text and padding so a 560px board plot and the rule
// list share one window.
var viewerSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNameText:         12,
	theme.SizeNameCaptionText:  9,
	theme.SizeNameHeadingText:  18,
	theme.SizeNamePadding:      3,
	theme.SizeNameInnerPadding: 6,
}

// ViewerTheme is the stock Fyne theme pinned to one light/dark variant,
// with viewerSizes applied.
type ViewerTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func NewViewerTheme(variant fyne.ThemeVariant) *ViewerTheme {
	return &ViewerTheme{Theme: theme.DefaultTheme(), variant: variant}
}

// Color ignores the requested variant in favour of the pinned one.
func (t *ViewerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func (t *ViewerTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := viewerSizes[name]; ok {
		return s
	}
	return t.Theme.Size(name)
}

package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
)

func TestViewerThemeSizes(t *testing.T) {
	th := NewViewerTheme(theme.VariantDark)

	if got := th.Size(theme.SizeNameText); got != 12 {
		t.Errorf("text size = %v, want 12", got)
	}
	if got, want := th.Size(theme.SizeNameScrollBar), theme.DefaultTheme().Size(theme.SizeNameScrollBar); got != want {
		t.Errorf("scroll bar size = %v, want stock %v", got, want)
	}
}

func TestViewerThemePinsVariant(t *testing.T) {
	th := NewViewerTheme(theme.VariantDark)
	want := theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark)

	if got := th.Color(theme.ColorNameBackground, theme.VariantLight); got != want {
		t.Errorf("background = %v, want dark variant %v", got, want)
	}
}

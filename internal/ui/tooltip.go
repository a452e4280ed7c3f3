package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/BoardPlace/internal/engine"
)

// newIconButtonWithTooltip creates an icon-only button with a hover tooltip.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// newRuleLabel shows one rule outcome, coloured by pass or fail. Hovering
// reveals the rule ID used in solution files and the Constraints sheet.
func newRuleLabel(r engine.RuleResult) *ttwidget.Label {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	label := ttwidget.NewLabel(status + "  " + r.Name + ": " + r.Detail)
	label.Wrapping = fyne.TextWrapWord
	if r.Passed {
		label.Importance = widget.SuccessImportance
	} else {
		label.Importance = widget.DangerImportance
	}
	label.SetToolTip(string(r.Rule))
	return label
}

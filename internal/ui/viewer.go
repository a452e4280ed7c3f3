// Package ui provides the desktop viewer for saved placement solutions.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/BoardPlace/internal/export"
	"github.com/piwi3910/BoardPlace/internal/model"
	"github.com/piwi3910/BoardPlace/internal/project"
	"github.com/piwi3910/BoardPlace/internal/ui/widgets"
)

// Viewer holds the state of a solution viewer window.
type Viewer struct {
	window    fyne.Window
	history   *History
	current   Snapshot
	appConfig model.AppConfig

	// UI references for dynamic updates
	boardContainer   *fyne.Container
	summaryContainer *fyne.Container
	backButton       fyne.Disableable
	forwardButton    fyne.Disableable
}

func NewViewer(window fyne.Window, cfg model.AppConfig) *Viewer {
	return &Viewer{
		window:    window,
		history:   NewHistory(),
		appConfig: cfg,
	}
}

// ShowSolution opens a viewer window for report and runs the application
// until the window is closed.
func ShowSolution(app fyne.App, report export.Report, label string) {
	app.Settings().SetTheme(NewViewerTheme(app.Settings().ThemeVariant()))

	window := app.NewWindow("BoardPlace - Placement Viewer")
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		cfg = model.DefaultAppConfig()
	}

	v := NewViewer(window, cfg)
	v.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(v.Build(), window.Canvas()))
	v.Open(Snapshot{Report: report, Label: label}, false)
	window.Resize(fyne.NewSize(1100, 700))
	window.CenterOnScreen()
	window.ShowAndRun()
}

// SetupMenus creates the native menu bar.
func (v *Viewer) SetupMenus() {
	var recent []*fyne.MenuItem
	for _, path := range v.appConfig.RecentSolutions {
		p := path
		recent = append(recent, fyne.NewMenuItem(filepath.Base(p), func() { v.loadSolutionFile(p) }))
	}
	openRecent := fyne.NewMenuItem("Open Recent", nil)
	if len(recent) > 0 {
		openRecent.ChildMenu = fyne.NewMenu("", recent...)
	} else {
		openRecent.Disabled = true
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Solution...", v.openSolution),
		openRecent,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", func() { v.exportAs("pdf") }),
		fyne.NewMenuItem("Export PNG...", func() { v.exportAs("png") }),
		fyne.NewMenuItem("Export Excel...", func() { v.exportAs("xlsx") }),
		fyne.NewMenuItem("Export DXF...", func() { v.exportAs("dxf") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { v.window.Close() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Back", v.goBack),
		fyne.NewMenuItem("Forward", v.goForward),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About BoardPlace",
				"BoardPlace - PCB Placement Search\n\n"+
					"Places USB, MCU, crystal and two mounting blocks on a board\n"+
					"so every hard constraint holds, and ranks the results.",
				v.window)
		}),
	)

	v.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// Build constructs the viewer layout and returns the root container.
func (v *Viewer) Build() fyne.CanvasObject {
	back := newIconButtonWithTooltip(theme.NavigateBackIcon(), "Previous solution", v.goBack)
	forward := newIconButtonWithTooltip(theme.NavigateNextIcon(), "Next solution", v.goForward)
	open := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open solution file", v.openSolution)
	v.backButton = back
	v.forwardButton = forward

	toolbar := container.NewHBox(back, forward, widget.NewSeparator(), open)

	v.boardContainer = container.NewCenter(widget.NewLabel("No solution loaded."))
	v.summaryContainer = container.NewVBox()

	split := container.NewHSplit(v.boardContainer, container.NewVScroll(v.summaryContainer))
	split.SetOffset(0.6)

	return container.NewBorder(toolbar, nil, nil, nil, split)
}

// Open displays s. With remember set, the solution shown before is kept
// in the back history.
func (v *Viewer) Open(s Snapshot, remember bool) {
	if remember && v.current.Label != "" {
		v.history.Push(v.current)
	}
	v.current = s
	v.refresh()
}

func (v *Viewer) refresh() {
	report := v.current.Report

	v.boardContainer.RemoveAll()
	if report.Result.Found() {
		v.boardContainer.Add(widgets.NewBoardCanvas(report.Board, report.Result.Best, 560, 560))
	} else {
		v.boardContainer.Add(widget.NewLabel("No solution found."))
	}
	v.boardContainer.Refresh()

	v.summaryContainer.RemoveAll()
	for _, obj := range summaryObjects(v.current) {
		v.summaryContainer.Add(obj)
	}
	v.summaryContainer.Refresh()

	setEnabled(v.backButton, v.history.CanGoBack())
	setEnabled(v.forwardButton, v.history.CanGoForward())
	if v.current.Label != "" {
		v.window.SetTitle("BoardPlace - " + filepath.Base(v.current.Label))
	}
}

func setEnabled(d fyne.Disableable, enabled bool) {
	if d == nil {
		return
	}
	if enabled {
		d.Enable()
	} else {
		d.Disable()
	}
}

// summaryObjects lists the rule outcomes and run details for the side panel.
func summaryObjects(s Snapshot) []fyne.CanvasObject {
	report := s.Report
	res := report.Result

	header := widget.NewLabel(fmt.Sprintf("Run %s: %s", res.RunID, res.Status))
	header.TextStyle = fyne.TextStyle{Bold: true}
	objs := []fyne.CanvasObject{header}

	sol, err := report.Solution()
	if err != nil {
		objs = append(objs, widget.NewLabel(fmt.Sprintf(
			"No solution after %d iterations (seed %d, %s).", res.Iterations, res.Seed, res.Strategy)))
		return objs
	}

	objs = append(objs, widget.NewLabel(fmt.Sprintf(
		"Score %.4f (centrality %.3f, slack %.3f)", sol.Score, sol.Breakdown.Centrality, sol.Breakdown.Slack)))

	for _, r := range report.Verdict().Results {
		objs = append(objs, newRuleLabel(r))
	}

	objs = append(objs, widget.NewSeparator())
	var rows []string
	for _, p := range sol.Layout.Ordered() {
		rows = append(rows, fmt.Sprintf("%-8s (%.1f, %.1f) %gx%g %d°",
			p.Component.ID, p.X, p.Y, p.PlacedWidth(), p.PlacedHeight(), p.Rotation()))
	}
	placements := widget.NewLabel(strings.Join(rows, "\n"))
	placements.TextStyle = fyne.TextStyle{Monospace: true}
	objs = append(objs, placements,
		widget.NewLabel(fmt.Sprintf("Found at iteration %d of %d (seed %d, %s, %s)",
			sol.Iteration, res.Iterations, res.Seed, res.Strategy, res.Elapsed)))
	return objs
}

// ─── Actions ───────────────────────────────────────────────

func (v *Viewer) goBack() {
	if prev, ok := v.history.Back(v.current); ok {
		v.current = prev
		v.refresh()
	}
}

func (v *Viewer) goForward() {
	if next, ok := v.history.Forward(v.current); ok {
		v.current = next
		v.refresh()
	}
}

func (v *Viewer) openSolution() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		v.loadSolutionFile(reader.URI().Path())
	}, v.window)
}

func (v *Viewer) loadSolutionFile(path string) {
	sf, err := project.LoadSolution(path)
	if err != nil {
		dialog.ShowError(err, v.window)
		return
	}
	v.Open(Snapshot{
		Report: export.Report{
			Board:      sf.Board,
			Components: sf.Components,
			Settings:   sf.Settings,
			Result:     sf.Result,
		},
		Label: path,
	}, true)

	v.appConfig.AddRecent(path)
	if err := project.SaveAppConfig(project.DefaultConfigPath(), v.appConfig); err != nil {
		fmt.Printf("Failed to save app config: %v\n", err)
	}
}

func (v *Viewer) exportAs(format string) {
	report := v.current.Report
	if !report.Result.Found() {
		dialog.ShowInformation("No solution", "Open a solved placement before exporting.", v.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		switch format {
		case "pdf":
			err = export.ExportPDF(path, report)
		case "png":
			err = export.ExportPNG(path, report, export.DefaultPNGOptions())
		case "xlsx":
			err = export.ExportXLSX(path, report)
		case "dxf":
			err = export.ExportDXF(path, report)
		}
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), v.window)
	}, v.window)
	d.SetFileName("placement_solution." + format)
	d.Show()
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/piwi3910/BoardPlace/internal/model"
	"github.com/piwi3910/BoardPlace/internal/project"
)

// isolateHome points HOME at a temporary directory so no user app config
// or presets leak into a test.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"exhausted", ErrExhausted, ExitNoLayout},
		{"violation", fmt.Errorf("%w: overlap", ErrViolation), ExitNoLayout},
		{"interrupt", fmt.Errorf("search: %w", context.Canceled), ExitInterrupt},
		{"invalid config", &model.ValidationError{Field: "board.width", Message: "bad"}, ExitError},
		{"other", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	got := parseFormats(" PDF, png,,pdf ,json")
	want := []string{"pdf", "png", "json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseFormats = %v, want %v", got, want)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"summary", "dxf"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateFormats([]string{"svg"}); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := validateFormats(nil); err == nil {
		t.Error("expected error for empty format list")
	}
}

func TestSolveAndCheck(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	out, err := execute(t, "solve",
		"--strategy", "sweep", "--first", "--time", "0",
		"--output-dir", dir, "--formats", "summary,json,dxf")
	if err != nil {
		t.Fatalf("solve returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Placement solution") {
		t.Errorf("expected summary on stdout, got:\n%s", out)
	}
	for _, ext := range []string{".txt", ".json", ".dxf"} {
		if _, err := os.Stat(filepath.Join(dir, solutionBase+ext)); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}

	out, err = execute(t, "check", filepath.Join(dir, solutionBase+".json"))
	if err != nil {
		t.Fatalf("check returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "rules pass") {
		t.Errorf("expected passing check, got:\n%s", out)
	}
}

func TestSolveExhausted(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.toml")
	cfg := "[search]\nmax_iterations = 1\ntime_budget = \"0\"\n\n[constraints]\nmax_center_offset = 0.0\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "solve", "--config", cfgPath, "--output-dir", dir, "--formats", "summary,png,json")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v\n%s", err, out)
	}
	if ExitCode(err) != ExitNoLayout {
		t.Errorf("expected exit code %d, got %d", ExitNoLayout, ExitCode(err))
	}
	if !strings.Contains(out, "Skipped png") {
		t.Errorf("expected png to be skipped, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, solutionBase+".png")); !os.IsNotExist(err) {
		t.Error("no PNG should be written without a solution")
	}

	sf, err := project.LoadSolution(filepath.Join(dir, solutionBase+".json"))
	if err != nil {
		t.Fatalf("exhausted run should still save its result: %v", err)
	}
	if sf.Result.Status != model.StatusExhausted || sf.Result.Iterations != 1 {
		t.Errorf("unexpected saved result %+v", sf.Result)
	}
}

func TestSolveRejectsBadInput(t *testing.T) {
	isolateHome(t)
	_, err := execute(t, "solve", "--formats", "svg")
	if err == nil || ExitCode(err) != ExitError {
		t.Errorf("expected config error for unknown format, got %v", err)
	}

	_, err = execute(t, "solve", "--strategy", "annealing", "--output-dir", t.TempDir())
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestCheckDetectsViolation(t *testing.T) {
	isolateHome(t)
	board := model.DefaultBoard()
	components := model.DefaultComponents()
	set := model.NewComponentSet(components)
	at := func(id model.ComponentID, cx, cy float64) model.Placement {
		c := set[id]
		return model.Placement{Component: c, X: cx - c.Width/2, Y: cy - c.Height/2}
	}
	// Crystal 15.5 from the MCU
	layout := model.Layout{
		model.USB:     at(model.USB, 25, 2.5),
		model.MB1:     at(model.MB1, 2.5, 25),
		model.MB2:     at(model.MB2, 47.5, 25),
		model.MCU:     at(model.MCU, 25, 31.5),
		model.Crystal: at(model.Crystal, 25, 47),
	}
	result := model.Result{
		RunID:  "feedbeef",
		Status: model.StatusSucceeded,
		Best:   &model.Solution{RunID: "feedbeef", Layout: layout},
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	sf := project.NewSolutionFile(board, components, model.DefaultSettings(), result)
	if err := project.SaveSolution(path, sf); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "check", path)
	if !errors.Is(err, ErrViolation) {
		t.Fatalf("expected ErrViolation, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "[FAIL]") {
		t.Errorf("expected a failing rule in the summary, got:\n%s", out)
	}
}

func TestCheckMissingFile(t *testing.T) {
	isolateHome(t)
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing solution file")
	}
}

func TestConfigInit(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "conf", "boardplace.toml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	cfg, err := project.LoadRunConfig(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Board != model.DefaultBoard() || len(cfg.Components) != len(model.ComponentIDs) {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("expected refusal to overwrite without --force")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}

func TestCompare(t *testing.T) {
	isolateHome(t)
	out, err := execute(t, "compare", "--iterations", "500", "--time", "0")
	if err != nil {
		t.Fatalf("compare returned error: %v\n%s", err, out)
	}
	for _, want := range []string{"Scenario comparison", "Current Settings", "Sweep Strategy", "Seed 43", "Area-weighted COM"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison missing %q:\n%s", want, out)
		}
	}
}

func TestPresets(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sweep.toml")
	cfg := "[search]\nstrategy = \"sweep\"\nstop_on_first = true\ntime_budget = \"0\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "config", "preset", "save", "quick", "--config", cfgPath, "-d", "first sweep hit"); err != nil {
		t.Fatalf("preset save returned error: %v", err)
	}
	store, err := project.LoadPresets(project.DefaultPresetPath())
	if err != nil {
		t.Fatal(err)
	}
	p := store.FindByName("quick")
	if p == nil || p.Settings.Strategy != model.StrategySweep || !p.Settings.StopOnFirst {
		t.Fatalf("unexpected stored preset %+v", p)
	}

	out, err := execute(t, "config", "preset", "list")
	if err != nil || !strings.Contains(out, "quick") || !strings.Contains(out, "first sweep hit") {
		t.Errorf("preset list: err=%v\n%s", err, out)
	}

	outDir := filepath.Join(dir, "out")
	out, err = execute(t, "solve", "--preset", "quick", "--output-dir", outDir, "--formats", "json")
	if err != nil {
		t.Fatalf("solve --preset returned error: %v\n%s", err, out)
	}
	sf, err := project.LoadSolution(filepath.Join(outDir, solutionBase+".json"))
	if err != nil {
		t.Fatal(err)
	}
	if sf.Result.Strategy != model.StrategySweep {
		t.Errorf("expected the preset's sweep strategy, got %s", sf.Result.Strategy)
	}

	if _, err := execute(t, "solve", "--preset", "missing"); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for unknown preset, got %v", err)
	}

	if _, err := execute(t, "config", "preset", "remove", "quick"); err != nil {
		t.Fatalf("preset remove returned error: %v", err)
	}
	if _, err := execute(t, "config", "preset", "remove", "quick"); err == nil {
		t.Error("removing a missing preset should fail")
	}
}

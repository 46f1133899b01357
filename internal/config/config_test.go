package config

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestDefaultRun(t *testing.T) {
	run := DefaultRun()

	if run.Field != "decay" {
		t.Errorf("expected field decay, got %s", run.Field)
	}
	if run.Method != "dopri5" {
		t.Errorf("expected method dopri5, got %s", run.Method)
	}
	if run.T1 <= run.T0 {
		t.Error("default window should be increasing")
	}
	if err := run.Validate(); err != nil {
		t.Errorf("default run should validate, got %v", err)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "run.yaml", `
field: lorenz
method: rk4
t1: 2.5
rtol: 1e-6
y0: [1, 1, 1]
params:
  rho: 26.0
`)
	run, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if run.Field != "lorenz" || run.Method != "rk4" {
		t.Errorf("got field=%s method=%s", run.Field, run.Method)
	}
	if run.T1 != 2.5 || run.Rtol != 1e-6 {
		t.Errorf("got t1=%v rtol=%v", run.T1, run.Rtol)
	}
	if len(run.Y0) != 3 {
		t.Errorf("expected 3 initial components, got %d", len(run.Y0))
	}
	if run.Params["rho"] != 26.0 {
		t.Errorf("expected rho 26, got %v", run.Params["rho"])
	}
	// Unset values keep the defaults.
	if run.Points != DefaultPoints {
		t.Errorf("expected default points %d, got %d", DefaultPoints, run.Points)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "run.json", `{"field":"scale","method":"euler","t1":1,"step":0.001}`)
	run, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if run.Field != "scale" || run.Method != "euler" || run.Step != 0.001 {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeTemp(t, "run.toml", `
field = "vanderpol"
method = "dopri5"
t1 = 5.0

[params]
mu = 2.5
`)
	run, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if run.Field != "vanderpol" || run.Params["mu"] != 2.5 {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeTemp(t, "run.ini", "field=decay")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"run.yaml", "run.json", "run.toml"} {
		run := DefaultRun()
		run.Field = "oscillator"
		run.Params = map[string]float64{"w": 2.0, "zeta": 0.1}
		run.Y0 = []float64{1, 0}

		path := filepath.Join(t.TempDir(), name)
		if err := Save(path, run); err != nil {
			t.Fatalf("%s: save failed: %v", name, err)
		}
		back, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load failed: %v", name, err)
		}
		if back.Field != run.Field || back.Params["w"] != 2.0 || len(back.Y0) != 2 {
			t.Errorf("%s: round trip mismatch: %+v", name, back)
		}
	}
}

func TestTimes(t *testing.T) {
	run := &Run{T0: 1, T1: 3, Points: 5}
	ts := run.Times()
	if len(ts) != 5 {
		t.Fatalf("expected 5 times, got %d", len(ts))
	}
	if ts[0] != 1 || ts[4] != 3 {
		t.Errorf("endpoints = %v, %v", ts[0], ts[4])
	}
	if math.Abs(ts[2]-2.0) > 1e-15 {
		t.Errorf("midpoint = %v, want 2", ts[2])
	}

	back := &Run{T0: 1, T1: 0, Points: 3}
	ts = back.Times()
	if ts[0] != 1 || ts[2] != 0 {
		t.Errorf("backward endpoints = %v, %v", ts[0], ts[2])
	}
}

func TestOptions(t *testing.T) {
	run := DefaultRun()
	run.Rtol = 1e-4
	run.MaxSteps = 42
	opts := run.Options()
	if opts.Rtol != 1e-4 {
		t.Errorf("rtol = %v", opts.Rtol)
	}
	if opts.Atol == 0 {
		t.Error("atol should keep the package default")
	}
	if opts.MaxSteps != 42 {
		t.Errorf("max steps = %v", opts.MaxSteps)
	}
	if opts.FixedStep != DefaultStep {
		t.Errorf("fixed step = %v, want default %v", opts.FixedStep, DefaultStep)
	}
}

func TestClone(t *testing.T) {
	run := DefaultRun()
	run.Params = map[string]float64{"rate": 1.5}
	run.Y0 = []float64{1, 2}

	cp := run.Clone()
	cp.Params["rate"] = 9
	cp.Y0[0] = 9
	cp.Method = "euler"

	if run.Params["rate"] != 1.5 {
		t.Errorf("clone shares params map: %v", run.Params)
	}
	if run.Y0[0] != 1 {
		t.Errorf("clone shares y0 slice: %v", run.Y0)
	}
	if run.Method != DefaultMethod {
		t.Errorf("clone shares scalar fields: %s", run.Method)
	}
}

func TestPreset(t *testing.T) {
	run := Preset("lorenz-classic")
	if run == nil {
		t.Fatal("expected preset, got nil")
	}
	if run.Field != "lorenz" {
		t.Errorf("expected field lorenz, got %s", run.Field)
	}
	if err := run.Validate(); err != nil {
		t.Errorf("preset should validate, got %v", err)
	}

	if Preset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	if !sort.StringsAreSorted(names) {
		t.Error("preset names should be sorted")
	}
	for _, name := range names {
		if err := Preset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		run  Run
		want string
	}{
		{"no field", Run{Method: "rk4", Points: 2, T1: 1}, "field"},
		{"no method", Run{Field: "decay", Points: 2, T1: 1}, "method"},
		{"one point", Run{Field: "decay", Method: "rk4", Points: 1, T1: 1}, "points"},
		{"empty window", Run{Field: "decay", Method: "rk4", Points: 2}, "window"},
	}
	for _, tc := range cases {
		err := tc.run.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %s", tc.name, err, tc.want)
		}
	}
}

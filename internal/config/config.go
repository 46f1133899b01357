package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odeint/ode"
)

const (
	DefaultField  = "decay"
	DefaultMethod = "dopri5"
	DefaultT1     = 10.0
	DefaultPoints = 201
	DefaultStep   = 0.01
)

// Run describes one integration run: the field, the method, the time
// window and the solver settings. Zero-valued solver settings fall back
// to the ode package defaults.
type Run struct {
	Field  string             `json:"field" yaml:"field" toml:"field"`
	Params map[string]float64 `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Y0     []float64          `json:"y0,omitempty" yaml:"y0,omitempty" toml:"y0,omitempty"`

	Method string  `json:"method" yaml:"method" toml:"method"`
	T0     float64 `json:"t0" yaml:"t0" toml:"t0"`
	T1     float64 `json:"t1" yaml:"t1" toml:"t1"`
	Points int     `json:"points" yaml:"points" toml:"points"`

	Rtol     float64 `json:"rtol,omitempty" yaml:"rtol,omitempty" toml:"rtol,omitempty"`
	Atol     float64 `json:"atol,omitempty" yaml:"atol,omitempty" toml:"atol,omitempty"`
	Step     float64 `json:"step,omitempty" yaml:"step,omitempty" toml:"step,omitempty"`
	MaxSteps int     `json:"max_steps,omitempty" yaml:"max_steps,omitempty" toml:"max_steps,omitempty"`
}

func DefaultRun() *Run {
	return &Run{
		Field:  DefaultField,
		Method: DefaultMethod,
		T1:     DefaultT1,
		Points: DefaultPoints,
		Step:   DefaultStep,
	}
}

// Load reads a run file based on its extension, applying the values over
// DefaultRun. Supports .yaml/.yml, .json and .toml.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	run := DefaultRun()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, run)
	case ".json":
		err = json.Unmarshal(data, run)
	case ".toml":
		err = toml.Unmarshal(data, run)
	default:
		return nil, fmt.Errorf("unsupported config extension: %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Save writes the run in the format matching the path's extension.
func Save(path string, run *Run) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(run)
	case ".json":
		data, err = json.MarshalIndent(run, "", "  ")
	case ".toml":
		data, err = toml.Marshal(run)
	default:
		return fmt.Errorf("unsupported config extension: %q", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a copy safe to mutate without touching the original.
func (r *Run) Clone() *Run {
	out := *r
	if r.Params != nil {
		out.Params = make(map[string]float64, len(r.Params))
		for k, v := range r.Params {
			out.Params[k] = v
		}
	}
	if r.Y0 != nil {
		out.Y0 = append([]float64(nil), r.Y0...)
	}
	return &out
}

// Validate reports the first structurally broken setting.
func (r *Run) Validate() error {
	if r.Field == "" {
		return fmt.Errorf("field name is empty")
	}
	if r.Method == "" {
		return fmt.Errorf("method name is empty")
	}
	if r.Points < 2 {
		return fmt.Errorf("points must be at least 2, got %d", r.Points)
	}
	if r.T1 == r.T0 {
		return fmt.Errorf("empty time window [%g, %g]", r.T0, r.T1)
	}
	return nil
}

// Times expands the window into Points evenly spaced output times,
// endpoints included. T1 < T0 yields a decreasing sequence.
func (r *Run) Times() []float64 {
	ts := make([]float64, r.Points)
	span := r.T1 - r.T0
	for i := range ts {
		ts[i] = r.T0 + span*float64(i)/float64(r.Points-1)
	}
	ts[len(ts)-1] = r.T1
	return ts
}

// Options builds solver options from the run, leaving unset values at
// the package defaults.
func (r *Run) Options() ode.Options {
	opts := ode.DefaultOptions()
	if r.Rtol > 0 {
		opts.Rtol = r.Rtol
	}
	if r.Atol > 0 {
		opts.Atol = r.Atol
	}
	if r.Step > 0 {
		opts.FixedStep = r.Step
	}
	if r.MaxSteps > 0 {
		opts.MaxSteps = r.MaxSteps
	}
	return opts
}

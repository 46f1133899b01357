package config

import "sort"

// Presets are ready-made runs selectable by name from the CLI.
var Presets = map[string]*Run{
	"decay": {
		Field: "decay", Method: "dopri5", T1: 5.0, Points: 101,
	},
	"scale-growth": {
		Field: "scale", Params: map[string]float64{"theta": 0.5},
		Method: "dopri5", T1: 4.0, Points: 101,
	},
	"oscillator-ring": {
		Field: "oscillator", Params: map[string]float64{"w": 2.0, "zeta": 0.0},
		Method: "rk4", T1: 10.0, Points: 501, Step: 0.01,
	},
	"oscillator-damped": {
		Field: "oscillator", Params: map[string]float64{"w": 2.0, "zeta": 0.15},
		Method: "dopri5", T1: 20.0, Points: 501,
	},
	"vanderpol-relaxation": {
		Field: "vanderpol", Params: map[string]float64{"mu": 5.0},
		Method: "dopri5", T1: 30.0, Points: 1001, Rtol: 1e-8, Atol: 1e-10,
	},
	"lorenz-classic": {
		Field: "lorenz", Method: "dopri5", T1: 40.0, Points: 2001,
		Rtol: 1e-8, Atol: 1e-10,
	},
	"ramp": {
		Field: "ramp", Params: map[string]float64{"a": 2.0},
		Method: "heun", T1: 3.0, Points: 61, Step: 0.05,
	},
}

func Preset(name string) *Run {
	run, ok := Presets[name]
	if !ok {
		return nil
	}
	return run
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

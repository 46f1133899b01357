package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/odeint/field"
	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
	"github.com/san-kum/odeint/ode/step"
)

// Model is a vector field bundled with a sensible initial state.
type Model interface {
	ode.Field
	DefaultState() ode.State
}

// Info describes a registered method for listings.
type Info struct {
	Name     string
	Order    int
	Kind     string // runge-kutta, embedded, multistep
	Adaptive bool
	Dense    bool // quartic dense output available
}

type methodEntry struct {
	info    Info
	factory func() solver.Method
}

// Registry maps names to method and field constructors.
type Registry struct {
	methods map[string]methodEntry
	fields  map[string]func(params map[string]float64) Model
}

func New() *Registry {
	r := &Registry{
		methods: make(map[string]methodEntry),
		fields:  make(map[string]func(map[string]float64) Model),
	}

	r.addMethod("runge-kutta", false, func() solver.Method { return step.NewEuler() })
	r.addMethod("runge-kutta", false, func() solver.Method { return step.NewMidpoint() })
	r.addMethod("runge-kutta", false, func() solver.Method { return step.NewHeun() })
	r.addMethod("runge-kutta", false, func() solver.Method { return step.NewRK4() })
	r.addMethod("multistep", false, func() solver.Method { return step.NewAdams(2) })
	r.addMethod("multistep", false, func() solver.Method { return step.NewAdams(3) })
	r.addMethod("multistep", false, func() solver.Method { return step.NewAdams(4) })
	r.addMethod("embedded", false, func() solver.Method { return step.NewAdaptiveHeun() })
	r.addMethod("embedded", false, func() solver.Method { return step.NewBosh3() })
	r.addMethod("embedded", true, func() solver.Method { return step.NewDopri5() })
	r.addMethod("embedded", false, func() solver.Method { return step.NewDopri8() })
	// Variable order up to 12; listed at its ceiling.
	r.methods["vcabm"] = methodEntry{
		info:    Info{Name: "vcabm", Order: 12, Kind: "multistep", Adaptive: true},
		factory: func() solver.Method { return step.NewVCABM() },
	}

	r.fields["decay"] = func(p map[string]float64) Model {
		return field.NewDecay(replicate(getOr(p, "rate", 1.0), dimOf(p))...)
	}
	r.fields["scale"] = func(p map[string]float64) Model {
		return field.NewScale(dimOf(p), getOr(p, "theta", 0.5))
	}
	r.fields["rotation"] = func(p map[string]float64) Model {
		return field.NewRotation(getOr(p, "w", 1.0))
	}
	r.fields["oscillator"] = func(p map[string]float64) Model {
		return field.NewOscillator(getOr(p, "w", 2.0), getOr(p, "zeta", 0.0))
	}
	r.fields["vanderpol"] = func(p map[string]float64) Model {
		return field.NewVanDerPol(getOr(p, "mu", 1.0))
	}
	r.fields["lorenz"] = func(p map[string]float64) Model {
		return field.NewLorenz(getOr(p, "sigma", 10.0), getOr(p, "rho", 28.0), getOr(p, "beta", 8.0/3.0))
	}
	r.fields["ramp"] = func(p map[string]float64) Model {
		return field.NewRamp(replicate(getOr(p, "a", 1.0), dimOf(p))...)
	}

	return r
}

// addMethod registers a stepper under its own Name, deriving the listing
// info from the instance capabilities.
func (r *Registry) addMethod(kind string, dense bool, factory func() solver.Method) {
	m := factory()
	named := m.(interface{ Name() string })
	info := Info{Name: named.Name(), Order: m.Order(), Kind: kind, Dense: dense}
	if a, ok := m.(interface{ Adaptive() bool }); ok && a.Adaptive() {
		info.Adaptive = true
	}
	r.methods[info.Name] = methodEntry{info: info, factory: factory}
}

// Method builds a fresh stepper. Instances hold per-solve state and must
// not be shared across concurrent calls.
func (r *Registry) Method(name string) (solver.Method, error) {
	e, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return e.factory(), nil
}

// Field builds a named field from its parameter map. Missing parameters
// take the field's classic defaults.
func (r *Registry) Field(name string, params map[string]float64) (Model, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", name)
	}
	return fn(params), nil
}

// Methods lists registered methods sorted by name.
func (r *Registry) Methods() []Info {
	infos := make([]Info, 0, len(r.methods))
	for _, e := range r.methods {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Fields lists registered field names sorted.
func (r *Registry) Fields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getOr(p map[string]float64, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func dimOf(p map[string]float64) int {
	n := int(getOr(p, "dim", 1))
	if n < 1 {
		n = 1
	}
	return n
}

func replicate(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

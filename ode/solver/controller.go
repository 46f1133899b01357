package solver

import (
	"math"

	"github.com/san-kum/odeint/ode"
)

// controller decides step acceptance and proposes the next step magnitude.
// The integral law scales by safety*ratio^(-1/(order+1)); the PI variant
// additionally weighs the previous accepted ratio to damp the
// accept/reject oscillation the pure law shows on smooth problems. The
// first step of an integration has no history and always uses the pure
// law.
type controller struct {
	order     float64
	pi        bool
	safety    float64
	minFactor float64
	maxFactor float64
	minStep   float64
	maxStep   float64

	prevRatio float64
}

func newController(opts ode.Options, order int, pi bool) *controller {
	if opts.Control == ode.ControllerI {
		pi = false
	}
	if opts.Control == ode.ControllerPI {
		pi = true
	}
	return &controller{
		order:     float64(order),
		pi:        pi,
		safety:    opts.Safety,
		minFactor: opts.MinFactor,
		maxFactor: opts.MaxFactor,
		minStep:   opts.MinStep,
		maxStep:   opts.MaxStep,
	}
}

func (c *controller) accept(ratio float64) bool { return ratio <= 1 }

// propose returns the next step magnitude after a step of size dt produced
// the given error ratio. The result is clamped into [minStep, maxStep].
func (c *controller) propose(dt, ratio float64, accepted bool) float64 {
	var fac float64
	switch {
	case ratio == 0:
		fac = c.maxFactor
	case c.pi && accepted && c.prevRatio > 0:
		beta := 0.2 / (c.order + 1)
		alpha := 1/(c.order+1) - 0.75*beta
		fac = c.safety * math.Pow(ratio, -alpha) * math.Pow(c.prevRatio, beta)
	default:
		fac = c.safety * math.Pow(ratio, -1/(c.order+1))
	}
	fac = math.Min(c.maxFactor, math.Max(fac, c.minFactor))

	if accepted {
		c.prevRatio = math.Max(ratio, 1e-4)
	}

	h := math.Abs(dt) * fac
	h = math.Min(h, c.maxStep)
	if c.minStep > 0 {
		h = math.Max(h, c.minStep)
	}
	return h
}

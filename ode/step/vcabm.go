package step

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odeint/ode"
)

// maxAdamsOrder bounds the variable-order method; gammaStar runs out there.
const maxAdamsOrder = 12

// gammaStar are the Adams-Moulton error coefficients from the divided
// difference form of the method (Hairer, Norsett & Wanner, Solving Ordinary
// Differential Equations I, section III.5), indexed by order.
var gammaStar = []float64{
	1,
	-1.0 / 2.0,
	-1.0 / 12.0,
	-1.0 / 24.0,
	-19.0 / 720.0,
	-3.0 / 160.0,
	-863.0 / 60480.0,
	-275.0 / 24192.0,
	-33953.0 / 3628800.0,
	-0.00789255,
	-0.00678585,
	-0.00592406,
	-0.00523669,
}

// VCABM is the variable-coefficient Adams-Bashforth-Moulton
// predictor-corrector in PECE form with adaptive order and step size
// (Hairer III.5). Order-k prediction from the explicit divided differences,
// order-(k+1) correction, error estimated from the next difference, order
// raised or lowered by comparing the error the neighbouring orders would
// have produced. The method owns its grid, so it implements ode.Advancer.
type VCABM struct {
	maxOrder   int
	rtol, atol float64
	safety     float64
	minFactor  float64
	maxFactor  float64
	minStep    float64
	maxStep    float64
	maxRejects int

	dir float64

	y     ode.State
	prevT []float64
	prevF []ode.State
	phi   []ode.State
	order int
	nextT float64
}

func NewVCABM() *VCABM { return &VCABM{} }

func (v *VCABM) Name() string { return "vcabm" }

// Order reports the order currently in use.
func (v *VCABM) Order() int {
	if v.order == 0 {
		return 1
	}
	return v.order
}

func (v *VCABM) Start(f ode.Field, t0, dir float64, y0 ode.State, opts ode.Options) error {
	v.maxOrder = opts.MaxOrder
	if v.maxOrder < 1 || v.maxOrder > maxAdamsOrder {
		v.maxOrder = maxAdamsOrder
	}
	v.rtol, v.atol = opts.Rtol, opts.Atol
	v.safety = opts.Safety
	v.minFactor, v.maxFactor = opts.MinFactor, opts.MaxFactor
	v.minStep, v.maxStep = opts.MinStep, opts.MaxStep
	v.maxRejects = opts.MaxRejects
	v.dir = dir

	f0 := f.Derive(t0, y0)
	if len(f0) != len(y0) {
		return ode.ErrShapeMismatch
	}
	if !f0.IsValid() {
		return ode.ErrNonFinite
	}

	v.y = y0.Clone()
	v.prevT = append(v.prevT[:0], t0)
	v.prevF = append(v.prevF[:0], f0)
	v.phi = append(v.phi[:0], f0)
	v.order = 1

	h := opts.InitStep
	if h <= 0 {
		h = ode.InitialStep(f, t0, y0, f0, 2, v.rtol, v.atol, dir)
	}
	h = math.Min(h, v.maxStep)
	v.nextT = t0 + dir*h
	return nil
}

// gAndExplicitPhi builds the g coefficients and the beta-scaled explicit
// divided differences for a step ending at nextT, at order k.
func (v *VCABM) gAndExplicitPhi(nextT float64, k int) ([]float64, []ode.State) {
	currT := v.prevT[0]
	dt := nextT - currT

	g := make([]float64, k+1)
	g[0] = 1
	c := make([]float64, k+1)
	for i := range c {
		c[i] = 1 / float64(i+1)
	}

	ephi := make([]ode.State, k)
	ephi[0] = v.phi[0]
	beta := 1.0
	for j := 1; j < k; j++ {
		beta *= (nextT - v.prevT[j-1]) / (currT - v.prevT[j])
		scaled := v.phi[j].Clone()
		floats.Scale(beta, scaled)
		ephi[j] = scaled

		div := dt / (nextT - v.prevT[j-1])
		for q := 0; q < len(c)-1; q++ {
			c[q] -= c[q+1] * div
		}
		c = c[:len(c)-1]
		g[j] = c[0]
	}
	div := dt / (nextT - v.prevT[k-1])
	for q := 0; q < len(c)-1; q++ {
		c[q] -= c[q+1] * div
	}
	g[k] = c[0]

	return g, ephi
}

// implicitPhi updates the difference table with a fresh derivative at the
// step end: phi[0] = fNew, phi[j] = phi[j-1] - ephi[j-1].
func implicitPhi(ephi []ode.State, fNew ode.State, k int) []ode.State {
	if n := len(ephi) + 1; k > n {
		k = n
	}
	iphi := make([]ode.State, k)
	iphi[0] = fNew
	for j := 1; j < k; j++ {
		d := iphi[j-1].Clone()
		floats.Sub(d, ephi[j-1])
		iphi[j] = d
	}
	return iphi
}

// phiRatio is the tolerance-scaled RMS of coef*phi against the step
// endpoints, the quantity the order selection compares across orders.
func (v *VCABM) phiRatio(coef float64, phi, y0, y1 ode.State) float64 {
	e := make(ode.State, len(phi))
	for i, p := range phi {
		e[i] = math.Abs(coef * p)
	}
	return ode.ErrorRatio(e, y0, y1, v.rtol, v.atol)
}

// stepFactor is the step-size multiplier after a step with the given error
// ratio, using the exponent of the given order. An accepted step is never
// shrunk.
func (v *VCABM) stepFactor(ratio float64, order int, accepted bool) float64 {
	if ratio == 0 {
		return v.maxFactor
	}
	lo := v.minFactor
	if accepted {
		lo = 1
	}
	fac := v.safety * math.Pow(ratio, -1/float64(order))
	return math.Min(v.maxFactor, math.Max(fac, lo))
}

func (v *VCABM) Advance(f ode.Field, target float64) (ode.Step, error) {
	t0 := v.prevT[0]
	y0 := v.y

	for rejects := 0; ; rejects++ {
		if rejects > v.maxRejects {
			return ode.Step{}, ode.ErrStepRejectionExhausted
		}

		t1 := v.nextT
		if v.dir*(t1-target) > 0 {
			t1 = target
		}
		dt := t1 - t0
		if t0+dt == t0 {
			return ode.Step{}, ode.ErrStepTooSmall
		}
		if v.minStep > 0 && math.Abs(dt) < v.minStep {
			return ode.Step{}, ode.ErrStepTooSmall
		}

		order := v.order
		g, ephi := v.gAndExplicitPhi(t1, order)

		// Predict with the order-(k-1) explicit method.
		p := y0.Clone()
		for j := 0; j < order-1; j++ {
			floats.AddScaled(p, dt*g[j], ephi[j])
		}

		fp := f.Derive(t1, p)
		if len(fp) != len(y0) {
			return ode.Step{}, ode.ErrShapeMismatch
		}
		iphiP := implicitPhi(ephi, fp, order+1)

		// Correct to order k.
		y1 := p.Clone()
		floats.AddScaled(y1, dt*g[order-1], iphiP[order-1])

		errRatio := v.phiRatio(dt*(g[order]-g[order-1]), iphiP[order], y0, y1)
		if !y1.IsValid() {
			errRatio = math.Inf(1)
		}

		if errRatio > 1 {
			dtNext := math.Abs(dt) * v.stepFactor(errRatio, order, false)
			v.nextT = t0 + v.dir*dtNext
			continue
		}

		// Accepted. Re-evaluate at the corrected state and update the
		// difference table (the second E of PECE).
		fc := f.Derive(t1, y1)
		if len(fc) != len(y0) {
			return ode.Step{}, ode.ErrShapeMismatch
		}
		iphi := implicitPhi(ephi, fc, order+2)

		nextOrder := order
		if len(v.prevT) <= 4 || order < 3 {
			nextOrder = order + 1
			if nextOrder > 3 {
				nextOrder = 3
			}
			if nextOrder > v.maxOrder {
				nextOrder = v.maxOrder
			}
		} else {
			errKm1 := v.phiRatio(dt*(g[order-1]-g[order-2]), iphiP[order-1], y0, y1)
			errKm2 := v.phiRatio(dt*(g[order-2]-g[order-3]), iphiP[order-2], y0, y1)
			if math.Min(errKm1, errKm2) < errRatio {
				nextOrder = order - 1
			} else if order < v.maxOrder {
				errKp1 := v.phiRatio(dt*gammaStar[order], iphi[order], y0, y1)
				if errKp1 < errRatio {
					nextOrder = order + 1
				}
			}
		}

		// Keep the step when raising the order, otherwise rescale it.
		dtNext := math.Abs(dt)
		if nextOrder <= order {
			dtNext *= v.stepFactor(errRatio, order+1, true)
		}
		dtNext = math.Min(dtNext, v.maxStep)

		f0 := v.prevF[0]
		v.prevT = prependTime(v.prevT, t1, v.maxOrder+1)
		v.prevF = prependState(v.prevF, fc, v.maxOrder+1)
		v.phi = iphi
		v.y = y1
		v.order = nextOrder
		v.nextT = t1 + v.dir*dtNext

		return ode.Step{T0: t0, T1: t1, Y0: y0, Y1: y1, F0: f0, F1: fc}, nil
	}
}

func prependTime(s []float64, t float64, maxLen int) []float64 {
	s = append(s, 0)
	copy(s[1:], s)
	s[0] = t
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func prependState(s []ode.State, x ode.State, maxLen int) []ode.State {
	s = append(s, nil)
	copy(s[1:], s)
	s[0] = x
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

package ode

import "math"

// InitialStep estimates a first trial step for an adaptive method of the
// given order, following Hairer's starting-step algorithm: balance the
// scaled magnitudes of state and derivative, probe with one Euler step, and
// bound the result by the observed second-derivative scale. Costs one extra
// derivative evaluation beyond f0. The returned step is a positive
// magnitude; callers apply the integration direction. dir is +1 or -1.
func InitialStep(f Field, t0 float64, y0, f0 State, order int, rtol, atol, dir float64) float64 {
	d0 := WeightedRMS(y0, y0, rtol, atol)
	d1 := WeightedRMS(f0, y0, rtol, atol)

	var h0 float64
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	} else {
		h0 = 0.01 * d0 / d1
	}

	y1 := y0.Clone()
	for i := range y1 {
		y1[i] += dir * h0 * f0[i]
	}
	f1 := f.Derive(t0+dir*h0, y1)

	diff := make(State, len(f0))
	for i := range diff {
		diff[i] = f1[i] - f0[i]
	}
	d2 := WeightedRMS(diff, y0, rtol, atol) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1/float64(order+1))
	}

	return math.Min(100*h0, h1)
}

package ode

import "math"

// ErrorRatio is the mixed absolute/relative tolerance norm of a local error
// estimate: the root-mean-square over components of
// errEst_i / (atol + rtol*max(|y0_i|, |y1_i|)). A step is acceptable iff the
// ratio is at most 1. NaN or Inf components yield +Inf so the controller
// rejects the step.
func ErrorRatio(errEst, y0, y1 State, rtol, atol float64) float64 {
	n := len(errEst)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i, e := range errEst {
		scale := atol + rtol*math.Max(math.Abs(y0[i]), math.Abs(y1[i]))
		r := e / scale
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return math.Inf(1)
		}
		sum += r * r
	}
	return math.Sqrt(sum / float64(n))
}

// WeightedRMS is the tolerance-scaled RMS of v against a reference state,
// used by the initial step-size heuristic.
func WeightedRMS(v, ref State, rtol, atol float64) float64 {
	n := len(v)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i, x := range v {
		scale := atol + rtol*math.Abs(ref[i])
		r := x / scale
		sum += r * r
	}
	return math.Sqrt(sum / float64(n))
}

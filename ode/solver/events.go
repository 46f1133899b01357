package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/odeint/ode"
)

// EventFunc is a scalar indicator evaluated along the trajectory; a sign
// change between accepted steps marks an event.
type EventFunc func(t float64, y ode.State) float64

// ErrNoEvent is returned when the indicator never changes sign before the
// final time.
var ErrNoEvent = errors.New("ode: no event sign change before the final time")

// SolveEvent integrates from (t0, y0) toward tEnd until ev changes sign,
// then bisects the dense output of the step containing the crossing. It
// returns the event time, the state there, and the work statistics. The
// method must be adaptive; an indicator that is already zero at t0
// reports the event at t0.
func SolveEvent(f ode.Field, y0 ode.State, t0, tEnd float64, ev EventFunc, m Method, opts ode.Options) (float64, ode.State, Stats, error) {
	var stats Stats
	if err := opts.Validate(); err != nil {
		return 0, nil, stats, fmt.Errorf("ode: invalid options: %w", err)
	}
	if math.IsNaN(t0) || math.IsNaN(tEnd) || math.IsInf(t0, 0) || math.IsInf(tEnd, 0) || tEnd == t0 {
		return 0, nil, stats, ode.ErrInvalidTimes
	}
	if len(y0) == 0 || f.Dim() != len(y0) {
		return 0, nil, stats, ode.ErrShapeMismatch
	}
	if !y0.IsValid() {
		return 0, nil, stats, ode.ErrNonFinite
	}
	es, ok := m.(ode.EmbeddedStepper)
	if !ok || !adaptiveMethod(m) {
		return 0, nil, stats, fmt.Errorf("ode: event handling requires an adaptive method, got %T", m)
	}

	g0 := ev(t0, y0)
	if g0 == 0 {
		return t0, y0.Clone(), stats, nil
	}

	dir := 1.0
	if tEnd < t0 {
		dir = -1
	}
	cf := countingField{f, &stats.Evals}

	var (
		found    bool
		tEvent   float64
		yEvent   ode.State
	)
	err := driveAdaptive(cf, y0, t0, dir, es, opts, &stats, func(rec ode.Step, ip *Interpolant) (bool, error) {
		tHi, yHi := rec.T1, rec.Y1
		atEnd := dir*(rec.T1-tEnd) >= 0
		if atEnd {
			tHi = tEnd
			var err error
			yHi, err = ip.At(tEnd)
			if err != nil {
				return false, err
			}
		}

		g1 := ev(tHi, yHi)
		if g0*g1 <= 0 {
			te, ye, err := bisect(ip, ev, rec.T0, tHi, g0, g1)
			if err != nil {
				return false, err
			}
			found, tEvent, yEvent = true, te, ye
			return false, nil
		}
		g0 = g1
		return !atEnd, nil
	})
	if err != nil {
		return 0, nil, stats, err
	}
	if !found {
		return 0, nil, stats, ErrNoEvent
	}
	return tEvent, yEvent, stats, nil
}

// bisect narrows a bracketing interval on the interpolant until the
// midpoint degenerates, returning the endpoint on the far side of the
// crossing.
func bisect(ip *Interpolant, ev EventFunc, lo, hi, glo, ghi float64) (float64, ode.State, error) {
	if glo == 0 {
		y, err := ip.At(lo)
		return lo, y, err
	}
	if ghi == 0 {
		y, err := ip.At(hi)
		return hi, y, err
	}
	for i := 0; i < 128; i++ {
		mid := 0.5 * (lo + hi)
		if mid == lo || mid == hi {
			break
		}
		ym, err := ip.At(mid)
		if err != nil {
			return 0, nil, err
		}
		gm := ev(mid, ym)
		if gm == 0 {
			return mid, ym, nil
		}
		if glo*gm < 0 {
			hi = mid
		} else {
			lo, glo = mid, gm
		}
	}
	y, err := ip.At(hi)
	return hi, y, err
}

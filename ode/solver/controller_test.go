package solver

import (
	"math"
	"testing"

	"github.com/san-kum/odeint/ode"
)

func TestControllerAcceptThreshold(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, false)

	for _, r := range []float64{0, 0.3, 1.0} {
		if !c.accept(r) {
			t.Errorf("ratio %g should be accepted", r)
		}
	}
	for _, r := range []float64{1.0000001, 2, math.Inf(1), math.NaN()} {
		if c.accept(r) {
			t.Errorf("ratio %g should be rejected", r)
		}
	}
}

func TestControllerProposalBounds(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, false)
	dt := 0.1

	for _, r := range []float64{0, 1e-9, 0.25, 1, 1.5, 1e6, math.Inf(1)} {
		for _, acc := range []bool{true, false} {
			h := c.propose(dt, r, acc)
			if h < 0.2*dt-1e-15 || h > 10*dt+1e-15 {
				t.Errorf("ratio %g accepted=%v: h=%g outside factor bounds", r, acc, h)
			}
		}
	}
}

func TestControllerStepBounds(t *testing.T) {
	opts := ode.DefaultOptions()
	opts.MinStep = 0.05
	opts.MaxStep = 0.5
	c := newController(opts, 5, false)

	if h := c.propose(0.01, 1e9, false); h != 0.05 {
		t.Errorf("MinStep floor: got %g, expected 0.05", h)
	}
	if h := c.propose(0.4, 0, true); h != 0.5 {
		t.Errorf("MaxStep cap: got %g, expected 0.5", h)
	}
}

func TestControllerILawMayShrinkOnAccept(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, false)

	// A barely accepted step scales by the bare safety factor.
	h := c.propose(0.1, 1.0, true)
	if math.Abs(h-0.09) > 1e-15 {
		t.Errorf("got %g, expected 0.09", h)
	}
}

func TestControllerRejectionShrinks(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, true)
	for _, r := range []float64{1.01, 2, 100, 1e9} {
		if h := c.propose(0.1, r, false); h >= 0.1 {
			t.Errorf("ratio %g: rejected step proposed h=%g, must shrink", r, h)
		}
	}
}

func TestControllerZeroErrorMaxGrowth(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, false)
	if h := c.propose(0.1, 0, true); math.Abs(h-1.0) > 1e-15 {
		t.Errorf("got %g, expected MaxFactor growth to 1.0", h)
	}
}

func TestControllerPIFirstStepIsPure(t *testing.T) {
	pi := newController(ode.DefaultOptions(), 5, true)
	pure := newController(ode.DefaultOptions(), 5, false)

	hPI := pi.propose(0.1, 0.25, true)
	hPure := pure.propose(0.1, 0.25, true)
	if hPI != hPure {
		t.Errorf("first proposal: PI %g differs from pure %g", hPI, hPure)
	}
}

func TestControllerPIUsesHistory(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, true)
	c.propose(0.1, 0.25, true)

	got := c.propose(0.1, 0.25, true)

	beta := 0.2 / 6.0
	alpha := 1.0/6.0 - 0.75*beta
	want := 0.1 * 0.9 * math.Pow(0.25, -alpha) * math.Pow(0.25, beta)
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("got %.12f, expected %.12f", got, want)
	}

	// History damps the growth the pure law would propose.
	pure := newController(ode.DefaultOptions(), 5, false)
	if hPure := pure.propose(0.1, 0.25, true); got >= hPure {
		t.Errorf("PI proposal %g not damped below pure %g", got, hPure)
	}
}

func TestControllerRejectedStepLeavesHistory(t *testing.T) {
	c := newController(ode.DefaultOptions(), 5, true)
	c.propose(0.1, 0.25, true)
	prev := c.prevRatio

	c.propose(0.1, 5.0, false)
	if c.prevRatio != prev {
		t.Error("rejection must not overwrite the accepted-ratio history")
	}
}

func TestControllerOverride(t *testing.T) {
	opts := ode.DefaultOptions()

	opts.Control = ode.ControllerI
	if c := newController(opts, 5, true); c.pi {
		t.Error("ControllerI must disable PI even when the method prefers it")
	}

	opts.Control = ode.ControllerPI
	if c := newController(opts, 2, false); !c.pi {
		t.Error("ControllerPI must enable PI for any adaptive method")
	}
}

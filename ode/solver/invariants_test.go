package solver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeint/ode"
	"github.com/san-kum/odeint/ode/solver"
	"github.com/san-kum/odeint/ode/step"
)

var decay = ode.FuncField{N: 1, Fn: func(t float64, y ode.State) ode.State {
	return ode.State{-y[0]}
}}

var _ = Describe("Solve", func() {
	times := []float64{0, 0.5, 1}

	DescribeTable("matches exp(-t) for every method",
		func(m solver.Method, fixedStep, tol float64) {
			opts := ode.DefaultOptions()
			opts.FixedStep = fixedStep

			sol, err := solver.Solve(decay, ode.State{1}, times, m, opts)
			Expect(err).NotTo(HaveOccurred())
			for i, tm := range times {
				Expect(sol.Y[i][0]).To(BeNumerically("~", math.Exp(-tm), tol))
			}
		},
		Entry("euler", step.NewEuler(), 1e-4, 1e-3),
		Entry("midpoint", step.NewMidpoint(), 1e-3, 1e-5),
		Entry("heun", step.NewHeun(), 1e-3, 1e-5),
		Entry("rk4", step.NewRK4(), 1e-2, 1e-8),
		Entry("adams4", step.NewAdams(4), 1e-3, 1e-8),
		Entry("adaptive heun", step.NewAdaptiveHeun(), 0.0, 1e-4),
		Entry("bosh3", step.NewBosh3(), 0.0, 1e-5),
		Entry("dopri5", step.NewDopri5(), 0.0, 1e-6),
		Entry("dopri8", step.NewDopri8(), 0.0, 1e-6),
		Entry("vcabm", step.NewVCABM(), 0.0, 1e-5),
	)

	It("returns the initial state untouched for a single time", func() {
		sol, err := solver.Solve(decay, ode.State{0.7}, []float64{2}, step.NewDopri5(), ode.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Y).To(HaveLen(1))
		Expect(sol.Y[0][0]).To(Equal(0.7))
		Expect(sol.Stats.Evals).To(BeZero())
	})

	It("rejects a direction reversal", func() {
		_, err := solver.Solve(decay, ode.State{1}, []float64{0, 1, 0.5}, step.NewDopri5(), ode.DefaultOptions())
		Expect(err).To(MatchError(ode.ErrInvalidTimes))
	})

	It("round-trips forward then backward", func() {
		fwd, err := solver.Solve(decay, ode.State{1}, []float64{0, 2}, step.NewDopri5(), ode.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		back, err := solver.Solve(decay, fwd.Last(), []float64{2, 0}, step.NewDopri5(), ode.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Last()[0]).To(BeNumerically("~", 1.0, 1e-5))
	})

	It("keeps every accepted step inside MaxStep", func() {
		opts := ode.DefaultOptions()
		opts.MaxStep = 0.03
		opts.OnStep = func(s ode.Step) {
			Expect(math.Abs(s.Span())).To(BeNumerically("<=", 0.03))
		}
		_, err := solver.Solve(decay, ode.State{1}, []float64{0, 1}, step.NewDopri5(), opts)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports output rows in request order with matching times", func() {
		ts := []float64{0, 0.25, 0.25, 0.9, 1}
		sol, err := solver.Solve(decay, ode.State{1}, ts, step.NewBosh3(), ode.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.T).To(Equal(ts))
		Expect(sol.Y).To(HaveLen(len(ts)))
		Expect(sol.Y[1][0]).To(Equal(sol.Y[2][0]))
	})

	It("keeps the oscillator energy drift within tolerance over many periods", func() {
		spring := ode.FuncField{N: 2, Fn: func(t float64, y ode.State) ode.State {
			return ode.State{y[1], -y[0]}
		}}
		energy := func(y ode.State) float64 { return 0.5 * (y[0]*y[0] + y[1]*y[1]) }

		e0 := energy(ode.State{1, 0})
		maxDrift := 0.0
		opts := ode.DefaultOptions()
		opts.OnStep = func(s ode.Step) {
			drift := math.Abs(energy(s.Y1)-e0) / e0
			if drift > maxDrift {
				maxDrift = drift
			}
		}

		_, err := solver.Solve(spring, ode.State{1, 0}, []float64{0, 20 * math.Pi}, step.NewDopri5(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(maxDrift).To(BeNumerically("<", 1e-4))
	})
})

package step

// NewAdaptiveHeun returns the Heun-Euler 2(1) pair: Heun's method with the
// explicit Euler step as the embedded first-order solution. The cheapest
// adaptive method in the package, useful for rough fields where derivative
// evaluations dominate.
func NewAdaptiveHeun() *RK {
	return New(Tableau{
		Name:  "adaptive_heun",
		Order: 2,
		C:     []float64{0, 1},
		A: [][]float64{
			{},
			{1},
		},
		B:    []float64{1.0 / 2.0, 1.0 / 2.0},
		BErr: []float64{-1.0 / 2.0, 1.0 / 2.0},
	})
}

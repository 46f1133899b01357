package step

// NewEuler returns the explicit Euler method, first order, one stage.
func NewEuler() *RK {
	return New(Tableau{
		Name:  "euler",
		Order: 1,
		C:     []float64{0},
		A:     [][]float64{{}},
		B:     []float64{1},
	})
}

// NewMidpoint returns the explicit midpoint method, second order, two
// stages.
func NewMidpoint() *RK {
	return New(Tableau{
		Name:  "midpoint",
		Order: 2,
		C:     []float64{0, 1.0 / 2.0},
		A: [][]float64{
			{},
			{1.0 / 2.0},
		},
		B: []float64{0, 1},
	})
}

// NewHeun returns Heun's method (explicit trapezoidal), second order, two
// stages.
func NewHeun() *RK {
	return New(Tableau{
		Name:  "heun",
		Order: 2,
		C:     []float64{0, 1},
		A: [][]float64{
			{},
			{1},
		},
		B: []float64{1.0 / 2.0, 1.0 / 2.0},
	})
}

// NewRK4 returns the classical fourth-order Runge-Kutta method.
func NewRK4() *RK {
	return New(Tableau{
		Name:  "rk4",
		Order: 4,
		C:     []float64{0, 1.0 / 2.0, 1.0 / 2.0, 1},
		A: [][]float64{
			{},
			{1.0 / 2.0},
			{0, 1.0 / 2.0},
			{0, 0, 1},
		},
		B: []float64{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0},
	})
}

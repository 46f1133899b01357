package step

// NewBosh3 returns the Bogacki-Shampine 3(2) pair. The fourth stage is
// evaluated at the accepted endpoint, so the method is FSAL.
func NewBosh3() *RK {
	return New(Tableau{
		Name:  "bosh3",
		Order: 3,
		C:     []float64{0, 1.0 / 2.0, 3.0 / 4.0, 1},
		A: [][]float64{
			{},
			{1.0 / 2.0},
			{0, 3.0 / 4.0},
			{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0},
		},
		B: []float64{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
		BErr: []float64{
			2.0/9.0 - 7.0/24.0,
			1.0/3.0 - 1.0/4.0,
			4.0/9.0 - 1.0/3.0,
			-1.0 / 8.0,
		},
		FSAL: true,
	})
}

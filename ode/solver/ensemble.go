package solver

import (
	"context"
	"sync"

	"github.com/san-kum/odeint/ode"
)

// Ensemble runs independent solves of one field from many initial states,
// one goroutine per run. The method is supplied as a factory because
// steppers carry scratch buffers and must not be shared between runs.
type Ensemble struct {
	field  ode.Field
	method func() Method
}

func NewEnsemble(f ode.Field, method func() Method) *Ensemble {
	return &Ensemble{field: f, method: method}
}

// Run solves for every initial state over the same times. The first
// failing run's error is returned and the whole batch is discarded. A
// cancelled context fails runs that have not started; running solves are
// not interrupted.
func (e *Ensemble) Run(ctx context.Context, inits []ode.State, times []float64, opts ode.Options) ([]*Solution, error) {
	results := make([]*Solution, len(inits))
	errs := make([]error, len(inits))

	var wg sync.WaitGroup
	for i := range inits {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = Solve(e.field, inits[idx], times, e.method(), opts)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Result pairs a scenario with its trace or error.
type Result struct {
	Scenario Scenario
	Trace    *Trace
	Err      error
}

// RunBatch runs every scenario on a worker pool of the given size. Each
// scenario owns its world, so results do not depend on scheduling. Results
// keep the order of scenarios; the returned error joins the failures.
func RunBatch(ctx context.Context, scenarios []Scenario, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("sim: new pool: %w", err)
	}
	defer pool.Release()

	results := make([]Result, len(scenarios))
	var wg sync.WaitGroup
	for i, s := range scenarios {
		results[i].Scenario = s
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					logrus.WithField("scenario", s.Name).WithField("panic", p).Error("sim: scenario panicked")
					results[i].Err = fmt.Errorf("sim: %s: panic: %v", s.Name, p)
				}
			}()
			results[i].Trace, results[i].Err = Run(ctx, s)
		})
		if submitErr != nil {
			wg.Done()
			results[i].Err = fmt.Errorf("sim: submit %s: %w", s.Name, submitErr)
		}
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

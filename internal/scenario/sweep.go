package scenario

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/dirksavage88/camzoom/internal/config"
)

// SweepPoint is the outcome of one sweep run.
type SweepPoint struct {
	SlewRate float64
	Values   map[string]float64
	Err      error
}

// SweepSlewRates runs the base scenario once per slew rate on a shared
// worker pool and returns the points in input order. Each run gets its
// own world; nothing is shared across runs.
func SweepSlewRates(ctx context.Context, base *config.Config, rates []float64, workers int) []SweepPoint {
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)

	points := make([]SweepPoint, len(rates))
	var wg sync.WaitGroup
	for i, rate := range rates {
		wg.Add(1)
		iCap, rateCap := i, rate
		pool.SubmitTask(worker.Task{
			ID: iCap,
			Do: func() (any, error) {
				defer wg.Done()

				cfg := *base
				cfg.Zoom.SlewRate = rateCap

				sc, err := New(&cfg)
				if err != nil {
					points[iCap] = SweepPoint{SlewRate: rateCap, Err: err}
					return nil, err
				}
				res, err := sc.Run(ctx)
				if err != nil {
					points[iCap] = SweepPoint{SlewRate: rateCap, Err: err}
					return nil, err
				}
				points[iCap] = SweepPoint{SlewRate: rateCap, Values: res.Values}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return points
}

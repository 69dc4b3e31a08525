package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/gravsim/internal/nbody"
)

// ParallelFor splits [0, n) into at most workers chunks of at least minChunk
// and runs fn on each chunk concurrently.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// Job is one independent run for RunAll.
type Job struct {
	Name   string
	Sim    *Simulator
	Bodies []nbody.Body
	Config Config
	Sink   Sink
}

// RunAll runs every job on its own goroutine and returns the results in job
// order. The first error, in job order, is returned.
func RunAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			j := jobs[idx]
			results[idx], errs[idx] = j.Sim.Run(ctx, j.Bodies, j.Config, j.Sink)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jobs[i].Name, err)
		}
	}

	return results, nil
}

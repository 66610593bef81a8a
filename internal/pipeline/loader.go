package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/history"
)

// LoadResult holds the merged output of several history sources.
type LoadResult struct {
	Series       forecast.Series
	TotalSources int
	Loaded       int
	Failed       int
	// Errors maps a source description to its load error.
	Errors map[string]error
}

// ProgressFunc is called as each source finishes.
type ProgressFunc func(current, total int)

// LoadAll loads sources with a bounded worker pool and concatenates the
// series in source order. A failing source is recorded and skipped.
func LoadAll(ctx context.Context, sources []history.Source, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalSources: len(sources), Errors: map[string]error{}}
	if len(sources) == 0 {
		return result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(sources) {
		numWorkers = len(sources)
	}

	type loaded struct {
		series forecast.Series
		err    error
	}

	work := make(chan int, len(sources))
	results := make([]loaded, len(sources))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range sources {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					results[idx] = loaded{err: err}
				} else {
					s, err := sources[idx].Load(ctx)
					results[idx] = loaded{series: s, err: err}
				}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(sources))
				}
			}
		}()
	}

	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			result.Failed++
			name := describe(sources[i], i)
			if _, dup := result.Errors[name]; dup {
				name = fmt.Sprintf("%s#%d", name, i+1)
			}
			result.Errors[name] = r.err
			continue
		}
		result.Loaded++
		result.Series = append(result.Series, r.series...)
	}
	return result
}

func describe(s history.Source, i int) string {
	if d := s.Describe(); d != "" {
		return d
	}
	return fmt.Sprintf("source #%d", i+1)
}

package compute

import (
	"runtime"
	"sync"
)

// Workers returns how many goroutines to use for n items when no chunk
// should hold fewer than minChunk items.
func Workers(n, minChunk int) int {
	workers := runtime.NumCPU()
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// ParallelFor splits [0, n) into one contiguous chunk per worker and runs fn
// on each chunk concurrently.
func ParallelFor(n, workers int, fn func(worker, start, end int)) {
	if workers <= 1 || n <= 1 {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(worker, s, e int) {
			defer wg.Done()
			fn(worker, s, e)
		}(w, start, end)
	}

	wg.Wait()
}

package dynamo

import (
	"runtime"
	"sync"
)

// ParallelFor executes a function in parallel over contiguous chunks of [0, n).
// A non-positive workers count uses one worker per CPU.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	// Worker w covers [w*n/workers, (w+1)*n/workers): bounds never pass n
	// and no chunk comes up empty.
	for w := 0; w < workers; w++ {
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(w*n/workers, (w+1)*n/workers)
	}

	wg.Wait()
}

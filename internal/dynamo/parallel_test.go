package dynamo

import (
	"sync"
	"testing"
)

func TestParallelForCoversEveryIndexOnce(t *testing.T) {
	cases := []struct {
		n, minChunk, workers int
	}{
		{641, 16, 40},
		{641, 16, 64},
		{641, 16, 1000},
		{100, 16, 3},
		{37, 16, 8},
		{17, 16, 8},
		{256, 1, 256},
		{1, 16, 4},
		{0, 16, 4},
	}

	for _, tc := range cases {
		var mu sync.Mutex
		hits := make([]int, tc.n)

		ParallelFor(tc.n, tc.minChunk, tc.workers, func(start, end int) {
			if start < 0 || end > tc.n || start > end {
				t.Errorf("n=%d minChunk=%d workers=%d: chunk [%d, %d) out of range",
					tc.n, tc.minChunk, tc.workers, start, end)
				return
			}
			mu.Lock()
			for i := start; i < end; i++ {
				hits[i]++
			}
			mu.Unlock()
		})

		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d minChunk=%d workers=%d: index %d visited %d times",
					tc.n, tc.minChunk, tc.workers, i, h)
			}
		}
	}
}

func TestParallelForSmallNRunsSerial(t *testing.T) {
	calls := 0
	ParallelFor(10, 16, 8, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("chunk = [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

package backend

import (
	"runtime"
	"sync"
)

// sequentialThreshold is the grid size below which the Host device runs the
// loop inline. Spawning goroutines for tiny grids costs more than it saves.
const sequentialThreshold = 1024

// parallelFor divides [0, items) between CPU worker goroutines and executes
// fn for every index. Each worker owns a contiguous chunk, so fn sees each
// index exactly once.
func (c *Context) parallelFor(items int, fn func(i int)) {
	if items <= sequentialThreshold {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}

	numWorkers := c.NumThreads
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

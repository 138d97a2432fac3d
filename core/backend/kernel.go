package backend

import "sync"

// launchBlocks executes fn over [0, items) as a grid of fixed-size blocks,
// one goroutine per block. This mirrors an accelerator launch: the schedule
// is shaped by block geometry rather than CPU count, which keeps the Kernel
// path's interleaving distinct from the Host path while running the exact
// same cell function.
func (c *Context) launchBlocks(items int, fn func(i int)) {
	blockSize := c.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	numBlocks := (items + blockSize - 1) / blockSize

	var wg sync.WaitGroup
	wg.Add(numBlocks)
	for b := 0; b < numBlocks; b++ {
		go func(block int) {
			defer wg.Done()
			start := block * blockSize
			end := start + blockSize
			if end > items {
				end = items
			}
			for i := start; i < end; i++ {
				fn(i)
			}
		}(b)
	}
	wg.Wait()
}

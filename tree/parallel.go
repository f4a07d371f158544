package tree

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// parallelFor runs fn(0), fn(1), ..., fn(n-1), in parallel across
// runtime.NumCPU() workers once n meets threshold and more than one CPU is
// available (spec §5); otherwise it runs sequentially. Workers claim work
// via an atomic counter; the first observed error is captured under a mutex
// and returned once all workers have joined.
func parallelFor(n, threshold int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	workers := runtime.NumCPU()
	if n < threshold || workers <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	if workers > n {
		workers = n
	}

	var counter int64
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&counter, 1) - 1)
				if i >= n {
					return
				}
				if err := fn(i); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		}()
	}
	wg.Wait()
	return firstErr
}

const (
	leafParallelThreshold = 128
	pairParallelThreshold = 64
)

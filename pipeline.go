package mercator

import "sync"

// task calls fn for every index in [0, dataSize), spreading contiguous chunks over
// workersCount goroutines. fn receives the worker id so that each worker can use its own
// scratch buffers. It returns once every call is done.
func task(workersCount int, dataSize int, fn func(workerID, i int)) {
	if workersCount <= 1 {
		for i := 0; i < dataSize; i++ {
			fn(0, i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(workerID, i)
			}
		}(workerID, min(workerID*chunkSize, dataSize), min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

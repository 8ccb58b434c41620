package field

import (
	"fmt"
	"sync"
)

// BatchInvert inverts every element using Montgomery's trick: one big
// inversion plus 3n multiplications instead of n inversions.
func BatchInvert(elements []Element) ([]Element, error) {
	n := len(elements)
	if n == 0 {
		return []Element{}, nil
	}
	if n == 1 {
		inv, err := elements[0].Inv()
		if err != nil {
			return nil, err
		}
		return []Element{inv}, nil
	}

	for i, e := range elements {
		if e.IsZero() {
			return nil, fmt.Errorf("field: cannot invert zero element at index %d", i)
		}
	}

	acc := make([]Element, n)
	acc[0] = elements[0]
	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Mul(elements[i])
	}

	accInv, err := acc[n-1].Inv()
	if err != nil {
		return nil, fmt.Errorf("field: failed to invert accumulator: %w", err)
	}

	results := make([]Element, n)
	for i := n - 1; i > 0; i-- {
		results[i] = accInv.Mul(acc[i-1])
		accInv = accInv.Mul(elements[i])
	}
	results[0] = accInv

	return results, nil
}

// ParallelBatchInvert batch-inverts large slices across workers, falling
// back to BatchInvert below a chunking threshold. Each chunk is inverted
// independently, so the result is identical to BatchInvert element-for-element.
func ParallelBatchInvert(elements []Element, numWorkers int) ([]Element, error) {
	n := len(elements)
	if n < 1024 || numWorkers <= 1 {
		return BatchInvert(elements)
	}

	chunkSize := (n + numWorkers - 1) / numWorkers
	results := make([]Element, n)

	var wg sync.WaitGroup
	errs := make([]error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()
			inverted, err := BatchInvert(elements[start:end])
			if err != nil {
				errs[workerID] = fmt.Errorf("worker %d: %w", workerID, err)
				return
			}
			copy(results[start:end], inverted)
		}(w, start, end)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

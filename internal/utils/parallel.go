package utils

import (
	"errors"
	"sync"
)

// RunParallel runs each fn in its own goroutine, waits for all of them
// and returns the joined non-nil errors. Used where record and blob
// deletion for the same file can proceed side by side.
func RunParallel(fns ...func() error) error {
	errs := make([]error, len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	return errors.Join(errs...)
}

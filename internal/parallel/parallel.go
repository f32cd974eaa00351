// Package parallel provides concurrent execution helpers for independent
// node evaluations.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls concurrent execution behavior.
type Config struct {
	Enabled bool // Whether tasks run on separate goroutines.
}

// DefaultConfig enables concurrency on multi-core machines.
func DefaultConfig() Config {
	return Config{Enabled: runtime.NumCPU() > 1}
}

// Join runs the given tasks and waits for all of them to finish.
// Tasks run concurrently when cfg.Enabled, sequentially otherwise.
//
// Every task is always run to completion; the error returned is the first
// failure in task order, so the result is deterministic regardless of
// scheduling.
func Join(cfg Config, tasks ...func() error) error {
	errs := make([]error, len(tasks))

	if !cfg.Enabled {
		for i, task := range tasks {
			errs[i] = task()
		}
	} else {
		var wg sync.WaitGroup
		for i, task := range tasks {
			wg.Add(1)
			go func(i int, task func() error) {
				defer wg.Done()
				errs[i] = task()
			}(i, task)
		}
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Package parallel provides row-parallel execution helpers for layer kernels.
//
// Work is split into contiguous chunks of rows; every row is still computed
// by exactly one goroutine in a fixed order, so results do not depend on the
// number of workers.
package parallel

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/sourcegraph/conc"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum rows per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on the number of physical cores.
//
// Hyper-threaded siblings do not help the dense row kernels, so physical
// cores are preferred when cpuid can report them.
func DefaultConfig() Config {
	n := cpuid.CPU.PhysicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
//
// A panic in any f is re-raised in the caller once all workers finished.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg conc.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		s, e := start, min(start+chunkSize, n)
		wg.Go(func() {
			for i := s; i < e; i++ {
				f(i)
			}
		})
	}
	wg.Wait()
}

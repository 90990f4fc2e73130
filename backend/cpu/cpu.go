// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/braid/internal/backend/cpu"
	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of the array operations the
// evaluator needs, with contractions split across goroutines.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ParallelConfig controls how contractions are split across goroutines.
type ParallelConfig = parallel.Config

// DefaultParallelConfig returns one worker per CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/braid/backend/cpu"
//	    "github.com/born-ml/braid/functor"
//	)
//
//	func main() {
//	    restore := functor.UseBackend(cpu.New())
//	    defer restore()
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

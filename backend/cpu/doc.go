// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float64, Complex128 and Symbolic entries
//   - TensorDot as transpose + matrix multiply, split across goroutines
//   - NumPy-compatible moveaxis and transpose
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/braid/backend/cpu"
//	    "github.com/born-ml/braid/diagram"
//	    "github.com/born-ml/braid/functor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    t, err := functor.Eval(d, functor.WithBackend(backend))
//	}
//
// # Performance
//
// Numeric contractions spread output cells across workers once there are
// at least ParallelConfig.MinChunkSize of them. Symbolic contractions run
// sequentially since Scalar implementations need not be safe for
// concurrent use.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu

// Copyright 2026 The declnet authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package node is the public API for building differentiable computation
// graphs out of processing nodes.
//
// # Overview
//
// A Node is a parametrized vector-to-vector function that reports both its
// value (Solve) and its Jacobian (Gradient). Leaf nodes compute closed-form
// formulas; declarative nodes (see package declarative) define their output
// as the argmin of an inner objective. Combinators compose nodes into
// larger nodes:
//
//   - Sequential: function composition, with the chain rule composing the
//     child Jacobians.
//   - Parallel: output concatenation, with vertically stacked Jacobians.
//
// Compositions form a static tree built before any evaluation; every node is
// immutable and safe for concurrent use.
//
// # Basic Usage
//
//	import (
//	    "github.com/declnet-ml/declnet/declarative"
//	    "github.com/declnet-ml/declnet/node"
//	    "github.com/declnet-ml/declnet/optim"
//	)
//
//	func main() {
//	    n := 10
//	    avg, _ := declarative.NewRobustAverage(n, declarative.NewPseudoHuber(1), declarative.Termination{})
//	    sel, _ := node.NewSelect(2*n, 0, n-1)
//	    upper, _ := node.NewSequential(avg, sel)
//	    // ... compose further, then hand the root to optim.GradientDescent.
//	}
//
// # Errors
//
// Dimension invariants between composed nodes fail at construction
// (ErrDimension); calls with a wrong-length input fail fast (ErrShape);
// inner-solver failures surface as ErrNotConverged. Child errors propagate
// through combinators unchanged.
package node

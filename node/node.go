// Copyright 2026 The declnet authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package node

import (
	"github.com/declnet-ml/declnet/internal/linalg"
	"github.com/declnet-ml/declnet/internal/node"
)

// Node is the capability contract shared by all processing nodes.
type Node = node.Node

// Context is the opaque per-call token threaded from Solve into Gradient.
type Context = node.Context

// Matrix is the dense row-major Jacobian type returned by Gradient.
type Matrix = linalg.Matrix

// Error values reported by nodes; match with errors.Is.
var (
	ErrDimension       = node.ErrDimension
	ErrShape           = node.ErrShape
	ErrNotConverged    = node.ErrNotConverged
	ErrContextMismatch = node.ErrContextMismatch
)

// Leaf nodes

// Select extracts a contiguous sub-range of the input vector.
type Select = node.Select

// NewSelect creates a node selecting x[start..end] inclusive.
//
// Example:
//
//	sel, err := node.NewSelect(20, 0, 9)  // first half of a 20-vector
func NewSelect(inputSize, start, end int) (*Select, error) {
	return node.NewSelect(inputSize, start, end)
}

// Affine computes y = A·x + b.
type Affine = node.Affine

// NewAffine creates an affine node from the given matrix and offset
// (nil offset means zero).
func NewAffine(a *Matrix, b []float64) (*Affine, error) {
	return node.NewAffine(a, b)
}

// SquaredError computes the scalar 0.5·‖x‖².
type SquaredError = node.SquaredError

// NewSquaredError creates a squared-error node of size inputSize→1.
func NewSquaredError(inputSize int) (*SquaredError, error) {
	return node.NewSquaredError(inputSize)
}

// Diff computes the scalar difference x[i] − x[j].
type Diff = node.Diff

// NewDiff creates a difference node of size inputSize→1.
func NewDiff(inputSize, i, j int) (*Diff, error) {
	return node.NewDiff(inputSize, i, j)
}

// Combinators

// Sequential is the function composition outer ∘ inner.
type Sequential = node.Sequential

// SequentialContext bundles the per-call state of a Sequential's children.
type SequentialContext = node.SequentialContext

// NewSequential creates the composition outer ∘ inner.
//
// Example:
//
//	loss, _ := node.NewSquaredError(1)
//	diff, _ := node.NewDiff(2, 0, 1)
//	n, err := node.NewSequential(loss, diff)  // 0.5·(x₀ − x₁)²
func NewSequential(outer, inner Node) (*Sequential, error) {
	return node.NewSequential(outer, inner)
}

// Parallel evaluates two nodes on the same input and concatenates their
// outputs.
type Parallel = node.Parallel

// ParallelContext bundles the per-call state of a Parallel's children.
type ParallelContext = node.ParallelContext

// NewParallel creates the concatenation (first(x), second(x)).
func NewParallel(first, second Node) (*Parallel, error) {
	return node.NewParallel(first, second)
}

// NewMatrix creates a zero-filled rows×cols Jacobian matrix.
func NewMatrix(rows, cols int) *Matrix {
	return linalg.NewMatrix(rows, cols)
}

// MatrixFromRows builds a matrix from explicit row slices.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	return linalg.FromRows(rows)
}

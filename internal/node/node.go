// Package node implements the processing-node abstraction: parametrized
// vector-to-vector functions that report both their value and their Jacobian,
// together with the combinators that compose them.
//
// A node is immutable once constructed. All dimension invariants between
// composed nodes are checked eagerly at construction; Solve and Gradient only
// validate the length of the input vector they are handed.
package node

import (
	"fmt"

	"github.com/declnet-ml/declnet/internal/linalg"
)

// Context carries per-call state from Solve to a paired Gradient call on the
// same input (for example the converged solution of an inner optimization).
// It is opaque to everything but the node that produced it. A nil Context is
// valid for nodes whose derivative needs no solve-time state.
//
// A Context must never be reused across different inputs; nodes validate this
// only where cheaply checkable.
type Context any

// Node is the capability contract shared by all processing nodes.
//
// Implementations must be pure functions of the input and their construction
// parameters: no mutable state, so every node is safe for concurrent use.
type Node interface {
	// InputSize returns the required input vector length n.
	InputSize() int

	// OutputSize returns the produced output vector length m.
	OutputSize() int

	// Solve evaluates the node at x, returning the output vector and an
	// opaque context that a paired Gradient call on the same x may reuse.
	Solve(x []float64) (y []float64, ctx Context, err error)

	// Gradient returns the m×n Jacobian of the node at x.
	//
	// y and ctx may be the results of a prior Solve on the same x; either
	// may be nil, in which case the node recomputes whatever it needs by
	// performing an equivalent solve internally.
	Gradient(x, y []float64, ctx Context) (*linalg.Matrix, error)
}

// checkInput validates the input vector length against the node contract.
func checkInput(op string, want int, x []float64) error {
	if len(x) != want {
		return fmt.Errorf("%s: input length %d, want %d: %w", op, len(x), want, ErrShape)
	}
	return nil
}

package node

import "errors"

// Error values reported by nodes. Callers match them with errors.Is; the
// wrapped message carries the offending sizes.
var (
	// ErrDimension reports an invalid node construction: non-positive sizes
	// or composed children whose sizes do not line up.
	ErrDimension = errors.New("invalid node dimensions")

	// ErrShape reports a Solve or Gradient call whose input vector length
	// does not match the node's InputSize.
	ErrShape = errors.New("input shape mismatch")

	// ErrNotConverged reports that an inner iterative solve failed to reach
	// its tolerance within the iteration cap. A gradient is undefined at a
	// non-converged point and is never extrapolated.
	ErrNotConverged = errors.New("inner solve did not converge")

	// ErrContextMismatch reports a context that detectably does not belong
	// to the given input. Mismatches that are not cheaply checkable are the
	// caller's responsibility.
	ErrContextMismatch = errors.New("context does not match input")
)

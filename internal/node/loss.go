package node

import (
	"fmt"

	"github.com/declnet-ml/declnet/internal/linalg"
)

// SquaredError computes the scalar 0.5·‖x‖².
//
// For a one-dimensional input this is the usual 0.5·z² error term; for larger
// inputs it sums over all components.
type SquaredError struct {
	inputSize int
}

// NewSquaredError creates a squared-error node of size inputSize→1.
func NewSquaredError(inputSize int) (*SquaredError, error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("SquaredError: input size %d: %w", inputSize, ErrDimension)
	}
	return &SquaredError{inputSize: inputSize}, nil
}

// InputSize returns the input vector length.
func (s *SquaredError) InputSize() int { return s.inputSize }

// OutputSize returns 1.
func (s *SquaredError) OutputSize() int { return 1 }

// Solve computes 0.5·Σᵢ xᵢ². The context is always nil.
func (s *SquaredError) Solve(x []float64) ([]float64, Context, error) {
	if err := checkInput("SquaredError.Solve", s.inputSize, x); err != nil {
		return nil, nil, err
	}
	return []float64{0.5 * linalg.Dot(x, x)}, nil, nil
}

// Gradient returns the 1×n row vector x.
func (s *SquaredError) Gradient(x, _ []float64, _ Context) (*linalg.Matrix, error) {
	if err := checkInput("SquaredError.Gradient", s.inputSize, x); err != nil {
		return nil, err
	}
	jac := linalg.NewMatrix(1, s.inputSize)
	copy(jac.Data, x)
	return jac, nil
}

// Diff computes the scalar difference x[i] − x[j] of two input elements.
type Diff struct {
	inputSize int
	i, j      int
}

// NewDiff creates a difference node of size inputSize→1 computing x[i] − x[j].
func NewDiff(inputSize, i, j int) (*Diff, error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("Diff: input size %d: %w", inputSize, ErrDimension)
	}
	if i < 0 || i >= inputSize || j < 0 || j >= inputSize {
		return nil, fmt.Errorf("Diff: indices (%d, %d) outside input of size %d: %w",
			i, j, inputSize, ErrDimension)
	}
	return &Diff{inputSize: inputSize, i: i, j: j}, nil
}

// InputSize returns the input vector length.
func (d *Diff) InputSize() int { return d.inputSize }

// OutputSize returns 1.
func (d *Diff) OutputSize() int { return 1 }

// Solve computes x[i] − x[j]. The context is always nil.
func (d *Diff) Solve(x []float64) ([]float64, Context, error) {
	if err := checkInput("Diff.Solve", d.inputSize, x); err != nil {
		return nil, nil, err
	}
	return []float64{x[d.i] - x[d.j]}, nil, nil
}

// Gradient returns the constant 1×n row with +1 at i and −1 at j.
// When i == j the node is identically zero and so is its gradient.
func (d *Diff) Gradient(x, _ []float64, _ Context) (*linalg.Matrix, error) {
	if err := checkInput("Diff.Gradient", d.inputSize, x); err != nil {
		return nil, err
	}
	jac := linalg.NewMatrix(1, d.inputSize)
	jac.Set(0, d.i, jac.At(0, d.i)+1)
	jac.Set(0, d.j, jac.At(0, d.j)-1)
	return jac, nil
}

package node

import (
	"fmt"

	"github.com/declnet-ml/declnet/internal/linalg"
)

// Affine computes y = A·x + b for a fixed matrix A and offset b.
type Affine struct {
	a *linalg.Matrix
	b []float64
}

// NewAffine creates an affine node from the given matrix and offset.
// A nil offset is treated as zero; otherwise len(b) must equal a.Rows.
func NewAffine(a *linalg.Matrix, b []float64) (*Affine, error) {
	if a == nil || a.Rows <= 0 || a.Cols <= 0 {
		return nil, fmt.Errorf("Affine: matrix required: %w", ErrDimension)
	}
	if b != nil && len(b) != a.Rows {
		return nil, fmt.Errorf("Affine: offset length %d, want %d: %w", len(b), a.Rows, ErrDimension)
	}
	if b == nil {
		b = make([]float64, a.Rows)
	}
	return &Affine{a: a.Clone(), b: linalg.CloneVec(b)}, nil
}

// InputSize returns the column count of A.
func (a *Affine) InputSize() int { return a.a.Cols }

// OutputSize returns the row count of A.
func (a *Affine) OutputSize() int { return a.a.Rows }

// Solve computes A·x + b. The context is always nil.
func (a *Affine) Solve(x []float64) ([]float64, Context, error) {
	if err := checkInput("Affine.Solve", a.a.Cols, x); err != nil {
		return nil, nil, err
	}
	y := linalg.CloneVec(a.b)
	for i := 0; i < a.a.Rows; i++ {
		y[i] += linalg.Dot(a.a.Row(i), x)
	}
	return y, nil, nil
}

// Gradient returns A, which is the Jacobian everywhere.
func (a *Affine) Gradient(x, _ []float64, _ Context) (*linalg.Matrix, error) {
	if err := checkInput("Affine.Gradient", a.a.Cols, x); err != nil {
		return nil, err
	}
	return a.a.Clone(), nil
}

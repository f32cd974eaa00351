package node

import (
	"fmt"

	"github.com/declnet-ml/declnet/internal/linalg"
)

// Select extracts the contiguous sub-range [start, end] of the input vector.
//
// Its Jacobian is a fixed 0/1 indicator matrix independent of the input, so
// it is built once at construction and cloned per call.
type Select struct {
	inputSize  int
	start, end int
	jacobian   *linalg.Matrix
}

// NewSelect creates a node of size inputSize→(end−start+1) selecting
// x[start..end] inclusive. Requires 0 <= start <= end < inputSize.
func NewSelect(inputSize, start, end int) (*Select, error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("Select: input size %d: %w", inputSize, ErrDimension)
	}
	if start < 0 || start > end || end >= inputSize {
		return nil, fmt.Errorf("Select: range [%d, %d] outside input of size %d: %w",
			start, end, inputSize, ErrDimension)
	}

	jac := linalg.NewMatrix(end-start+1, inputSize)
	for i := 0; i < jac.Rows; i++ {
		jac.Set(i, start+i, 1)
	}

	return &Select{
		inputSize: inputSize,
		start:     start,
		end:       end,
		jacobian:  jac,
	}, nil
}

// InputSize returns the input vector length.
func (s *Select) InputSize() int { return s.inputSize }

// OutputSize returns the selected range length.
func (s *Select) OutputSize() int { return s.end - s.start + 1 }

// Solve copies the selected range out of x. The context is always nil.
func (s *Select) Solve(x []float64) ([]float64, Context, error) {
	if err := checkInput("Select.Solve", s.inputSize, x); err != nil {
		return nil, nil, err
	}
	return linalg.CloneVec(x[s.start : s.end+1]), nil, nil
}

// Gradient returns the precomputed indicator matrix.
func (s *Select) Gradient(x, _ []float64, _ Context) (*linalg.Matrix, error) {
	if err := checkInput("Select.Gradient", s.inputSize, x); err != nil {
		return nil, err
	}
	return s.jacobian.Clone(), nil
}

// Package numdiff estimates Jacobians by finite differences. It exists to
// cross-check analytic and implicit gradients, not for production use: every
// column costs one or two full function evaluations.
package numdiff

import (
	"fmt"
	"math"

	"github.com/declnet-ml/declnet/internal/linalg"
)

// Method selects the finite-difference scheme.
type Method int

const (
	// Forward uses the first-order forward difference (f(x+h) − f(x)) / h.
	Forward Method = iota
	// Central uses the second-order central difference (f(x+h) − f(x−h)) / 2h.
	Central
)

var (
	sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
	cubeEps = math.Cbrt(math.Nextafter(1, 2) - 1)
)

// Func is the mapping to differentiate. It must return a vector of fixed
// length m for every input of length n.
type Func func(x []float64) ([]float64, error)

// Spec configures a finite-difference Jacobian estimate. The zero value
// selects the central method with an automatic step.
type Spec struct {
	Method Method
	// RelStep scales the per-coordinate step h = RelStep·max(1, |xᵢ|).
	// Zero selects √ε for Forward and ∛ε for Central.
	RelStep float64
}

func (s Spec) step(xi float64) float64 {
	rel := s.RelStep
	if rel == 0 {
		if s.Method == Central {
			rel = cubeEps
		} else {
			rel = sqrtEps
		}
	}
	return rel * math.Max(1, math.Abs(xi))
}

// Jacobian estimates the m×n Jacobian of f at x, where m is the output
// length of f. Errors from f propagate unchanged.
func Jacobian(f Func, x []float64, spec Spec) (*linalg.Matrix, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("numdiff: empty input")
	}

	f0, err := f(x)
	if err != nil {
		return nil, err
	}
	if len(f0) == 0 {
		return nil, fmt.Errorf("numdiff: function returned empty output")
	}

	jac := linalg.NewMatrix(len(f0), len(x))
	xp := linalg.CloneVec(x)
	for j := range x {
		h := spec.step(x[j])

		xp[j] = x[j] + h
		fPlus, err := f(xp)
		if err != nil {
			return nil, err
		}

		var fMinus []float64
		denom := h
		if spec.Method == Central {
			xp[j] = x[j] - h
			if fMinus, err = f(xp); err != nil {
				return nil, err
			}
			denom = 2 * h
		} else {
			fMinus = f0
		}
		xp[j] = x[j]

		if len(fPlus) != len(f0) || len(fMinus) != len(f0) {
			return nil, fmt.Errorf("numdiff: output length changed between evaluations")
		}
		for i := range f0 {
			jac.Set(i, j, (fPlus[i]-fMinus[i])/denom)
		}
	}
	return jac, nil
}

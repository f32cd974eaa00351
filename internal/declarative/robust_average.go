package declarative

import (
	"fmt"

	"github.com/declnet-ml/declnet/internal/linalg"
	"github.com/declnet-ml/declnet/internal/node"
)

// RobustAverage is a declarative node computing the robust location estimate
//
//	y = argmin_u Σᵢ ρ(u − xᵢ)
//
// of the input elements. Solve runs a bounded inner Newton iteration on the
// stationarity condition; Gradient applies the implicit function theorem at
// the converged optimum (see the package comment), so its cost is one pass
// over the input regardless of how many inner iterations Solve needed.
//
// With the quadratic penalty the node is exactly the arithmetic mean and its
// gradient is the uniform vector [1/n, ..., 1/n].
type RobustAverage struct {
	size    int
	penalty Penalty
	term    Termination
}

// AverageContext carries the inner solve result from Solve into Gradient.
type AverageContext struct {
	Info SolveInfo
}

// NewRobustAverage creates a robust-average node of size size→1.
// A zero-valued Termination selects the solver defaults.
func NewRobustAverage(size int, penalty Penalty, term Termination) (*RobustAverage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("RobustAverage: input size %d: %w", size, node.ErrDimension)
	}
	if penalty == nil {
		return nil, fmt.Errorf("RobustAverage: penalty required: %w", node.ErrDimension)
	}
	return &RobustAverage{size: size, penalty: penalty, term: term.withDefaults()}, nil
}

// InputSize returns the input vector length.
func (r *RobustAverage) InputSize() int { return r.size }

// OutputSize returns 1.
func (r *RobustAverage) OutputSize() int { return 1 }

// Solve runs the inner minimization and returns the robust average together
// with an AverageContext holding the solve diagnostics. A non-converged
// inner solve is an error, never a silently returned estimate.
func (r *RobustAverage) Solve(x []float64) ([]float64, node.Context, error) {
	if err := r.checkInput("RobustAverage.Solve", x); err != nil {
		return nil, nil, err
	}
	info, err := solveStationary(r.penalty, x, r.term)
	if err != nil {
		return nil, nil, err
	}
	return []float64{info.Solution}, &AverageContext{Info: info}, nil
}

// Gradient computes the 1×n Jacobian by implicit differentiation:
//
//	dy/dxᵢ = ρ''(y − xᵢ) / Σⱼ ρ''(y − xⱼ)
//
// The optimum is taken from ctx (or y) when supplied, otherwise a fresh
// inner solve is performed. A context from a non-converged solve, or a total
// curvature of zero at the optimum, makes the gradient undefined.
func (r *RobustAverage) Gradient(x, y []float64, ctx node.Context) (*linalg.Matrix, error) {
	if err := r.checkInput("RobustAverage.Gradient", x); err != nil {
		return nil, err
	}

	u, err := r.optimumFor(x, y, ctx)
	if err != nil {
		return nil, err
	}

	jac := linalg.NewMatrix(1, r.size)
	var total float64
	for i, xi := range x {
		w := r.penalty.Hess(u - xi)
		jac.Data[i] = w
		total += w
	}
	if total < minimumHess {
		return nil, fmt.Errorf("RobustAverage.Gradient: zero total curvature at optimum u=%g: %w",
			u, node.ErrNotConverged)
	}
	for i := range jac.Data {
		jac.Data[i] /= total
	}
	return jac, nil
}

// optimumFor resolves the stationary point to differentiate at, preferring
// supplied state over a recomputation.
func (r *RobustAverage) optimumFor(x, y []float64, ctx node.Context) (float64, error) {
	if ctx != nil {
		ac, ok := ctx.(*AverageContext)
		if !ok {
			return 0, fmt.Errorf("RobustAverage.Gradient: %w", node.ErrContextMismatch)
		}
		if !ac.Info.Converged {
			return 0, fmt.Errorf("RobustAverage.Gradient: context from non-converged solve: %w",
				node.ErrNotConverged)
		}
		return ac.Info.Solution, nil
	}
	if y != nil {
		if len(y) != 1 {
			return 0, fmt.Errorf("RobustAverage.Gradient: y length %d, want 1: %w",
				len(y), node.ErrContextMismatch)
		}
		return y[0], nil
	}
	info, err := solveStationary(r.penalty, x, r.term)
	if err != nil {
		return 0, err
	}
	return info.Solution, nil
}

func (r *RobustAverage) checkInput(op string, x []float64) error {
	if len(x) != r.size {
		return fmt.Errorf("%s: input length %d, want %d: %w", op, len(x), r.size, node.ErrShape)
	}
	return nil
}

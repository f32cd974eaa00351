package declarative

import (
	"fmt"
	"math"
	"sort"

	"github.com/declnet-ml/declnet/internal/node"
)

// Termination specifies the stopping criteria for the inner Newton solve.
// The zero value selects the defaults.
type Termination struct {
	// MaxIterations caps the Newton iterations (default: 100).
	MaxIterations int
	// Tolerance is the bound on |F(u)| = |Σᵢ ρ'(u − xᵢ)| at which the
	// stationarity condition counts as satisfied (default: 1e-10).
	Tolerance float64
}

func (t Termination) withDefaults() Termination {
	if t.MaxIterations <= 0 {
		t.MaxIterations = 100
	}
	if t.Tolerance <= 0 {
		t.Tolerance = 1e-10
	}
	return t
}

// SolveInfo carries the result and diagnostics of an inner solve.
type SolveInfo struct {
	Solution   float64 // Converged stationary point u*.
	Iterations int     // Newton iterations used.
	Residual   float64 // |F(u*)| at termination.
	Converged  bool    // Whether Residual <= Tolerance was reached.
}

// minimumHess is the curvature below which a Newton step (and the implicit
// gradient) is considered undefined.
const minimumHess = 1e-300

// solveStationary finds a root of F(u) = Σᵢ ρ'(u − xᵢ) by guarded Newton
// iteration started from the median of x. The median start matters for
// redescending penalties: starting from the mean can park the iteration in
// the flat region created by a gross outlier, where F already vanishes.
//
// Each Newton step is halved while it fails to reduce |F|, which keeps the
// iteration stable on non-convex penalties such as Welsch. The iteration
// stops at the tolerance or the cap; hitting the cap is reported as
// non-convergence, never as a usable solution.
func solveStationary(p Penalty, x []float64, term Termination) (SolveInfo, error) {
	term = term.withDefaults()
	u := median(x)

	residual := func(u float64) float64 {
		var f float64
		for _, xi := range x {
			f += p.Grad(u - xi)
		}
		return f
	}

	f := residual(u)
	info := SolveInfo{Solution: u, Residual: math.Abs(f)}
	if math.IsNaN(info.Residual) {
		return info, fmt.Errorf("robust average: non-finite objective at start point u=%g: %w",
			u, node.ErrNotConverged)
	}

	for info.Residual > term.Tolerance {
		if info.Iterations >= term.MaxIterations {
			return info, fmt.Errorf("robust average: residual %.3e after %d iterations (tolerance %.3e): %w",
				info.Residual, info.Iterations, term.Tolerance, node.ErrNotConverged)
		}

		var h float64
		for _, xi := range x {
			h += p.Hess(u - xi)
		}
		if math.Abs(h) < minimumHess || math.IsNaN(h) {
			return info, fmt.Errorf("robust average: vanishing curvature at u=%g: %w",
				u, node.ErrNotConverged)
		}

		step := f / h
		next := u - step
		fNext := residual(next)

		// Halve the step while it makes things worse.
		for halvings := 0; math.Abs(fNext) > math.Abs(f) && halvings < 30; halvings++ {
			step *= 0.5
			next = u - step
			fNext = residual(next)
		}

		u, f = next, fNext
		info.Iterations++
		info.Solution = u
		info.Residual = math.Abs(f)
		if math.IsNaN(info.Residual) {
			return info, fmt.Errorf("robust average: iteration diverged: %w", node.ErrNotConverged)
		}
	}

	info.Converged = true
	return info, nil
}

func median(x []float64) float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return 0.5 * (s[mid-1] + s[mid])
	}
	return s[mid]
}

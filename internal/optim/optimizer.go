// Package optim implements the outer optimization driver: gradient-based
// minimization of a scalar-output node over its input vector.
//
// The driver treats the node as a stateless black box exposing the
// value/gradient pair; it is the only component that loops over repeated
// Solve/Gradient calls.
package optim

import (
	"fmt"
	"io"

	"github.com/declnet-ml/declnet/internal/linalg"
	"github.com/declnet-ml/declnet/internal/node"
)

// Termination specifies the stopping criteria for the outer iteration.
// The zero value selects the defaults.
type Termination struct {
	// MaxIterations caps the descent iterations (default: 1000).
	MaxIterations int
	// GradTolerance stops the iteration once ‖g‖∞ falls below it
	// (default: 1e-8).
	GradTolerance float64
}

func (t Termination) withDefaults() Termination {
	if t.MaxIterations <= 0 {
		t.MaxIterations = 1000
	}
	if t.GradTolerance <= 0 {
		t.GradTolerance = 1e-8
	}
	return t
}

// Config holds the gradient-descent settings.
type Config struct {
	LR       float64 // Learning rate (default: 0.01).
	Momentum float64 // Momentum factor (default: 0, range [0, 1)).
	Stop     Termination
}

// Logger writes per-iteration progress. A nil Logger, or a non-positive
// Every, disables output.
type Logger struct {
	Every int       // Log every Every-th iteration.
	Out   io.Writer // Destination for progress lines.
}

func (l *Logger) log(iter int, value, gradNorm float64) {
	if l == nil || l.Every <= 0 || l.Out == nil || iter%l.Every != 0 {
		return
	}
	fmt.Fprintf(l.Out, "iter %6d  f = %.8e  |g| = %.3e\n", iter, value, gradNorm)
}

// Result reports the outcome of a minimization.
type Result struct {
	X          []float64 // Final iterate.
	Value      float64   // Objective value at X.
	GradNorm   float64   // ‖g(X)‖∞.
	Iterations int       // Descent steps taken.
	Converged  bool      // Whether GradTolerance was reached.
}

// GradientDescent minimizes a scalar-output node by steepest descent with
// optional momentum:
//
//	velocity = momentum·velocity + g
//	x = x − lr·velocity
type GradientDescent struct {
	config Config
	logger *Logger
}

// NewGradientDescent creates a driver with the given configuration.
func NewGradientDescent(config Config) *GradientDescent {
	if config.LR == 0 {
		config.LR = 0.01
	}
	config.Stop = config.Stop.withDefaults()
	return &GradientDescent{config: config}
}

// SetLogger attaches a progress logger. Must be called before Minimize.
func (g *GradientDescent) SetLogger(logger *Logger) {
	g.logger = logger
}

// Minimize runs the descent from x0 and returns the final iterate. The
// objective must have output size 1. Hitting the iteration cap is not an
// error; the Result reports Converged=false. Node failures (shape errors,
// inner solver divergence) abort the run and propagate unchanged.
func (g *GradientDescent) Minimize(objective node.Node, x0 []float64) (*Result, error) {
	if objective == nil {
		return nil, fmt.Errorf("optim: objective required: %w", node.ErrDimension)
	}
	if objective.OutputSize() != 1 {
		return nil, fmt.Errorf("optim: objective output size %d, want 1: %w",
			objective.OutputSize(), node.ErrDimension)
	}
	if len(x0) != objective.InputSize() {
		return nil, fmt.Errorf("optim: x0 length %d, want %d: %w",
			len(x0), objective.InputSize(), node.ErrShape)
	}

	x := linalg.CloneVec(x0)
	velocity := make([]float64, len(x))
	result := &Result{}

	for {
		y, ctx, err := objective.Solve(x)
		if err != nil {
			return nil, err
		}
		jac, err := objective.Gradient(x, y, ctx)
		if err != nil {
			return nil, err
		}
		grad := jac.Row(0)

		result.X = linalg.CloneVec(x)
		result.Value = y[0]
		result.GradNorm = linalg.NormInf(grad)
		g.logger.log(result.Iterations, result.Value, result.GradNorm)

		if result.GradNorm <= g.config.Stop.GradTolerance {
			result.Converged = true
			return result, nil
		}
		if result.Iterations >= g.config.Stop.MaxIterations {
			return result, nil
		}

		for i := range velocity {
			velocity[i] = g.config.Momentum*velocity[i] + grad[i]
		}
		linalg.Axpy(-g.config.LR, velocity, x)
		result.Iterations++
	}
}

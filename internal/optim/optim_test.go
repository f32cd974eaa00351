package optim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/declnet-ml/declnet/internal/linalg"
	"github.com/declnet-ml/declnet/internal/node"
	"github.com/declnet-ml/declnet/internal/optim"
)

// quadraticBowl builds the objective 0.5·‖x − target‖² as
// SquaredError ∘ Affine(I, −target).
func quadraticBowl(t *testing.T, target []float64) node.Node {
	t.Helper()

	n := len(target)
	eye := linalg.NewMatrix(n, n)
	offset := make([]float64, n)
	for i := 0; i < n; i++ {
		eye.Set(i, i, 1)
		offset[i] = -target[i]
	}
	shift, err := node.NewAffine(eye, offset)
	if err != nil {
		t.Fatalf("NewAffine failed: %v", err)
	}
	loss, err := node.NewSquaredError(n)
	if err != nil {
		t.Fatalf("NewSquaredError failed: %v", err)
	}
	objective, err := node.NewSequential(loss, shift)
	if err != nil {
		t.Fatalf("NewSequential failed: %v", err)
	}
	return objective
}

func TestGradientDescentConverges(t *testing.T) {
	target := []float64{1, -2, 3}
	objective := quadraticBowl(t, target)

	driver := optim.NewGradientDescent(optim.Config{
		LR:   0.5,
		Stop: optim.Termination{MaxIterations: 1000, GradTolerance: 1e-10},
	})

	result, err := driver.Minimize(objective, []float64{10, 10, 10})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if !result.Converged {
		t.Fatalf("Expected convergence, got %+v", result)
	}
	for i, want := range target {
		if math.Abs(result.X[i]-want) > 1e-8 {
			t.Errorf("X[%d] = %g, want %g", i, result.X[i], want)
		}
	}
	if result.Value > 1e-15 {
		t.Errorf("Final value %g, want ~0", result.Value)
	}
}

func TestGradientDescentMomentum(t *testing.T) {
	target := []float64{-1, 4}
	objective := quadraticBowl(t, target)

	driver := optim.NewGradientDescent(optim.Config{
		LR:       0.1,
		Momentum: 0.5,
		Stop:     optim.Termination{MaxIterations: 5000, GradTolerance: 1e-10},
	})

	result, err := driver.Minimize(objective, []float64{5, -5})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if !result.Converged {
		t.Fatalf("Expected convergence, got %+v", result)
	}
	for i, want := range target {
		if math.Abs(result.X[i]-want) > 1e-8 {
			t.Errorf("X[%d] = %g, want %g", i, result.X[i], want)
		}
	}
}

func TestIterationCapIsNotAnError(t *testing.T) {
	objective := quadraticBowl(t, []float64{0})

	driver := optim.NewGradientDescent(optim.Config{
		LR:   1e-4,
		Stop: optim.Termination{MaxIterations: 3, GradTolerance: 1e-12},
	})

	result, err := driver.Minimize(objective, []float64{100})
	if err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if result.Converged {
		t.Error("Expected Converged=false at the iteration cap")
	}
	if result.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", result.Iterations)
	}
}

func TestMinimizeValidation(t *testing.T) {
	objective := quadraticBowl(t, []float64{0, 0})

	driver := optim.NewGradientDescent(optim.Config{})

	// Wrong x0 length.
	if _, err := driver.Minimize(objective, []float64{1}); !errors.Is(err, node.ErrShape) {
		t.Errorf("Expected ErrShape, got %v", err)
	}

	// Non-scalar objective.
	sel, err := node.NewSelect(4, 0, 1)
	if err != nil {
		t.Fatalf("NewSelect failed: %v", err)
	}
	if _, err := driver.Minimize(sel, []float64{1, 2, 3, 4}); !errors.Is(err, node.ErrDimension) {
		t.Errorf("Expected ErrDimension, got %v", err)
	}
}

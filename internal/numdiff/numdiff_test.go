package numdiff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJacobianQuadratic(t *testing.T) {
	// f(x) = (x₀², x₀·x₁), J = [[2x₀, 0], [x₁, x₀]].
	f := func(x []float64) ([]float64, error) {
		return []float64{x[0] * x[0], x[0] * x[1]}, nil
	}
	x := []float64{1.5, -2.0}

	for _, spec := range []Spec{
		{Method: Forward},
		{Method: Central},
	} {
		jac, err := Jacobian(f, x, spec)
		require.NoError(t, err)
		require.Equal(t, 2, jac.Rows)
		require.Equal(t, 2, jac.Cols)

		tol := 1e-5
		if spec.Method == Central {
			tol = 1e-8
		}
		assert.InDelta(t, 3.0, jac.At(0, 0), tol)
		assert.InDelta(t, 0.0, jac.At(0, 1), tol)
		assert.InDelta(t, -2.0, jac.At(1, 0), tol)
		assert.InDelta(t, 1.5, jac.At(1, 1), tol)
	}
}

func TestJacobianPropagatesErrors(t *testing.T) {
	sentinel := errors.New("eval failed")
	f := func([]float64) ([]float64, error) { return nil, sentinel }

	_, err := Jacobian(f, []float64{1}, Spec{})
	assert.ErrorIs(t, err, sentinel)
}

func TestJacobianExplicitStep(t *testing.T) {
	f := func(x []float64) ([]float64, error) {
		return []float64{3 * x[0]}, nil
	}
	jac, err := Jacobian(f, []float64{100}, Spec{Method: Central, RelStep: 1e-7})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, jac.At(0, 0), 1e-6)
}

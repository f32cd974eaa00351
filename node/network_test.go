// Copyright 2026 The declnet authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package node_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declnet-ml/declnet/declarative"
	"github.com/declnet-ml/declnet/internal/numdiff"
	"github.com/declnet-ml/declnet/node"
	"github.com/declnet-ml/declnet/optim"
)

// buildTwoPoolNetwork assembles the three-level composition
//
//	network(x) = 0.5·(avg(x[:n]) − avg(x[n:]))²
//
// over a 2n-vector, with the given robust penalty inside both averages.
func buildTwoPoolNetwork(t *testing.T, n int, penalty declarative.Penalty) node.Node {
	t.Helper()
	term := declarative.Termination{MaxIterations: 200, Tolerance: 1e-12}

	avgUpper, err := declarative.NewRobustAverage(n, penalty, term)
	require.NoError(t, err)
	avgLower, err := declarative.NewRobustAverage(n, penalty, term)
	require.NoError(t, err)
	selUpper, err := node.NewSelect(2*n, 0, n-1)
	require.NoError(t, err)
	selLower, err := node.NewSelect(2*n, n, 2*n-1)
	require.NoError(t, err)

	upper, err := node.NewSequential(avgUpper, selUpper)
	require.NoError(t, err)
	lower, err := node.NewSequential(avgLower, selLower)
	require.NoError(t, err)
	pools, err := node.NewParallel(upper, lower)
	require.NoError(t, err)

	diff, err := node.NewDiff(2, 0, 1)
	require.NoError(t, err)
	gap, err := node.NewSequential(diff, pools)
	require.NoError(t, err)
	loss, err := node.NewSquaredError(1)
	require.NoError(t, err)
	network, err := node.NewSequential(loss, gap)
	require.NoError(t, err)

	require.Equal(t, 2*n, network.InputSize())
	require.Equal(t, 1, network.OutputSize())
	return network
}

func mean(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

func TestTwoPoolNetworkQuadraticValue(t *testing.T) {
	n := 10
	network := buildTwoPoolNetwork(t, n, declarative.NewQuadratic())

	rng := rand.New(rand.NewSource(20))
	for trial := 0; trial < 5; trial++ {
		x := make([]float64, 2*n)
		for i := range x {
			x[i] = 5 * rng.NormFloat64()
		}

		y, _, err := network.Solve(x)
		require.NoError(t, err)

		gap := mean(x[:n]) - mean(x[n:])
		assert.InDelta(t, 0.5*gap*gap, y[0], 1e-10)
	}
}

func TestTwoPoolNetworkGradient(t *testing.T) {
	n := 5
	for _, tc := range []struct {
		name    string
		penalty declarative.Penalty
	}{
		{"quadratic", declarative.NewQuadratic()},
		{"pseudo-huber", declarative.NewPseudoHuber(1)},
		{"welsch", declarative.NewWelsch(2)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			network := buildTwoPoolNetwork(t, n, tc.penalty)

			rng := rand.New(rand.NewSource(21))
			x := make([]float64, 2*n)
			for i := range x {
				x[i] = rng.NormFloat64()
			}

			y, ctx, err := network.Solve(x)
			require.NoError(t, err)
			jac, err := network.Gradient(x, y, ctx)
			require.NoError(t, err)
			require.Equal(t, 1, jac.Rows)
			require.Equal(t, 2*n, jac.Cols)

			fd, err := numdiff.Jacobian(func(x []float64) ([]float64, error) {
				y, _, err := network.Solve(x)
				return y, err
			}, x, numdiff.Spec{Method: numdiff.Central})
			require.NoError(t, err)

			for i := range jac.Data {
				assert.InDelta(t, fd.Data[i], jac.Data[i], 1e-5)
			}
		})
	}
}

func TestMinimizationClosesTheGap(t *testing.T) {
	n := 10
	network := buildTwoPoolNetwork(t, n, declarative.NewQuadratic())

	rng := rand.New(rand.NewSource(22))
	x0 := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		x0[i] = 3 + rng.NormFloat64()
		x0[n+i] = -3 + rng.NormFloat64()
	}

	driver := optim.NewGradientDescent(optim.Config{
		LR:   1.0,
		Stop: optim.Termination{MaxIterations: 5000, GradTolerance: 1e-10},
	})

	result, err := driver.Minimize(network, x0)
	require.NoError(t, err)
	require.True(t, result.Converged, "descent did not converge: %+v", result)

	gap := mean(result.X[:n]) - mean(result.X[n:])
	assert.InDelta(t, 0, gap, 1e-6)
	assert.Less(t, result.Value, 1e-12)
}

func TestNetworkValueAndGradientAgreeWithContextReuse(t *testing.T) {
	n := 4
	network := buildTwoPoolNetwork(t, n, declarative.NewPseudoHuber(1))

	x := []float64{0.1, 1.2, -0.7, 0.4, 2.0, -1.1, 0.6, 0.9}
	y, ctx, err := network.Solve(x)
	require.NoError(t, err)

	withCtx, err := network.Gradient(x, y, ctx)
	require.NoError(t, err)
	fresh, err := network.Gradient(x, nil, nil)
	require.NoError(t, err)

	for i := range withCtx.Data {
		assert.InDelta(t, fresh.Data[i], withCtx.Data[i], 1e-10)
	}
}

func TestHugeOutlierRobustness(t *testing.T) {
	// A Welsch average must shrug off a gross outlier that drags the mean.
	n := 6
	term := declarative.Termination{MaxIterations: 500, Tolerance: 1e-12}
	avg, err := declarative.NewRobustAverage(n, declarative.NewWelsch(1), term)
	require.NoError(t, err)

	x := []float64{1.0, 1.1, 0.9, 1.05, 0.95, 500}
	y, _, err := avg.Solve(x)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, y[0], 0.1)

	// The outlier's weight in the implicit gradient is effectively zero.
	jac, err := avg.Gradient(x, y, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, jac.At(0, n-1), 1e-12)
}

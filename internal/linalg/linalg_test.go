package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatMul(t *testing.T) {
	a, err := FromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)
	b, err := FromRows([][]float64{
		{7, 8},
		{9, 10},
		{11, 12},
	})
	require.NoError(t, err)

	c, err := MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Rows)
	assert.Equal(t, 2, c.Cols)
	assert.Equal(t, []float64{58, 64, 139, 154}, c.Data)
}

func TestMatMulDimensionMismatch(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(2, 3)
	_, err := MatMul(a, b)
	assert.Error(t, err)
}

func TestVStack(t *testing.T) {
	a, err := FromRows([][]float64{{1, 2}})
	require.NoError(t, err)
	b, err := FromRows([][]float64{{3, 4}, {5, 6}})
	require.NoError(t, err)

	c, err := VStack(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Rows)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, c.Data)

	_, err = VStack(a, NewMatrix(1, 3))
	assert.Error(t, err)
}

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, 32.0, Dot([]float64{1, 2, 3}, []float64{4, 5, 6}))
	assert.Equal(t, 5.0, Norm2([]float64{3, 4}))
	assert.Equal(t, 4.0, NormInf([]float64{3, -4, 2}))

	y := []float64{1, 1}
	Axpy(2, []float64{3, -1}, y)
	assert.Equal(t, []float64{7, -1}, y)
}

func TestCloneIndependence(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Set(0, 0, 1)
	c := m.Clone()
	c.Set(0, 0, 9)
	assert.Equal(t, 1.0, m.At(0, 0))

	v := []float64{1, 2}
	w := CloneVec(v)
	w[0] = 9
	assert.Equal(t, 1.0, v[0])
}

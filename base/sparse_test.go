// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSparseMatrix(t *testing.T) {
	m, err := NewSparseMatrix(
		[]int32{0, 1, 2},
		[]int32{1, 0, 2},
		[]float64{5, 4, 3},
		3, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3, m.NNZ())
	i, j, v := m.Get(1)
	assert.Equal(t, int32(1), i)
	assert.Equal(t, int32(0), j)
	assert.Equal(t, 4.0, v)
}

func TestNewSparseMatrix_OutOfRange(t *testing.T) {
	_, err := NewSparseMatrix([]int32{3}, []int32{0}, []float64{1}, 3, 3)
	assert.ErrorIs(t, errors.Cause(err), ErrIndexOutOfRange)
	_, err = NewSparseMatrix([]int32{0}, []int32{3}, []float64{1}, 3, 3)
	assert.ErrorIs(t, errors.Cause(err), ErrIndexOutOfRange)
	_, err = NewSparseMatrix([]int32{-1}, []int32{0}, []float64{1}, 3, 3)
	assert.ErrorIs(t, errors.Cause(err), ErrIndexOutOfRange)
	// triple lengths must match
	_, err = NewSparseMatrix([]int32{0, 1}, []int32{0}, []float64{1}, 3, 3)
	assert.Error(t, err)
}

func TestNewSparseMatrix_Duplicate(t *testing.T) {
	// a duplicate pair overwrites the earlier value
	m, err := NewSparseMatrix(
		[]int32{0, 0, 1},
		[]int32{1, 1, 0},
		[]float64{5, 2, 4},
		2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NNZ())
	_, _, v := m.Get(0)
	assert.Equal(t, 2.0, v)
}

func TestSparseMatrix_Sub(t *testing.T) {
	a, err := NewSparseMatrix([]int32{0, 1}, []int32{0, 1}, []float64{5, 3}, 2, 2)
	require.NoError(t, err)
	b, err := NewSparseMatrix([]int32{0, 1}, []int32{0, 1}, []float64{1, 1}, 2, 2)
	require.NoError(t, err)
	residual, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, 2, residual.NNZ())
	_, _, v := residual.Get(0)
	assert.Equal(t, 4.0, v)
	_, _, v = residual.Get(1)
	assert.Equal(t, 2.0, v)

	// pattern mismatch
	c, err := NewSparseMatrix([]int32{0, 1}, []int32{1, 0}, []float64{1, 1}, 2, 2)
	require.NoError(t, err)
	_, err = a.Sub(c)
	assert.ErrorIs(t, errors.Cause(err), ErrPatternMismatch)
	d, err := NewSparseMatrix([]int32{0}, []int32{0}, []float64{1}, 2, 2)
	require.NoError(t, err)
	_, err = a.Sub(d)
	assert.ErrorIs(t, errors.Cause(err), ErrPatternMismatch)
}

func TestSparseMatrix_MulDense(t *testing.T) {
	// | 0 2 |   | 1 2 |   | 6 8 |
	// | 3 0 | * | 3 4 | = | 3 6 |
	m, err := NewSparseMatrix([]int32{0, 1}, []int32{1, 0}, []float64{2, 3}, 2, 2)
	require.NoError(t, err)
	dense := [][]float64{{1, 2}, {3, 4}}
	assert.Equal(t, [][]float64{{6, 8}, {3, 6}}, m.MulDense(dense))
	// | 0 3 |   | 1 2 |   | 9 12 |
	// | 2 0 | * | 3 4 | = | 2 4  |
	assert.Equal(t, [][]float64{{9, 12}, {2, 4}}, m.TransposeMulDense(dense))
}

func TestSparseMatrix_MulDense_ZeroRows(t *testing.T) {
	// rows and columns without observed entries yield zero rows
	m, err := NewSparseMatrix([]int32{0}, []int32{0}, []float64{2}, 3, 3)
	require.NoError(t, err)
	dense := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	assert.Equal(t, [][]float64{{2, 2}, {0, 0}, {0, 0}}, m.MulDense(dense))
	assert.Equal(t, [][]float64{{2, 2}, {0, 0}, {0, 0}}, m.TransposeMulDense(dense))
}

func TestSparseMatrix_SumSquares(t *testing.T) {
	m, err := NewSparseMatrix([]int32{0, 1}, []int32{0, 1}, []float64{4, 2}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, m.SumSquares())
	count := 0
	m.ForEach(func(i, j int32, value float64) {
		count++
	})
	assert.Equal(t, 2, count)
}

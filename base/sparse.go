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
	"github.com/juju/errors"
)

var (
	// ErrIndexOutOfRange is returned when a triple refers to a row or column
	// outside the declared matrix bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrPatternMismatch is returned by elementwise operations between two
	// sparse matrices whose nonzero patterns differ.
	ErrPatternMismatch = errors.New("sparse patterns mismatch")
)

// SparseMatrix stores the observed entries of a rows×cols matrix in
// coordinate form. Only observed entries exist, memory is proportional to
// the number of nonzeros. Entries keep the insertion order of the source
// triples, which makes matrices built from the same table pattern-aligned.
type SparseMatrix struct {
	rows, cols int
	rowIndices []int32
	colIndices []int32
	values     []float64
}

// NewSparseMatrix builds a sparse matrix from (row, col, value) triples with
// explicit bounds. A triple whose index falls outside the bounds fails the
// whole build with ErrIndexOutOfRange. A duplicate (row, col) pair silently
// overwrites the earlier value.
func NewSparseMatrix(rowIndices, colIndices []int32, values []float64, rows, cols int) (*SparseMatrix, error) {
	if len(rowIndices) != len(values) || len(colIndices) != len(values) {
		return nil, errors.Errorf("triple lengths mismatch: %d rows, %d cols, %d values",
			len(rowIndices), len(colIndices), len(values))
	}
	m := &SparseMatrix{
		rows:       rows,
		cols:       cols,
		rowIndices: make([]int32, 0, len(values)),
		colIndices: make([]int32, 0, len(values)),
		values:     make([]float64, 0, len(values)),
	}
	positions := make(map[[2]int32]int, len(values))
	for r := range values {
		i, j := rowIndices[r], colIndices[r]
		if i < 0 || int(i) >= rows {
			return nil, errors.Annotatef(ErrIndexOutOfRange, "row %d with bound %d", i, rows)
		}
		if j < 0 || int(j) >= cols {
			return nil, errors.Annotatef(ErrIndexOutOfRange, "column %d with bound %d", j, cols)
		}
		if pos, exist := positions[[2]int32{i, j}]; exist {
			m.values[pos] = values[r]
			continue
		}
		positions[[2]int32{i, j}] = len(m.values)
		m.rowIndices = append(m.rowIndices, i)
		m.colIndices = append(m.colIndices, j)
		m.values = append(m.values, values[r])
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *SparseMatrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *SparseMatrix) Cols() int {
	return m.cols
}

// NNZ returns the number of observed entries.
func (m *SparseMatrix) NNZ() int {
	return len(m.values)
}

// Get returns the r-th observed entry.
func (m *SparseMatrix) Get(r int) (i, j int32, value float64) {
	return m.rowIndices[r], m.colIndices[r], m.values[r]
}

// ForEach iterates observed entries.
func (m *SparseMatrix) ForEach(f func(i, j int32, value float64)) {
	for r := range m.values {
		f(m.rowIndices[r], m.colIndices[r], m.values[r])
	}
}

// Sub subtracts another sparse matrix with the identical nonzero pattern:
// ret = m - other. Entries outside the shared pattern don't exist, so the
// difference is only defined when the patterns match entry by entry.
func (m *SparseMatrix) Sub(other *SparseMatrix) (*SparseMatrix, error) {
	if m.rows != other.rows || m.cols != other.cols || len(m.values) != len(other.values) {
		return nil, errors.Trace(ErrPatternMismatch)
	}
	ret := &SparseMatrix{
		rows:       m.rows,
		cols:       m.cols,
		rowIndices: m.rowIndices,
		colIndices: m.colIndices,
		values:     make([]float64, len(m.values)),
	}
	for r := range m.values {
		if m.rowIndices[r] != other.rowIndices[r] || m.colIndices[r] != other.colIndices[r] {
			return nil, errors.Trace(ErrPatternMismatch)
		}
		ret.values[r] = m.values[r] - other.values[r]
	}
	return ret, nil
}

// MulDense multiplies the sparse matrix by a dense matrix: ret = m * dense.
// The dense matrix is indexed by column, so its row count must equal
// m.Cols(). Rows without observed entries yield zero rows.
func (m *SparseMatrix) MulDense(dense [][]float64) [][]float64 {
	ret := NewMatrix(m.rows, denseCols(dense))
	for r := range m.values {
		i, j, v := m.rowIndices[r], m.colIndices[r], m.values[r]
		for k := range dense[j] {
			ret[i][k] += v * dense[j][k]
		}
	}
	return ret
}

// TransposeMulDense multiplies the transposed sparse matrix by a dense
// matrix: ret = m^T * dense. The dense matrix is indexed by row, so its row
// count must equal m.Rows().
func (m *SparseMatrix) TransposeMulDense(dense [][]float64) [][]float64 {
	ret := NewMatrix(m.cols, denseCols(dense))
	for r := range m.values {
		i, j, v := m.rowIndices[r], m.colIndices[r], m.values[r]
		for k := range dense[i] {
			ret[j][k] += v * dense[i][k]
		}
	}
	return ret
}

// SumSquares returns the sum of squared observed entries.
func (m *SparseMatrix) SumSquares() float64 {
	var sum float64
	for _, v := range m.values {
		sum += v * v
	}
	return sum
}

func denseCols(dense [][]float64) int {
	if len(dense) == 0 {
		return 0
	}
	return len(dense[0])
}

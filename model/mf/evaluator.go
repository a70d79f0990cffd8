// Copyright 2021 gorse Project Authors
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

package mf

import (
	"math"

	"github.com/gorse-io/matfact/base"
	"github.com/gorse-io/matfact/common/floats"
	"github.com/gorse-io/matfact/common/parallel"
	"github.com/gorse-io/matfact/dataset"
	"github.com/juju/errors"
)

// ErrEmptyDataset is returned when cost or gradient is requested over a
// dataset without observed ratings.
var ErrEmptyDataset = errors.New("empty dataset")

// NewEmbedding creates an n×k factor matrix with entries drawn uniformly
// from [0, 6/k). The scale keeps initial length-k dot products at the
// magnitude of typical rating values.
func NewEmbedding(rng base.RandomGenerator, n, k int) [][]float64 {
	return rng.UniformMatrix(n, k, 0, 6/float64(k))
}

// Predict computes the dot product of user and item factors at every
// (user, item) pair of the table and returns the results as a sparse matrix
// over exactly that pattern. Runs in O(nnz×k) time and O(nnz) extra memory,
// the dense product is never materialized. The per-pair reductions are
// independent and run on jobs workers.
func Predict(data *dataset.Dataset, userFactor, itemFactor [][]float64, jobs int) (*base.SparseMatrix, error) {
	users := data.GetUserIndices()
	items := data.GetItemIndices()
	for r := range users {
		if int(users[r]) >= len(userFactor) || users[r] < 0 {
			return nil, errors.Annotatef(base.ErrIndexOutOfRange, "user %d with bound %d", users[r], len(userFactor))
		}
		if int(items[r]) >= len(itemFactor) || items[r] < 0 {
			return nil, errors.Annotatef(base.ErrIndexOutOfRange, "item %d with bound %d", items[r], len(itemFactor))
		}
	}
	predictions := make([]float64, data.Count())
	parallel.For(data.Count(), jobs, func(r int) {
		predictions[r] = floats.Dot(userFactor[users[r]], itemFactor[items[r]])
	})
	m, err := base.NewSparseMatrix(users, items, predictions, len(userFactor), len(itemFactor))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

// Cost computes the mean squared error between observed and predicted
// ratings over the observed pattern. A nil dataset returns NaN, which marks
// the validation cost as absent.
func Cost(data *dataset.Dataset, userFactor, itemFactor [][]float64, jobs int) (float64, error) {
	if data == nil {
		return math.NaN(), nil
	}
	if data.Count() == 0 {
		return 0, errors.Trace(ErrEmptyDataset)
	}
	truth, err := data.Matrix(len(userFactor), len(itemFactor))
	if err != nil {
		return 0, errors.Trace(err)
	}
	predictions, err := Predict(data, userFactor, itemFactor, jobs)
	if err != nil {
		return 0, errors.Trace(err)
	}
	residual, err := truth.Sub(predictions)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return residual.SumSquares() / float64(truth.NNZ()), nil
}

// Gradient computes the partial derivatives of the mean squared error with
// respect to both factor matrices:
//
//	gradUser = -2 (Y - P) V / nnz
//	gradItem = -2 (Y - P)^T U / nnz
//
// The residual exists only at the observed pattern, so users and items
// without observed ratings get zero gradient rows.
func Gradient(y *base.SparseMatrix, data *dataset.Dataset, userFactor, itemFactor [][]float64, jobs int) (gradUser, gradItem [][]float64, err error) {
	if y.NNZ() == 0 {
		return nil, nil, errors.Trace(ErrEmptyDataset)
	}
	predictions, err := Predict(data, userFactor, itemFactor, jobs)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	residual, err := y.Sub(predictions)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	scale := -2 / float64(y.NNZ())
	gradUser = residual.MulDense(itemFactor)
	for i := range gradUser {
		floats.MulConst(gradUser[i], scale)
	}
	gradItem = residual.TransposeMulDense(userFactor)
	for i := range gradItem {
		floats.MulConst(gradItem[i], scale)
	}
	return
}

// checkEpsilon is the perturbation used by FiniteDifference.
const checkEpsilon = 1e-9

// FiniteDifference perturbs a single factor entry and returns the forward
// difference quotient of the cost. Used by the test suite to validate
// Gradient.
func FiniteDifference(data *dataset.Dataset, userFactor, itemFactor [][]float64, perturbUser bool, index, k int) (float64, error) {
	c1, err := Cost(data, userFactor, itemFactor, 1)
	if err != nil {
		return 0, errors.Trace(err)
	}
	perturbedUser := userFactor
	perturbedItem := itemFactor
	if perturbUser {
		perturbedUser = perturb(userFactor, index, k)
	} else {
		perturbedItem = perturb(itemFactor, index, k)
	}
	c2, err := Cost(data, perturbedUser, perturbedItem, 1)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return (c2 - c1) / checkEpsilon, nil
}

func perturb(factor [][]float64, index, k int) [][]float64 {
	ret := make([][]float64, len(factor))
	for i := range factor {
		ret[i] = factor[i]
	}
	row := make([]float64, len(factor[index]))
	copy(row, factor[index])
	row[k] += checkEpsilon
	ret[index] = row
	return ret
}

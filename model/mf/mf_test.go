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
	"fmt"
	"math"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/matfact/common/floats"
	"github.com/gorse-io/matfact/dataset"
	"github.com/gorse-io/matfact/model"
)

// 4 users × 4 items, 12 observed ratings.
func newTrainDataset() *dataset.Dataset {
	table := make([]dataset.Rating, 0, 12)
	for u := 0; u < 4; u++ {
		for i := 0; i < 3; i++ {
			item := (u + i) % 4
			table = append(table, dataset.Rating{
				UserId: fmt.Sprintf("u%d", u),
				ItemId: fmt.Sprintf("i%d", item),
				Rating: float64(1 + (u+item)%5),
			})
		}
	}
	return dataset.Encode(table)
}

func TestMF_Init_Deterministic(t *testing.T) {
	trainSet := newTrainDataset()
	params := model.Params{
		model.NFactors:    3,
		model.RandomState: int64(3),
	}
	a := NewMF(params)
	a.Init(trainSet)
	b := NewMF(params)
	b.Init(trainSet)
	assert.Equal(t, a.UserFactor, b.UserFactor)
	assert.Equal(t, a.ItemFactor, b.ItemFactor)
	assert.Len(t, a.UserFactor, trainSet.CountUsers())
	assert.Len(t, a.ItemFactor, trainSet.CountItems())
}

func TestMF_Fit_CostDecrease(t *testing.T) {
	trainSet := newTrainDataset()
	m := NewMF(model.Params{
		model.NFactors: 3,
		model.NEpochs:  51,
		model.Lr:       0.01,
	})
	costs := make(map[int]float64)
	config := NewFitConfig().SetTracker(func(epoch int, trainCost, validationCost float64) {
		costs[epoch] = trainCost
		assert.True(t, math.IsNaN(validationCost))
	})
	score, err := m.Fit(trainSet, nil, config)
	require.NoError(t, err)
	require.Contains(t, costs, 0)
	require.Contains(t, costs, 50)
	assert.Less(t, costs[50], costs[0])
	assert.Less(t, score.MSE, costs[0])
	assert.True(t, math.IsNaN(score.ValidationMSE))
}

func TestMF_Fit_Validation(t *testing.T) {
	trainSet := newTrainDataset()
	valSet := dataset.EncodeWith([]dataset.Rating{
		{UserId: "u0", ItemId: "i1", Rating: 3},
		{UserId: "u1", ItemId: "i2", Rating: 4},
		{UserId: "unseen", ItemId: "i0", Rating: 5}, // dropped
	}, trainSet)
	assert.Equal(t, 2, valSet.Count())
	m := NewMF(model.Params{
		model.NFactors: 3,
		model.NEpochs:  10,
		model.Lr:       0.01,
	})
	tracked := 0
	config := NewFitConfig().SetVerbose(5).SetTracker(func(epoch int, trainCost, validationCost float64) {
		tracked++
		assert.False(t, math.IsNaN(validationCost))
	})
	score, err := m.Fit(trainSet, valSet, config)
	require.NoError(t, err)
	assert.Equal(t, 2, tracked)
	assert.False(t, math.IsNaN(score.ValidationMSE))
}

func TestMF_Fit_Parallel(t *testing.T) {
	trainSet := newTrainDataset()
	params := model.Params{
		model.NFactors: 3,
		model.NEpochs:  20,
		model.Lr:       0.01,
	}
	sequential := NewMF(params)
	_, err := sequential.Fit(trainSet, nil, NewFitConfig())
	require.NoError(t, err)
	parallelized := NewMF(params)
	_, err = parallelized.Fit(trainSet, nil, NewFitConfig().SetJobs(4))
	require.NoError(t, err)
	// per-entry reductions are independent, results don't depend on workers
	for i := range sequential.UserFactor {
		for k := range sequential.UserFactor[i] {
			assert.InDelta(t, sequential.UserFactor[i][k], parallelized.UserFactor[i][k], 1e-12)
		}
	}
}

func TestMF_Fit_EmptyDataset(t *testing.T) {
	m := NewMF(model.Params{model.NFactors: 3})
	_, err := m.Fit(dataset.Encode(nil), nil, nil)
	assert.ErrorIs(t, errors.Cause(err), ErrEmptyDataset)
}

func TestMF_Predict(t *testing.T) {
	trainSet := newTrainDataset()
	m := NewMF(model.Params{
		model.NFactors: 3,
		model.NEpochs:  10,
		model.Lr:       0.01,
	})
	_, err := m.Fit(trainSet, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, m.Predict("u0", "i0"), m.internalPredict(0, 0))
	assert.Equal(t, m.internalPredict(0, 0), floats.Dot(m.GetUserFactor(0), m.GetItemFactor(0)))
	assert.Zero(t, m.Predict("unseen", "i0"))
	assert.Zero(t, m.Predict("u0", "unseen"))

	assert.True(t, m.IsUserPredictable(0))
	assert.True(t, m.IsItemPredictable(0))
	assert.False(t, m.IsUserPredictable(math.MaxInt32))
	assert.False(t, m.IsItemPredictable(math.MaxInt32))
	assert.False(t, m.IsUserPredictable(-1))
	assert.False(t, m.IsItemPredictable(-1))

	// test clear
	assert.False(t, m.Invalid())
	m.Clear()
	assert.True(t, m.Invalid())
}

func TestMF_SetParams(t *testing.T) {
	m := NewMF(model.Params{
		model.NFactors:    8,
		model.NEpochs:     30,
		model.Lr:          0.1,
		model.RandomState: int64(42),
	})
	assert.Equal(t, 8, m.nFactors)
	assert.Equal(t, 30, m.nEpochs)
	assert.Equal(t, 0.1, m.lr)
	// defaults
	m = NewMF(nil)
	assert.Equal(t, 16, m.nFactors)
	assert.Equal(t, 100, m.nEpochs)
	assert.Equal(t, 0.01, m.lr)
}

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
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/gorse-io/matfact/base"
	"github.com/gorse-io/matfact/base/log"
	"github.com/gorse-io/matfact/common/floats"
	"github.com/gorse-io/matfact/dataset"
	"github.com/gorse-io/matfact/model"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// momentum is the coefficient of the exponential moving average of past
// gradients. Fixed, not a hyper-parameter.
const momentum = 0.9

// Score wraps the costs of a fitted model. ValidationMSE is NaN when no
// validation set was supplied.
type Score struct {
	MSE           float64
	ValidationMSE float64
}

// Tracker receives (iteration, training cost, validation cost) tuples at the
// reporting cadence. The validation cost is NaN when absent.
type Tracker func(epoch int, trainCost, validationCost float64)

type FitConfig struct {
	Jobs    int
	Verbose int
	Tracker Tracker
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 50,
	}
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) SetTracker(tracker Tracker) *FitConfig {
	config.Tracker = tracker
	return config
}

// MF factorizes a sparse rating matrix into user and item factor matrices by
// gradient descent with momentum. The rating given by user u to item i is
// estimated by:
//
//	\hat{r}_{ui} = p_u^T q_i
//
// Hyper-parameters:
//
//	Lr          - The learning rate of gradient descent. Default is 0.01.
//	NFactors    - The number of latent factors. Default is 16.
//	NEpochs     - The number of iterations. Default is 100.
//	RandomState - The seed of the random generator. Default is 3.
type MF struct {
	model.BaseModel
	UserIndex       *dataset.FreqDict
	ItemIndex       *dataset.FreqDict
	UserPredictable *bitset.BitSet
	ItemPredictable *bitset.BitSet
	// Model parameters
	UserFactor [][]float64 // p_u
	ItemFactor [][]float64 // q_i
	// Hyper parameters
	nFactors int
	nEpochs  int
	lr       float64
}

// NewMF creates a MF model.
func NewMF(params model.Params) *MF {
	mf := new(MF)
	mf.SetParams(params)
	return mf
}

// SetParams sets hyper-parameters of the MF model.
func (mf *MF) SetParams(params model.Params) {
	mf.BaseModel.SetParams(params)
	// Setup hyper-parameters
	mf.nFactors = mf.Params.GetInt(model.NFactors, 16)
	mf.nEpochs = mf.Params.GetInt(model.NEpochs, 100)
	mf.lr = mf.Params.GetFloat64(model.Lr, 0.01)
}

// Init initializes factor matrices from the random generator and marks users
// and items with observed ratings as predictable.
func (mf *MF) Init(trainSet *dataset.Dataset) {
	// Initialize parameters
	rng := mf.GetRandomGenerator()
	newUserFactor := NewEmbedding(rng, trainSet.CountUsers(), mf.nFactors)
	newItemFactor := NewEmbedding(rng, trainSet.CountItems(), mf.nFactors)
	mf.UserFactor = newUserFactor
	mf.ItemFactor = newItemFactor
	// Set indices
	mf.UserIndex = trainSet.GetUserDict()
	mf.ItemIndex = trainSet.GetItemDict()
	// Set trained flags
	mf.UserPredictable = bitset.New(uint(trainSet.CountUsers()))
	mf.ItemPredictable = bitset.New(uint(trainSet.CountItems()))
	for r := 0; r < trainSet.Count(); r++ {
		userIndex, itemIndex, _ := trainSet.Get(r)
		mf.UserPredictable.Set(uint(userIndex))
		mf.ItemPredictable.Set(uint(itemIndex))
	}
}

// Fit the MF model. The training set is encoded once into the fixed sparse
// rating matrix, then the factors are updated for exactly NEpochs
// iterations. Training cost and, when a validation set is supplied,
// validation cost are reported every config.Verbose iterations including
// iteration 0.
func (mf *MF) Fit(trainSet, valSet *dataset.Dataset, config *FitConfig) (Score, error) {
	if config == nil {
		config = NewFitConfig()
	}
	valSize := 0
	if valSet != nil {
		valSize = valSet.Count()
	}
	log.Logger().Info("fit mf",
		zap.Int("train_set_size", trainSet.Count()),
		zap.Int("validation_set_size", valSize),
		zap.Any("params", mf.GetParams()),
		zap.Int("jobs", config.Jobs))
	mf.Init(trainSet)
	// Build the rating matrix once. It stays immutable for the whole loop.
	y, err := trainSet.Matrix(trainSet.CountUsers(), trainSet.CountItems())
	if err != nil {
		return Score{}, errors.Trace(err)
	}
	if y.NNZ() == 0 {
		return Score{}, errors.Trace(ErrEmptyDataset)
	}
	// Velocity accumulators start at zero.
	userVelocity := base.NewMatrix(trainSet.CountUsers(), mf.nFactors)
	itemVelocity := base.NewMatrix(trainSet.CountItems(), mf.nFactors)
	for epoch := 0; epoch < mf.nEpochs; epoch++ {
		fitStart := time.Now()
		gradUser, gradItem, err := Gradient(y, trainSet, mf.UserFactor, mf.ItemFactor, config.Jobs)
		if err != nil {
			return Score{}, errors.Trace(err)
		}
		// v <- momentum * v + (1 - momentum) * grad
		// p <- p - lr * v
		// Velocities and factors are replaced wholesale so that no partial
		// update is ever observable.
		userVelocity, mf.UserFactor = step(userVelocity, gradUser, mf.UserFactor, mf.lr)
		itemVelocity, mf.ItemFactor = step(itemVelocity, gradItem, mf.ItemFactor, mf.lr)
		fitTime := time.Since(fitStart)
		if epoch%config.Verbose == 0 {
			trainCost, err := Cost(trainSet, mf.UserFactor, mf.ItemFactor, config.Jobs)
			if err != nil {
				return Score{}, errors.Trace(err)
			}
			valCost, err := Cost(valSet, mf.UserFactor, mf.ItemFactor, config.Jobs)
			if err != nil {
				return Score{}, errors.Trace(err)
			}
			fields := []zap.Field{
				zap.String("fit_time", fitTime.String()),
				zap.Float64("train_cost", trainCost),
			}
			if !math.IsNaN(valCost) {
				fields = append(fields, zap.Float64("validation_cost", valCost))
			}
			log.Logger().Info(fmt.Sprintf("fit mf %v/%v", epoch, mf.nEpochs), fields...)
			if config.Tracker != nil {
				config.Tracker(epoch, trainCost, valCost)
			}
		}
	}
	score := Score{}
	if score.MSE, err = Cost(trainSet, mf.UserFactor, mf.ItemFactor, config.Jobs); err != nil {
		return Score{}, errors.Trace(err)
	}
	if score.ValidationMSE, err = Cost(valSet, mf.UserFactor, mf.ItemFactor, config.Jobs); err != nil {
		return Score{}, errors.Trace(err)
	}
	log.Logger().Info("fit mf complete",
		zap.Float64("train_cost", score.MSE),
		zap.Float64("validation_cost", score.ValidationMSE))
	return score, nil
}

// step applies one momentum update and returns the replacement velocity and
// factor matrices.
func step(velocity, grad, factor [][]float64, lr float64) (newVelocity, newFactor [][]float64) {
	newVelocity = base.NewMatrix(len(factor), cols(factor))
	newFactor = base.NewMatrix(len(factor), cols(factor))
	for i := range factor {
		floats.MulConstTo(velocity[i], momentum, newVelocity[i])
		floats.MulConstAdd(grad[i], 1-momentum, newVelocity[i])
		floats.MulConstAddTo(newVelocity[i], -lr, factor[i], newFactor[i])
	}
	return
}

func cols(factor [][]float64) int {
	if len(factor) == 0 {
		return 0
	}
	return len(factor[0])
}

// Predict the rating given by a user (userId) to a item (itemId).
func (mf *MF) Predict(userId, itemId string) float64 {
	userIndex := mf.UserIndex.Index(userId)
	itemIndex := mf.ItemIndex.Index(itemId)
	if userIndex == dataset.NotId {
		log.Logger().Warn("unknown user", zap.String("user_id", userId))
	}
	if itemIndex == dataset.NotId {
		log.Logger().Warn("unknown item", zap.String("item_id", itemId))
	}
	return mf.internalPredict(userIndex, itemIndex)
}

func (mf *MF) internalPredict(userIndex, itemIndex int) float64 {
	if userIndex >= 0 && itemIndex >= 0 {
		return floats.Dot(mf.UserFactor[userIndex], mf.ItemFactor[itemIndex])
	}
	return 0
}

// IsUserPredictable returns false if the user has no observed ratings and
// its factors were never trained.
func (mf *MF) IsUserPredictable(userIndex int) bool {
	if userIndex < 0 || userIndex >= mf.UserIndex.Count() {
		return false
	}
	return mf.UserPredictable.Test(uint(userIndex))
}

// IsItemPredictable returns false if the item has no observed ratings and
// its factors were never trained.
func (mf *MF) IsItemPredictable(itemIndex int) bool {
	if itemIndex < 0 || itemIndex >= mf.ItemIndex.Count() {
		return false
	}
	return mf.ItemPredictable.Test(uint(itemIndex))
}

// GetUserFactor returns the latent factor of a user.
func (mf *MF) GetUserFactor(userIndex int) []float64 {
	return mf.UserFactor[userIndex]
}

// GetItemFactor returns the latent factor of an item.
func (mf *MF) GetItemFactor(itemIndex int) []float64 {
	return mf.ItemFactor[itemIndex]
}

func (mf *MF) Clear() {
	mf.UserIndex = nil
	mf.ItemIndex = nil
	mf.UserFactor = nil
	mf.ItemFactor = nil
}

func (mf *MF) Invalid() bool {
	return mf == nil ||
		mf.UserIndex == nil ||
		mf.ItemIndex == nil ||
		mf.UserFactor == nil ||
		mf.ItemFactor == nil
}

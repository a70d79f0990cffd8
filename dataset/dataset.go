// Copyright 2025 gorse Project Authors
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

package dataset

import (
	"github.com/gorse-io/matfact/base"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Rating is a single observed rating given by a user to an item. Raw
// identifiers are opaque strings.
type Rating struct {
	UserId string
	ItemId string
	Rating float64
}

// Dataset is a ratings table translated to dense user and item indices. The
// dictionaries are built once and never mutated afterwards.
type Dataset struct {
	userDict *FreqDict
	itemDict *FreqDict
	users    []int32
	items    []int32
	ratings  []float64
}

// Encode translates a ratings table to dense indices. Dictionaries assign
// indices in first-occurrence order.
func Encode(table []Rating) *Dataset {
	d := &Dataset{
		userDict: NewFreqDict(),
		itemDict: NewFreqDict(),
		ratings:  lo.Map(table, func(r Rating, _ int) float64 { return r.Rating }),
	}
	d.users = lo.Map(table, func(r Rating, _ int) int32 { return int32(d.userDict.Id(r.UserId)) })
	d.items = lo.Map(table, func(r Rating, _ int) int32 { return int32(d.itemDict.Id(r.ItemId)) })
	return d
}

// EncodeWith translates a ratings table using the dictionaries of a
// previously encoded training set. Rows referring to users or items absent
// from the training set are silently dropped.
func EncodeWith(table []Rating, train *Dataset) *Dataset {
	d := &Dataset{
		userDict: train.userDict,
		itemDict: train.itemDict,
	}
	for _, r := range table {
		userIndex := train.userDict.Index(r.UserId)
		itemIndex := train.itemDict.Index(r.ItemId)
		if userIndex == NotId || itemIndex == NotId {
			continue
		}
		d.users = append(d.users, int32(userIndex))
		d.items = append(d.items, int32(itemIndex))
		d.ratings = append(d.ratings, r.Rating)
	}
	return d
}

// Count returns the number of rows in the table.
func (d *Dataset) Count() int {
	return len(d.ratings)
}

// CountUsers returns the number of distinct users in the dictionary.
func (d *Dataset) CountUsers() int {
	return d.userDict.Count()
}

// CountItems returns the number of distinct items in the dictionary.
func (d *Dataset) CountItems() int {
	return d.itemDict.Count()
}

// GetUserDict returns the user dictionary.
func (d *Dataset) GetUserDict() *FreqDict {
	return d.userDict
}

// GetItemDict returns the item dictionary.
func (d *Dataset) GetItemDict() *FreqDict {
	return d.itemDict
}

// Get returns the r-th encoded row.
func (d *Dataset) Get(r int) (userIndex, itemIndex int32, rating float64) {
	return d.users[r], d.items[r], d.ratings[r]
}

// GetUserIndices returns the encoded user column.
func (d *Dataset) GetUserIndices() []int32 {
	return d.users
}

// GetItemIndices returns the encoded item column.
func (d *Dataset) GetItemIndices() []int32 {
	return d.items
}

// GetRatings returns the rating column.
func (d *Dataset) GetRatings() []float64 {
	return d.ratings
}

// Matrix builds the sparse rating matrix with explicit bounds. The nonzero
// pattern is exactly the set of (user, item) pairs in the table.
func (d *Dataset) Matrix(rows, cols int) (*base.SparseMatrix, error) {
	m, err := base.NewSparseMatrix(d.users, d.items, d.ratings, rows, cols)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/matfact/base"
)

// Split randomly holds out a fraction of a ratings table for validation.
// The split is deterministic for a given seed. Rows keep their original
// order within each part.
func Split(table []Rating, testRatio float64, seed int64) (train, test []Rating) {
	rng := base.NewRandomGenerator(seed)
	n := int(float64(len(table)) * testRatio)
	testSet := mapset.NewSet[int](rng.Sample(0, len(table), n)...)
	train = make([]Rating, 0, len(table)-n)
	test = make([]Rating, 0, n)
	for i, r := range table {
		if testSet.Contains(i) {
			test = append(test, r)
		} else {
			train = append(train, r)
		}
	}
	return
}

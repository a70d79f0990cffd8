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

// NotId represents an ID doesn't exist.
const NotId = -1

// FreqDict maps raw string keys to dense zero-based indices. Indices are
// assigned in first-occurrence order, so encoding the same key sequence
// twice yields identical assignments.
type FreqDict struct {
	si map[string]int
	is []string
}

func NewFreqDict() (d *FreqDict) {
	d = &FreqDict{map[string]int{}, []string{}}
	return
}

// Count returns the number of distinct keys.
func (d *FreqDict) Count() int {
	return len(d.is)
}

// Id returns the dense index of a key, assigning the next free index if the
// key hasn't been seen before.
func (d *FreqDict) Id(s string) (y int) {
	if y, ok := d.si[s]; ok {
		return y
	}

	y = len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	return
}

// Index returns the dense index of a key without mutating the dictionary.
// Returns NotId for unseen keys.
func (d *FreqDict) Index(s string) int {
	if y, ok := d.si[s]; ok {
		return y
	}
	return NotId
}

// String returns the key of a dense index.
func (d *FreqDict) String(id int) (s string, ok bool) {
	if id < 0 || id >= len(d.is) {
		return "", false
	}
	return d.is[id], true
}

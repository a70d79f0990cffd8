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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"userId,movieId,rating,timestamp\n"+
			"1,31,2.5,1260759144\n"+
			"1,1029,3.0,1260759179\n"+
			"7,1061,3.5,1260759182\n"), 0644))
	table, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []Rating{
		{"1", "31", 2.5},
		{"1", "1029", 3.0},
		{"7", "1061", 3.5},
	}, table)
}

func TestLoadCSV_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,5\nc,d,3\n"), 0644))
	table, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []Rating{{"a", "b", 5}, {"c", "d", 3}}, table)
}

func TestLoadCSV_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))
	_, err := LoadCSV(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad_rating.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,5\nc,d,x\n"), 0644))
	_, err = LoadCSV(path)
	assert.Error(t, err)

	_, err = LoadCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

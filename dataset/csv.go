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
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// LoadCSV reads a ratings table from a CSV file with columns
// user_id,item_id,rating. A header line is skipped, trailing columns (e.g.
// timestamps) are ignored.
func LoadCSV(path string) ([]Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Trace(err)
	}
	table := make([]Rating, 0, len(records))
	for i, record := range records {
		if len(record) < 3 {
			return nil, errors.Errorf("%s:%d: expect at least 3 fields, got %d", path, i+1, len(record))
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			if i == 0 {
				// header line
				continue
			}
			return nil, errors.Annotatef(err, "%s:%d", path, i+1)
		}
		table = append(table, Rating{
			UserId: strings.TrimSpace(record[0]),
			ItemId: strings.TrimSpace(record[1]),
			Rating: rating,
		})
	}
	return table, nil
}

// Copyright © 2023-2024 Hao Zhang <zhanghao.bio@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package table

import (
	"strconv"

	"github.com/pkg/errors"
)

// SharedTable is a mothur shared (OTU count) table. Rows are sample
// groups, columns are OTUs. The label and numOtus metadata columns are
// kept but unused by aggregation.
type SharedTable struct {
	TaggedTable
	Labels  []string
	NumOtus []int
}

// ReadShared parses a mothur shared file. The format is tab-delimited
// with a header row:
//
//	label	Group	numOtus	Otu000001	Otu000002	...
//	0.03	sample1	3910	12	0	...
//
// The group column becomes the row tags and the OTU ids the column
// tags; counts are non-negative integers.
func ReadShared(file string, threads int, chunkSize int) (*SharedTable, error) {
	rows, err := readRows(file, "\t", threads, chunkSize)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "shared file needs a header row and at least one sample row: %s", file)
	}
	header := rows[0]
	if len(header) < 3 {
		return nil, errors.Wrapf(ErrShapeMismatch, "shared file header needs at least 3 columns: %s", file)
	}

	otus := header[3:]
	st := &SharedTable{
		TaggedTable: TaggedTable{
			ColTags: otus,
			RowTags: make([]string, 0, len(rows)-1),
			Data:    make([][]float64, 0, len(rows)-1),
		},
		Labels:  make([]string, 0, len(rows)-1),
		NumOtus: make([]int, 0, len(rows)-1),
	}
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d fields, expected %d: %s", i+1, len(row), len(header), file)
		}
		numOtus, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid numOtus in row %d: %s", i+1, file)
		}
		counts := make([]float64, len(otus))
		for j, s := range row[3:] {
			c, err := strconv.Atoi(s)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid count at row %d col %s: %s", i+1, otus[j], file)
			}
			if c < 0 {
				return nil, errors.Errorf("negative count %d at row %d col %s: %s", c, i+1, otus[j], file)
			}
			counts[j] = float64(c)
		}
		st.Labels = append(st.Labels, row[0])
		st.RowTags = append(st.RowTags, row[1])
		st.NumOtus = append(st.NumOtus, numOtus)
		st.Data = append(st.Data, counts)
	}
	return st, nil
}

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

// Package table implements tagged 2-D numeric tables: the mothur shared
// (OTU count) table, its aggregation into taxon abundance tables, row
// normalization, and column sorting.
//
// Transforms return a new table by default; passing inplace mutates the
// receiver instead.
package table

import (
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrShapeMismatch means row/column tags disagree with the data
	// dimensions, or a parsed table is not rectangular.
	ErrShapeMismatch = errors.New("tag length and data dimension mismatch")
	// ErrZeroRowSum means a row could not be normalized.
	ErrZeroRowSum = errors.New("row sums to zero")
	// ErrUnknownOTU means a count table column has no taxonomy entry.
	ErrUnknownOTU = errors.New("OTU not found in taxonomy table")
	// ErrSortMethod means an unrecognized column sort method.
	ErrSortMethod = errors.New("invalid sort method")
)

// TaggedTable is a 2-D numeric matrix with named rows and columns.
// Rows are samples; columns are OTUs or taxa depending on the stage.
type TaggedTable struct {
	RowTags []string
	ColTags []string
	Data    [][]float64
}

// NewTaggedTable builds a table and validates the shape contract.
func NewTaggedTable(rowTags []string, colTags []string, data [][]float64) (*TaggedTable, error) {
	if len(rowTags) != len(data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d row tags vs %d data rows", len(rowTags), len(data))
	}
	for i, row := range data {
		if len(colTags) != len(row) {
			return nil, errors.Wrapf(ErrShapeMismatch, "%d col tags vs %d values in data row %d", len(colTags), len(row), i)
		}
	}
	return &TaggedTable{RowTags: rowTags, ColTags: colTags, Data: data}, nil
}

// NumRows returns the number of rows.
func (t *TaggedTable) NumRows() int {
	return len(t.RowTags)
}

// NumCols returns the number of columns.
func (t *TaggedTable) NumCols() int {
	return len(t.ColTags)
}

// Clone deep-copies the table.
func (t *TaggedTable) Clone() *TaggedTable {
	data := make([][]float64, len(t.Data))
	for i, row := range t.Data {
		data[i] = append([]float64(nil), row...)
	}
	return &TaggedTable{
		RowTags: append([]string(nil), t.RowTags...),
		ColTags: append([]string(nil), t.ColTags...),
		Data:    data,
	}
}

// NormalizeRows divides every row by its sum so rows sum to 1.
// A row summing to zero is a hard error: silently emitting NaN would
// poison every downstream computation on the table.
func (t *TaggedTable) NormalizeRows(inplace bool) (*TaggedTable, error) {
	ret := t
	if !inplace {
		ret = t.Clone()
	}
	for i, row := range ret.Data {
		var sum float64
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			return nil, errors.Wrapf(ErrZeroRowSum, "row '%s'", ret.RowTags[i])
		}
		for j := range row {
			row[j] /= sum
		}
	}
	return ret, nil
}

// SortMethod selects the key used by SortColsDescend.
type SortMethod int

const (
	// ByAverage sorts columns by descending mean of raw values.
	ByAverage SortMethod = iota
	// ByRank converts each row to a rank vector first (highest value
	// gets the highest rank number), then sorts columns by descending
	// average rank. More robust to a single sample with an outlier
	// magnitude than raw averaging.
	ByRank
)

// ParseSortMethod resolves a sort method name.
func ParseSortMethod(s string) (SortMethod, error) {
	switch s {
	case "by-average":
		return ByAverage, nil
	case "by-rank":
		return ByRank, nil
	}
	return 0, errors.Wrapf(ErrSortMethod, "'%s', available: by-average, by-rank", s)
}

// SortColsDescend reorders columns so the largest sort key comes first.
// Ties keep their current (first-encounter) order.
func (t *TaggedTable) SortColsDescend(method SortMethod, inplace bool) (*TaggedTable, error) {
	ret := t
	if !inplace {
		ret = t.Clone()
	}

	var keys []float64
	switch method {
	case ByAverage:
		keys = colMeans(ret.Data, ret.NumCols())
	case ByRank:
		keys = colMeans(rankRows(ret.Data, ret.NumCols()), ret.NumCols())
	default:
		return nil, errors.Wrapf(ErrSortMethod, "%d", method)
	}

	idx := make([]int, ret.NumCols())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] > keys[idx[b]]
	})

	colTags := make([]string, len(idx))
	for i, j := range idx {
		colTags[i] = ret.ColTags[j]
	}
	ret.ColTags = colTags
	for i, row := range ret.Data {
		newRow := make([]float64, len(idx))
		for k, j := range idx {
			newRow[k] = row[j]
		}
		ret.Data[i] = newRow
	}
	return ret, nil
}

func colMeans(data [][]float64, ncol int) []float64 {
	means := make([]float64, ncol)
	if len(data) == 0 {
		return means
	}
	for _, row := range data {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(data))
	}
	return means
}

// rankRows converts every row to a rank vector: the smallest value gets
// rank 1, the largest rank ncol. Equal values keep input order.
func rankRows(data [][]float64, ncol int) [][]float64 {
	ranks := make([][]float64, len(data))
	idx := make([]int, ncol)
	for i, row := range data {
		for j := range idx {
			idx[j] = j
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return row[idx[a]] < row[idx[b]]
		})
		r := make([]float64, ncol)
		for pos, j := range idx {
			r[j] = float64(pos + 1)
		}
		ranks[i] = r
	}
	return ranks
}

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

// SelectCols picks columns by tag, in the order of names. A name with
// no matching column yields a zero-filled column, so a fixed taxon list
// gives comparable tables across datasets.
func (t *TaggedTable) SelectCols(names []string) *TaggedTable {
	order := make(map[string]int, len(names))
	for i, name := range names {
		order[name] = i
	}
	data := make([][]float64, t.NumRows())
	for i := range data {
		data[i] = make([]float64, len(names))
	}
	for j, tag := range t.ColTags {
		k, ok := order[tag]
		if !ok {
			continue
		}
		for i, row := range t.Data {
			data[i][k] = row[j]
		}
	}
	return &TaggedTable{
		RowTags: append([]string(nil), t.RowTags...),
		ColTags: append([]string(nil), names...),
		Data:    data,
	}
}

// MergeTail keeps the first maxN columns and collapses the rest into a
// single summed column tagged tailTag. Meant to run on a table already
// sorted descending, so the tail holds the low-abundance taxa. Tables
// with maxN columns or fewer come back as a plain copy.
func (t *TaggedTable) MergeTail(maxN int, tailTag string) *TaggedTable {
	if maxN < 0 || t.NumCols() <= maxN {
		return t.Clone()
	}
	colTags := make([]string, maxN+1)
	copy(colTags, t.ColTags[:maxN])
	colTags[maxN] = tailTag

	data := make([][]float64, t.NumRows())
	for i, row := range t.Data {
		newRow := make([]float64, maxN+1)
		copy(newRow, row[:maxN])
		var tail float64
		for _, v := range row[maxN:] {
			tail += v
		}
		newRow[maxN] = tail
		data[i] = newRow
	}
	return &TaggedTable{
		RowTags: append([]string(nil), t.RowTags...),
		ColTags: colTags,
		Data:    data,
	}
}

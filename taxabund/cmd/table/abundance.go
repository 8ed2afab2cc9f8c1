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
	"github.com/pkg/errors"
	"github.com/zhanghao-bio/taxabund/taxabund/cmd/taxonomy"
)

// GroupByTaxonomy collapses OTU columns into taxon columns at the given
// rank, summing each OTU's column into the column of its unique taxon
// name. OTUs with no taxon at that rank, or with a bootstrap below
// minBootstrap, contribute nothing. An OTU missing from the taxonomy
// map entirely is a hard error: it means the shared and taxonomy files
// do not belong to the same run.
//
// Output columns are created in first-encounter order, then the table
// is sorted with SortColsDescend so the most abundant taxon comes
// first. Classifying at a rank deeper than any OTU reaches (e.g.
// species on a genus-level SOP run) yields a table with zero columns.
func (t *SharedTable) GroupByTaxonomy(otuMap taxonomy.OtuMap, rank int, minBootstrap int, sortBy SortMethod) (*TaggedTable, error) {
	nrow := t.NumRows()
	colIdx := make(map[string]int, 64)
	colTags := make([]string, 0, 64)
	cols := make([][]float64, 0, 64)

	for j, otuID := range t.ColTags {
		otu, ok := otuMap[otuID]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownOTU, "'%s'", otuID)
		}
		taxon := otu.Lineage.TaxonAt(rank)
		if taxon == nil || taxon.IsEmpty() {
			continue // not classified at this rank
		}
		if taxon.Bootstrap < minBootstrap {
			continue
		}
		name := taxon.UniqueName()
		k, ok := colIdx[name]
		if !ok {
			k = len(colTags)
			colIdx[name] = k
			colTags = append(colTags, name)
			cols = append(cols, make([]float64, nrow))
		}
		for i := 0; i < nrow; i++ {
			cols[k][i] += t.Data[i][j]
		}
	}

	data := make([][]float64, nrow)
	for i := range data {
		row := make([]float64, len(colTags))
		for k := range colTags {
			row[k] = cols[k][i]
		}
		data[i] = row
	}
	ret, err := NewTaggedTable(append([]string(nil), t.RowTags...), colTags, data)
	if err != nil {
		return nil, err
	}
	return ret.SortColsDescend(sortBy, true)
}

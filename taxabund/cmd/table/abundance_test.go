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
	"errors"
	"reflect"
	"testing"

	"github.com/zhanghao-bio/taxabund/taxabund/cmd/taxonomy"
)

func testOtuMap(t *testing.T) taxonomy.OtuMap {
	t.Helper()
	lines := []string{
		"Otu01\t10\tBacteria(100);Proteobacteria(100);Gammaproteobacteria(100);Pseudomonadales(100);Moraxellaceae(100);Alpha(95);",
		"Otu02\t10\tBacteria(100);Proteobacteria(100);Gammaproteobacteria(100);Pseudomonadales(100);Moraxellaceae(100);Alpha(92);",
		"Otu03\t10\tBacteria(100);Firmicutes(100);Clostridia(100);Clostridiales(100);Ruminococcaceae(100);Beta(85);",
		"Otu04\t10\tBacteria(100);Firmicutes(100);",
	}
	otuMap := make(taxonomy.OtuMap, len(lines))
	for _, line := range lines {
		otu, err := taxonomy.ParseOtuTaxonomy(line)
		if err != nil {
			t.Fatal(err)
		}
		otuMap[otu.OTU] = otu
	}
	return otuMap
}

func testSharedTable(t *testing.T, otus []string, data [][]float64) *SharedTable {
	t.Helper()
	rowTags := make([]string, len(data))
	labels := make([]string, len(data))
	numOtus := make([]int, len(data))
	for i := range data {
		rowTags[i] = string(rune('A' + i))
		labels[i] = "0.03"
		numOtus[i] = len(otus)
	}
	return &SharedTable{
		TaggedTable: TaggedTable{RowTags: rowTags, ColTags: otus, Data: data},
		Labels:      labels,
		NumOtus:     numOtus,
	}
}

func TestGroupByTaxonomy(t *testing.T) {
	genus, err := taxonomy.ParseRank("genus")
	if err != nil {
		t.Fatal(err)
	}

	// Otu01 and Otu02 share genus Alpha, Otu03 is Beta,
	// Otu04 is unclassified at genus level.
	st := testSharedTable(t,
		[]string{"Otu01", "Otu02", "Otu03", "Otu04"},
		[][]float64{
			{1, 2, 3, 7},
			{4, 5, 6, 7},
		})

	out, err := st.GroupByTaxonomy(testOtuMap(t), genus, 0, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	// Alpha = Otu01+Otu02 = [3, 9]; Beta = [3, 6]; Alpha has the
	// larger mean and sorts first.
	if !reflect.DeepEqual(out.ColTags, []string{"Alpha", "Beta"}) {
		t.Fatalf("unexpected columns: %v", out.ColTags)
	}
	if !reflect.DeepEqual(out.Data[0], []float64{3, 3}) {
		t.Errorf("unexpected row A: %v", out.Data[0])
	}
	if !reflect.DeepEqual(out.Data[1], []float64{9, 6}) {
		t.Errorf("unexpected row B: %v", out.Data[1])
	}
	if !reflect.DeepEqual(out.RowTags, st.RowTags) {
		t.Errorf("row tags should carry over, got %v", out.RowTags)
	}
}

func TestGroupByTaxonomyColumnOrderIndependent(t *testing.T) {
	genus, _ := taxonomy.ParseRank("genus")
	otuMap := testOtuMap(t)

	st1 := testSharedTable(t,
		[]string{"Otu01", "Otu02", "Otu03"},
		[][]float64{{1, 2, 3}, {4, 5, 6}})
	st2 := testSharedTable(t,
		[]string{"Otu03", "Otu02", "Otu01"},
		[][]float64{{3, 2, 1}, {6, 5, 4}})

	out1, err := st1.GroupByTaxonomy(otuMap, genus, 0, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := st2.GroupByTaxonomy(otuMap, genus, 0, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	// sums are identical whatever the OTU column order; the sort
	// leaves both in the same final order
	if !reflect.DeepEqual(out1.ColTags, out2.ColTags) || !reflect.DeepEqual(out1.Data, out2.Data) {
		t.Errorf("aggregation depends on column order: %v vs %v", out1, out2)
	}
}

func TestGroupByTaxonomyMinBootstrap(t *testing.T) {
	genus, _ := taxonomy.ParseRank("genus")

	st := testSharedTable(t,
		[]string{"Otu01", "Otu03"},
		[][]float64{{1, 2}})

	// Beta's bootstrap at genus is 85: excluded at cutoff 90,
	// included at 85 (threshold is inclusive)
	out, err := st.GroupByTaxonomy(testOtuMap(t), genus, 90, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out.ColTags, []string{"Alpha"}) {
		t.Errorf("expected only Alpha at cutoff 90, got %v", out.ColTags)
	}

	out, err = st.GroupByTaxonomy(testOtuMap(t), genus, 85, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out.ColTags, []string{"Beta", "Alpha"}) {
		t.Errorf("expected Beta and Alpha at cutoff 85, got %v", out.ColTags)
	}
}

func TestGroupByTaxonomyRankTooDeep(t *testing.T) {
	species, _ := taxonomy.ParseRank("species")

	st := testSharedTable(t,
		[]string{"Otu01", "Otu02"},
		[][]float64{{1, 2}})

	// the SOP classifies down to genus: zero columns, not an error
	out, err := st.GroupByTaxonomy(testOtuMap(t), species, 0, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumCols() != 0 {
		t.Errorf("expected zero columns, got %v", out.ColTags)
	}
	if out.NumRows() != 1 {
		t.Errorf("rows should carry over, got %d", out.NumRows())
	}
}

func TestGroupByTaxonomyUnknownOTU(t *testing.T) {
	genus, _ := taxonomy.ParseRank("genus")

	st := testSharedTable(t,
		[]string{"Otu01", "Otu99"},
		[][]float64{{1, 2}})

	_, err := st.GroupByTaxonomy(testOtuMap(t), genus, 0, ByAverage)
	if !errors.Is(err, ErrUnknownOTU) {
		t.Errorf("expected ErrUnknownOTU, got %v", err)
	}
}

func TestGroupByTaxonomyUncultured(t *testing.T) {
	phylum, _ := taxonomy.ParseRank("phylum")

	otuMap := make(taxonomy.OtuMap, 2)
	for _, line := range []string{
		"Otu01\t5\tBacteria(100);uncultured(80);",
		"Otu02\t5\tArchaea(100);uncultured(80);",
	} {
		otu, err := taxonomy.ParseOtuTaxonomy(line)
		if err != nil {
			t.Fatal(err)
		}
		otuMap[otu.OTU] = otu
	}

	st := testSharedTable(t,
		[]string{"Otu01", "Otu02"},
		[][]float64{{3, 1}})

	// two "uncultured" phyla under different kingdoms must not merge
	out, err := st.GroupByTaxonomy(otuMap, phylum, 0, ByAverage)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out.ColTags, []string{"Bacteria_phylum", "Archaea_phylum"}) {
		t.Errorf("unexpected columns: %v", out.ColTags)
	}
}

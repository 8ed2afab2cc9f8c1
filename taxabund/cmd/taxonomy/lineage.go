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

package taxonomy

import (
	"strings"

	"github.com/pkg/errors"
)

// Lineage is a chain of taxon assignments in fixed rank order, kingdom
// first. Ranks present are always a prefix of the rank order: mothur
// simply stops writing ranks past the classification depth, it never
// leaves a gap in the middle.
type Lineage []*Taxon

// ParseLineage parses a lineage string in the mothur output format:
// taxon strings separated by semicolons, with a mandatory trailing
// semicolon, e.g.
//
//	Bacteria(100);Proteobacteria(100);Gammaproteobacteria(100);
//
// Unique taxon names are resolved right after parsing.
func ParseLineage(s string) (Lineage, error) {
	items := strings.Split(strings.TrimRight(s, ";"), ";")
	if len(items) > len(Ranks) {
		return nil, errors.Wrapf(ErrTaxonFormat, "lineage deeper than %d ranks: '%s'", len(Ranks), s)
	}
	lineage := make(Lineage, 0, len(items))
	for _, item := range items {
		taxon, err := ParseTaxon(item)
		if err != nil {
			return nil, errors.Wrapf(err, "in lineage '%s'", s)
		}
		lineage = append(lineage, taxon)
	}
	lineage.ResolveUniqueNames()
	return lineage, nil
}

// Depth returns the number of ranks present.
func (l Lineage) Depth() int {
	return len(l)
}

// TaxonAt returns the taxon at the given rank id, or nil if the rank is
// past the classification depth. Asking for a deeper rank than mothur
// classified (genus by default in the SOP) is legitimate and simply
// means "unclassified here".
func (l Lineage) TaxonAt(rank int) *Taxon {
	if rank < 0 || rank >= len(l) {
		return nil
	}
	return l[rank]
}

// TaxonAtRank is TaxonAt with a rank name.
func (l Lineage) TaxonAtRank(name string) (*Taxon, error) {
	rank, err := ParseRank(name)
	if err != nil {
		return nil, err
	}
	return l.TaxonAt(rank), nil
}

// ResolveUniqueNames sets the unique name of every taxon in the
// lineage. Taxon names starting with "uncultured" are placeholders
// reused at many unrelated branches of the tree; grouping by the raw
// name would merge unrelated lineages. Each one is renamed after its
// nearest named ancestor plus its own rank ("Bacteria_phylum"), or
// "unknown" when there is no named ancestor.
//
// Running it again on a resolved lineage gives the same names.
func (l Lineage) ResolveUniqueNames() {
	var lastKnown string
	for i, taxon := range l {
		if taxon.IsEmpty() {
			return
		}
		if strings.HasPrefix(taxon.Name, "uncultured") {
			if lastKnown != "" {
				taxon.SetUniqueName(lastKnown + "_" + Ranks[i])
			} else {
				taxon.SetUniqueName("unknown")
			}
		} else {
			lastKnown = taxon.Name
		}
	}
}

// String formats the lineage back into the mothur format, trailing
// semicolon included. Raw names and bootstrap values only.
func (l Lineage) String() string {
	var buf strings.Builder
	for _, taxon := range l {
		buf.WriteString(taxon.String())
		buf.WriteByte(';')
	}
	return buf.String()
}

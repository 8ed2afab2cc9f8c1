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

// Package taxonomy models mothur classification output: single taxon
// assignments with bootstrap values, ranked lineages, and the per-OTU
// taxonomy table.
package taxonomy

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Ranks are the seven fixed taxonomic ranks, kingdom (0) down to species (6).
var Ranks = []string{"kingdom", "phylum", "class", "order", "family", "genus", "species"}

var rankIDs map[string]int

func init() {
	rankIDs = make(map[string]int, len(Ranks))
	for i, r := range Ranks {
		rankIDs[r] = i
	}
}

var (
	// ErrTaxonFormat means a taxon, lineage or taxonomy table line does
	// not follow the mothur output format.
	ErrTaxonFormat = errors.New("invalid taxon format")
	// ErrInvalidRank means an unrecognized rank name.
	ErrInvalidRank = errors.New("invalid rank name")
	// ErrDuplicateOTU means an OTU appeared twice in a taxonomy table.
	ErrDuplicateOTU = errors.New("duplicate OTU")
)

// ParseRank resolves a rank name to its rank id.
func ParseRank(name string) (int, error) {
	id, ok := rankIDs[name]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidRank, "'%s'", name)
	}
	return id, nil
}

var taxonRegexp = regexp.MustCompile(`^(.*)\((\d+)\)$`)

// Taxon is a single taxon assignment at one rank, in the mothur format
// name(bootstrap). An empty name marks an unclassified (absent) taxon.
//
// Some raw taxon names are ambiguous across unrelated branches of the
// tree (e.g. "uncultured"); UniqueName returns the disambiguated name
// set by Lineage.ResolveUniqueNames, falling back to the raw name.
type Taxon struct {
	Name      string
	Bootstrap int

	uniqName string
}

// ParseTaxon parses a taxon string in the mothur output format, e.g.
// Gammaproteobacteria(100). An empty string yields an empty taxon.
func ParseTaxon(s string) (*Taxon, error) {
	if s == "" {
		return &Taxon{}, nil
	}
	m := taxonRegexp.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.Wrapf(ErrTaxonFormat, "'%s'", s)
	}
	bootstrap, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, errors.Wrapf(ErrTaxonFormat, "'%s'", s)
	}
	return &Taxon{Name: m[1], Bootstrap: bootstrap}, nil
}

// IsEmpty reports whether no name is assigned.
func (t *Taxon) IsEmpty() bool {
	return t.Name == ""
}

// UniqueName returns the disambiguated taxon name, or the raw name if
// none was set.
func (t *Taxon) UniqueName() string {
	if t.uniqName != "" {
		return t.uniqName
	}
	return t.Name
}

// SetUniqueName overrides the disambiguated name. Last write wins.
func (t *Taxon) SetUniqueName(s string) {
	t.uniqName = s
}

// String formats the taxon back into the mothur format. Unique names
// are not part of the serialized form.
func (t *Taxon) String() string {
	return fmt.Sprintf("%s(%d)", t.Name, t.Bootstrap)
}

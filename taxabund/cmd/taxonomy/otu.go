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
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
)

// TableHeader is the optional header line of a mothur taxonomy table.
const TableHeader = "OTU\tSize\tTaxonomy"

// OtuTaxonomy is one line of a mothur taxonomy table: OTU id, total
// size, and the classified lineage, tab-delimited. Example:
//
//	Otu000001	412495	Bacteria(100);Bacteroidetes(100);Sphingobacteriia(100);
//
// Size is informational only and takes no part in aggregation.
type OtuTaxonomy struct {
	OTU     string
	Size    int
	Lineage Lineage
}

// ParseOtuTaxonomy parses one taxonomy table line.
func ParseOtuTaxonomy(line string) (*OtuTaxonomy, error) {
	items := strings.Split(line, "\t")
	if len(items) != 3 {
		return nil, errors.Wrapf(ErrTaxonFormat, "expected 3 tab-delimited columns, got %d: '%s'", len(items), line)
	}
	size, err := strconv.Atoi(items[1])
	if err != nil {
		return nil, errors.Wrapf(ErrTaxonFormat, "invalid OTU size '%s'", items[1])
	}
	lineage, err := ParseLineage(items[2])
	if err != nil {
		return nil, errors.Wrapf(err, "OTU %s", items[0])
	}
	return &OtuTaxonomy{OTU: items[0], Size: size, Lineage: lineage}, nil
}

// String formats the record back into the 3-column table line.
func (o *OtuTaxonomy) String() string {
	return o.OTU + "\t" + strconv.Itoa(o.Size) + "\t" + o.Lineage.String()
}

// OtuMap maps OTU ids to their taxonomy records. It is built once from
// the taxonomy table and only read afterwards.
type OtuMap map[string]*OtuTaxonomy

// ReadOtuMap parses a mothur taxonomy table file into an OtuMap.
// The header line, if present, is skipped. A repeated OTU id is an
// error rather than a silent overwrite.
func ReadOtuMap(file string, threads int, chunkSize int) (OtuMap, error) {
	fn := func(line string) (interface{}, bool, error) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || line == TableHeader {
			return nil, false, nil
		}
		otu, err := ParseOtuTaxonomy(line)
		if err != nil {
			return nil, false, err
		}
		return otu, true, nil
	}
	reader, err := breader.NewBufferedReader(file, threads, chunkSize, fn)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	otuMap := make(OtuMap, 1024)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrap(chunk.Err, file)
		}
		for _, data := range chunk.Data {
			otu := data.(*OtuTaxonomy)
			if _, ok := otuMap[otu.OTU]; ok {
				return nil, errors.Wrapf(ErrDuplicateOTU, "%s in %s", otu.OTU, file)
			}
			otuMap[otu.OTU] = otu
		}
	}
	return otuMap, nil
}

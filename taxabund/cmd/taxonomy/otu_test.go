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
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseOtuTaxonomy(t *testing.T) {
	line := "Otu000001\t412495\tBacteria(100);Bacteroidetes(100);Sphingobacteriia(100);"
	otu, err := ParseOtuTaxonomy(line)
	if err != nil {
		t.Fatal(err)
	}
	if otu.OTU != "Otu000001" || otu.Size != 412495 {
		t.Errorf("unexpected record: %s/%d", otu.OTU, otu.Size)
	}
	if otu.Lineage.Depth() != 3 {
		t.Errorf("expected depth 3, got %d", otu.Lineage.Depth())
	}
	if otu.String() != line {
		t.Errorf("round trip failed: '%s'", otu.String())
	}
}

func TestParseOtuTaxonomyInvalid(t *testing.T) {
	for _, line := range []string{
		"Otu000001\t412495",
		"Otu000001\tmany\tBacteria(100);",
		"Otu000001\t1\tBacteria;",
	} {
		_, err := ParseOtuTaxonomy(line)
		if !errors.Is(err, ErrTaxonFormat) {
			t.Errorf("expected ErrTaxonFormat for '%s', got %v", line, err)
		}
	}
}

func writeTempFile(t *testing.T, name string, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadOtuMap(t *testing.T) {
	file := writeTempFile(t, "test.taxonomy",
		TableHeader+"\n"+
			"Otu01\t100\tBacteria(100);Proteobacteria(100);\n"+
			"Otu02\t50\tBacteria(100);uncultured(80);\n")

	otuMap, err := ReadOtuMap(file, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(otuMap) != 2 {
		t.Fatalf("expected 2 OTUs, got %d", len(otuMap))
	}
	if otuMap["Otu01"].Lineage.TaxonAt(1).Name != "Proteobacteria" {
		t.Errorf("unexpected phylum for Otu01")
	}
	// resolution ran at parse time
	if got := otuMap["Otu02"].Lineage.TaxonAt(1).UniqueName(); got != "Bacteria_phylum" {
		t.Errorf("expected Bacteria_phylum, got %s", got)
	}
}

func TestReadOtuMapDuplicate(t *testing.T) {
	file := writeTempFile(t, "dup.taxonomy",
		"Otu01\t100\tBacteria(100);\n"+
			"Otu01\t50\tArchaea(100);\n")

	_, err := ReadOtuMap(file, 1, 10)
	if !errors.Is(err, ErrDuplicateOTU) {
		t.Errorf("expected ErrDuplicateOTU, got %v", err)
	}
}

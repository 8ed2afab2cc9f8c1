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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempFile(t *testing.T, name string, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestWrite(t *testing.T) {
	src, _ := NewTaggedTable(
		[]string{"s1", "s2"},
		[]string{"Alpha", "Beta"},
		[][]float64{{0.75, 0.25}, {0.5, 0.5}},
	)
	var buf bytes.Buffer
	if err := src.Write(&buf, "\t", false); err != nil {
		t.Fatal(err)
	}
	expected := "\tAlpha\tBeta\n" +
		"s1\t0.75\t0.25\n" +
		"s2\t0.5\t0.5\n"
	if buf.String() != expected {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := src.Write(&buf, "\t", true); err != nil {
		t.Fatal(err)
	}
	expected = "\ts1\ts2\n" +
		"Alpha\t0.75\t0.5\n" +
		"Beta\t0.25\t0.5\n"
	if buf.String() != expected {
		t.Errorf("unexpected transposed output:\n%s", buf.String())
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	src, _ := NewTaggedTable(
		[]string{"s1", "s2"},
		[]string{"Alpha", "Beta", "Gamma"},
		[][]float64{{0.5, 0.25, 0.25}, {0.125, 0.75, 0.125}},
	)

	for _, transpose := range []bool{false, true} {
		var buf bytes.Buffer
		if err := src.Write(&buf, "\t", transpose); err != nil {
			t.Fatal(err)
		}
		file := writeTempFile(t, "table.tsv", buf.String())

		parsed, err := Read(file, "\t", transpose, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(parsed.RowTags, src.RowTags) ||
			!reflect.DeepEqual(parsed.ColTags, src.ColTags) ||
			!reflect.DeepEqual(parsed.Data, src.Data) {
			t.Errorf("round trip failed (transpose=%v): %+v", transpose, parsed)
		}
	}
}

func TestReadRagged(t *testing.T) {
	file := writeTempFile(t, "ragged.tsv",
		"\ta\tb\n"+
			"s1\t1\n")
	_, err := Read(file, "\t", false, 1, 10)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestReadShared(t *testing.T) {
	file := writeTempFile(t, "test.shared",
		"label\tGroup\tnumOtus\tOtu01\tOtu02\tOtu03\n"+
			"0.03\tsampleA\t3\t1\t2\t3\n"+
			"0.03\tsampleB\t3\t4\t5\t6\n")

	st, err := ReadShared(file, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(st.RowTags, []string{"sampleA", "sampleB"}) {
		t.Errorf("unexpected row tags: %v", st.RowTags)
	}
	if !reflect.DeepEqual(st.ColTags, []string{"Otu01", "Otu02", "Otu03"}) {
		t.Errorf("unexpected col tags: %v", st.ColTags)
	}
	if !reflect.DeepEqual(st.Labels, []string{"0.03", "0.03"}) {
		t.Errorf("unexpected labels: %v", st.Labels)
	}
	if !reflect.DeepEqual(st.NumOtus, []int{3, 3}) {
		t.Errorf("unexpected numOtus: %v", st.NumOtus)
	}
	if !reflect.DeepEqual(st.Data[1], []float64{4, 5, 6}) {
		t.Errorf("unexpected counts: %v", st.Data[1])
	}
}

func TestReadSharedInvalid(t *testing.T) {
	file := writeTempFile(t, "bad.shared",
		"label\tGroup\tnumOtus\tOtu01\n"+
			"0.03\tsampleA\t1\t-5\n")
	if _, err := ReadShared(file, 1, 10); err == nil {
		t.Error("expected error for negative count")
	}

	file = writeTempFile(t, "short.shared",
		"label\tGroup\tnumOtus\tOtu01\n")
	if _, err := ReadShared(file, 1, 10); !errors.Is(err, ErrShapeMismatch) {
		t.Error("expected ErrShapeMismatch for missing sample rows")
	}
}

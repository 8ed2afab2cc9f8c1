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
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
)

// readRows parses a delimited text file into rows of string fields,
// keeping the input row order.
func readRows(file string, delimiter string, threads int, chunkSize int) ([][]string, error) {
	if delimiter == "" {
		delimiter = "\t"
	}
	fn := func(line string) (interface{}, bool, error) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return nil, false, nil
		}
		return strings.Split(line, delimiter), true, nil
	}
	reader, err := breader.NewBufferedReader(file, threads, chunkSize, fn)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	rows := make([][]string, 0, 128)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrap(chunk.Err, file)
		}
		for _, data := range chunk.Data {
			rows = append(rows, data.([]string))
		}
	}
	return rows, nil
}

func transposeRows(rows [][]string) ([][]string, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	ncol := len(rows[0])
	out := make([][]string, ncol)
	for j := range out {
		out[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		if len(row) != ncol {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d fields, expected %d", i, len(row), ncol)
		}
		for j, v := range row {
			out[j][i] = v
		}
	}
	return out, nil
}

// Read parses a tagged table from a delimited text file: row 0 holds
// the column tags, column 0 the row tags, the top-left cell is ignored.
// With transposed the two axes are swapped before parsing, for tables
// saved with taxa as rows instead of columns.
func Read(file string, delimiter string, transposed bool, threads int, chunkSize int) (*TaggedTable, error) {
	rows, err := readRows(file, delimiter, threads, chunkSize)
	if err != nil {
		return nil, err
	}
	if transposed {
		rows, err = transposeRows(rows)
		if err != nil {
			return nil, errors.Wrap(err, file)
		}
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "empty table: %s", file)
	}

	colTags := rows[0][1:]
	rowTags := make([]string, 0, len(rows)-1)
	data := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(colTags)+1 {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d fields, expected %d: %s", i+1, len(row), len(colTags)+1, file)
		}
		rowTags = append(rowTags, row[0])
		values := make([]float64, len(colTags))
		for j, s := range row[1:] {
			values[j], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid value at row %d col %d: %s", i+1, j+1, file)
			}
		}
		data = append(data, values)
	}
	return NewTaggedTable(rowTags, colTags, data)
}

// Write serializes the table: row 0 is an empty cell followed by the
// column tags, later rows a row tag followed by the values. With
// transpose the axes are swapped on output.
func (t *TaggedTable) Write(w io.Writer, delimiter string, transpose bool) error {
	if delimiter == "" {
		delimiter = "\t"
	}

	cells := make([][]string, t.NumRows()+1)
	header := make([]string, t.NumCols()+1)
	copy(header[1:], t.ColTags)
	cells[0] = header
	for i, row := range t.Data {
		line := make([]string, len(row)+1)
		line[0] = t.RowTags[i]
		for j, v := range row {
			line[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		cells[i+1] = line
	}

	if transpose {
		var err error
		cells, err = transposeRows(cells)
		if err != nil {
			return err
		}
	}

	for _, line := range cells {
		if _, err := io.WriteString(w, strings.Join(line, delimiter)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

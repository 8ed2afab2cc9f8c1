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

package cmd

import (
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	prettytable "github.com/tatsushid/go-prettytable"
	"gopkg.in/yaml.v2"

	"github.com/zhanghao-bio/taxabund/taxabund/cmd/table"
)

type tableInfo struct {
	File    string  `yaml:"file"`
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	MinVal  float64 `yaml:"min"`
	MaxVal  float64 `yaml:"max"`
	RowSum0 float64 `yaml:"min-row-sum"`
	RowSum1 float64 `yaml:"max-row-sum"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print information of tagged tables",
	Long: `Print information of tagged tables

Dimensions, value range and row-sum range of one or more abundance
tables. Row sums of a normalized table should all be 1.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		outFile := getFlagString(cmd, "out-file")
		inputTransposed := getFlagBool(cmd, "input-transposed")
		asYAML := getFlagBool(cmd, "yaml")

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)

		infos := make([]tableInfo, 0, len(files))
		for _, file := range files {
			t, err := table.Read(expandPath(file), "\t", inputTransposed, opt.NumCPUs, opt.ChunkSize)
			checkError(err)
			infos = append(infos, summarize(file, t))
		}

		outfh, gw, w, err := outStream(outFile, isGzipName(outFile), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		if asYAML {
			data, err := yaml.Marshal(infos)
			checkError(err)
			outfh.Write(data)
			return
		}

		tbl, err := prettytable.NewTable(
			prettytable.Column{Header: "file"},
			prettytable.Column{Header: "rows", AlignRight: true},
			prettytable.Column{Header: "cols", AlignRight: true},
			prettytable.Column{Header: "min", AlignRight: true},
			prettytable.Column{Header: "max", AlignRight: true},
			prettytable.Column{Header: "min-row-sum", AlignRight: true},
			prettytable.Column{Header: "max-row-sum", AlignRight: true},
		)
		checkError(err)
		tbl.Separator = "  "

		for _, info := range infos {
			tbl.AddRow(
				info.File,
				humanize.Comma(int64(info.Rows)),
				humanize.Comma(int64(info.Cols)),
				fmt.Sprintf("%g", info.MinVal),
				fmt.Sprintf("%g", info.MaxVal),
				fmt.Sprintf("%g", info.RowSum0),
				fmt.Sprintf("%g", info.RowSum1),
			)
		}
		outfh.Write(tbl.Bytes())
	},
}

func summarize(file string, t *table.TaggedTable) tableInfo {
	info := tableInfo{File: file, Rows: t.NumRows(), Cols: t.NumCols()}
	first := true
	for i, row := range t.Data {
		var sum float64
		for _, v := range row {
			if first {
				info.MinVal, info.MaxVal = v, v
				first = false
			}
			if v < info.MinVal {
				info.MinVal = v
			}
			if v > info.MaxVal {
				info.MaxVal = v
			}
			sum += v
		}
		if i == 0 {
			info.RowSum0, info.RowSum1 = sum, sum
		}
		if sum < info.RowSum0 {
			info.RowSum0 = sum
		}
		if sum > info.RowSum1 {
			info.RowSum1 = sum
		}
	}
	return info
}

func init() {
	RootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("input-transposed", "", false, `read input tables as if transposed`)
	infoCmd.Flags().BoolP("yaml", "", false, `output in YAML instead of a pretty table`)
	infoCmd.Flags().StringP("out-file", "o", "-", `output file ("-" for stdout)`)
}

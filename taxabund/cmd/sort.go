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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhanghao-bio/taxabund/taxabund/cmd/table"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort the columns of a tagged table by descending abundance",
	Long: `Sort the columns of a tagged table by descending abundance

Sort methods:
  by-average: by descending column mean of the raw values.
  by-rank:    rows are converted to rank vectors first, columns then
              sorted by descending average rank. Less sensitive to a
              single sample with extreme values.

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

		inFile := "-"
		if len(args) > 0 {
			inFile = expandPath(args[0])
		}
		outFile := getFlagString(cmd, "out-file")
		delimiter := getFlagString(cmd, "delimiter")
		inputTransposed := getFlagBool(cmd, "input-transposed")
		transposeOutput := getFlagBool(cmd, "transpose-output")

		method, err := table.ParseSortMethod(getFlagString(cmd, "method"))
		checkError(err)

		t, err := table.Read(inFile, delimiter, inputTransposed, opt.NumCPUs, opt.ChunkSize)
		checkError(err)

		_, err = t.SortColsDescend(method, true)
		checkError(err)

		outfh, gw, w, err := outStream(outFile, isGzipName(outFile), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		checkError(t.Write(outfh, delimiter, transposeOutput))
	},
}

func init() {
	RootCmd.AddCommand(sortCmd)

	sortCmd.Flags().StringP("method", "m", "by-average", `sort method. available values: by-average, by-rank`)
	sortCmd.Flags().StringP("delimiter", "d", "\t", `field delimiter of the input and output tables`)
	sortCmd.Flags().BoolP("input-transposed", "", false, `read input table as if transposed`)
	sortCmd.Flags().StringP("out-file", "o", "-", `output table ("-" for stdout)`)
	sortCmd.Flags().BoolP("transpose-output", "", false, `transpose output table`)
}

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
	"bufio"
	"os"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/zhanghao-bio/taxabund/taxabund/cmd/table"
)

// tailColTag labels the merged low-abundance column.
const tailColTag = "[all others classified]"

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Reduce an abundance table to the taxa worth plotting",
	Long: `Reduce an abundance table to the taxa worth plotting

Two reduction modes:
  1. --taxon-list: keep exactly the taxa listed in the file (one name
     per line, in list order); taxa missing from the table get
     zero-filled columns.
  2. -n/--max-n-taxons: keep the first N columns and merge everything
     ranked lower into a single '` + tailColTag + `' column. Assumes
     the input is already sorted descending, as "taxabund abund"
     writes it.

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
		taxonListFile := getFlagString(cmd, "taxon-list")
		maxNTaxons := getFlagNonNegativeInt(cmd, "max-n-taxons")
		inputTransposed := getFlagBool(cmd, "input-transposed")
		transposeOutput := getFlagBool(cmd, "transpose-output")

		if opt.Verbose || opt.Log2File {
			log.Infof("taxabund v%s", VERSION)
			log.Info()
			if isStdin(inFile) {
				log.Info("no file given, reading from stdin")
			}
		}

		taxAbund, err := table.Read(inFile, "\t", inputTransposed, opt.NumCPUs, opt.ChunkSize)
		checkError(err)

		var out *table.TaggedTable
		if taxonListFile != "" {
			taxa, err := readTaxonList(expandPath(taxonListFile))
			checkError(err)
			if opt.Verbose || opt.Log2File {
				log.Infof("%s taxa loaded from %s", humanize.Comma(int64(len(taxa))), taxonListFile)
			}
			out = taxAbund.SelectCols(taxa)
		} else {
			out = taxAbund.MergeTail(maxNTaxons, tailColTag)
		}
		if opt.Verbose || opt.Log2File {
			log.Infof("%s of %s columns kept", humanize.Comma(int64(out.NumCols())), humanize.Comma(int64(taxAbund.NumCols())))
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

		checkError(out.Write(outfh, "\t", transposeOutput))
	},
}

// readTaxonList reads one taxon name per line, keeping list order.
func readTaxonList(file string) ([]string, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	taxa := make([]string, 0, 64)
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		taxa = append(taxa, line)
	}
	return taxa, scanner.Err()
}

func init() {
	RootCmd.AddCommand(topCmd)

	topCmd.Flags().StringP("taxon-list", "l", "", `if provided, only keep taxa listed in this file`)
	topCmd.Flags().IntP("max-n-taxons", "n", 20, `keep at most this many taxa; ignored if --taxon-list is used`)
	topCmd.Flags().BoolP("input-transposed", "", false, `read input table as if transposed`)
	topCmd.Flags().StringP("out-file", "o", "-", `output table ("-" for stdout)`)
	topCmd.Flags().BoolP("transpose-output", "", false, `transpose output table`)
}

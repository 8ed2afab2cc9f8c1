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
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zhanghao-bio/taxabund/taxabund/cmd/table"
	"github.com/zhanghao-bio/taxabund/taxabund/cmd/taxonomy"
)

var abundCmd = &cobra.Command{
	Use:   "abund",
	Short: "Compute relative taxonomic abundances at a given rank",
	Long: fmt.Sprintf(`Compute relative taxonomic abundances at a given rank

Input:
  1. The OTU count table ("shared" file) in mothur SOP output: -s/--shared
  2. The OTU taxonomy table in mothur SOP output: -t/--taxonomy

OTU counts are normalized per sample, then OTU columns are grouped
into taxon columns at the requested rank. OTUs not classified at that
rank, or classified below the bootstrap cutoff, are skipped.
Ambiguous taxon names ("uncultured...") are disambiguated with the
nearest named ancestor plus the rank, e.g. Bacteria_phylum.

Available ranks: %s

Output is a tab-delimited table, samples as rows and taxa as columns,
most abundant taxon first; use --transpose-output to swap the axes.

`, strings.Join(taxonomy.Ranks, ", ")),
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

		sharedFile := expandPath(getFlagString(cmd, "shared"))
		taxonomyFile := expandPath(getFlagString(cmd, "taxonomy"))
		outFile := getFlagString(cmd, "out-file")

		rank, err := taxonomy.ParseRank(strings.ToLower(getFlagString(cmd, "rank")))
		checkError(err)

		minBootstrap := getFlagNonNegativeInt(cmd, "min-bootstrap")
		if minBootstrap > 100 {
			checkError(fmt.Errorf("value of flag --min-bootstrap should be in range [0, 100]"))
		}

		sortBy, err := table.ParseSortMethod(getFlagString(cmd, "sort-by"))
		checkError(err)

		rawCounts := getFlagBool(cmd, "counts")
		transposeOutput := getFlagBool(cmd, "transpose-output")

		if opt.Verbose || opt.Log2File {
			log.Infof("taxabund v%s", VERSION)
			log.Info()
		}

		// ---------------------------------------------------------------

		if opt.Verbose || opt.Log2File {
			log.Infof("loading taxonomy table: %s", taxonomyFile)
		}
		otuMap, err := taxonomy.ReadOtuMap(taxonomyFile, opt.NumCPUs, opt.ChunkSize)
		checkError(err)
		if opt.Verbose || opt.Log2File {
			log.Infof("  %s OTUs loaded", humanize.Comma(int64(len(otuMap))))
		}

		if opt.Verbose || opt.Log2File {
			log.Infof("loading shared table: %s", sharedFile)
		}
		otuCount, err := table.ReadShared(sharedFile, opt.NumCPUs, opt.ChunkSize)
		checkError(err)
		if opt.Verbose || opt.Log2File {
			log.Infof("  %s samples x %s OTUs",
				humanize.Comma(int64(otuCount.NumRows())), humanize.Comma(int64(otuCount.NumCols())))
		}

		if !rawCounts {
			_, err = otuCount.NormalizeRows(true)
			checkError(err)
		}

		taxAbund, err := otuCount.GroupByTaxonomy(otuMap, rank, minBootstrap, sortBy)
		checkError(err)
		if opt.Verbose || opt.Log2File {
			log.Infof("%s taxa at rank '%s'", humanize.Comma(int64(taxAbund.NumCols())), taxonomy.Ranks[rank])
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

		checkError(taxAbund.Write(outfh, "\t", transposeOutput))
	},
}

func init() {
	RootCmd.AddCommand(abundCmd)

	abundCmd.Flags().StringP("shared", "s", "", `the OTU count table in mothur SOP output (required)`)
	abundCmd.Flags().StringP("taxonomy", "t", "", `the OTU taxonomy table in mothur SOP output (required)`)
	abundCmd.MarkFlagRequired("shared")
	abundCmd.MarkFlagRequired("taxonomy")

	abundCmd.Flags().StringP("rank", "r", "genus", `taxonomic rank to extract`)
	abundCmd.Flags().IntP("min-bootstrap", "", 0, `minimum bootstrap value (included) to account for taxonomic classification; 0 means accepting everything`)
	abundCmd.Flags().StringP("sort-by", "S", "by-average", `column sort method. available values: by-average, by-rank`)
	abundCmd.Flags().BoolP("counts", "", false, `output summed raw counts instead of per-sample fractions`)

	abundCmd.Flags().StringP("out-file", "o", "-", `output taxonomic abundance table ("-" for stdout)`)
	abundCmd.Flags().BoolP("transpose-output", "", false, `transpose output table; by default each row is a sample and each column is a taxon`)
}

/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/marctable/internal/ioavram"
	"github.com/gnames/marctable/internal/ioexport"
	"github.com/gnames/marctable/internal/iofs"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/config"
	"github.com/spf13/cobra"
)

// getBulkCmd returns the bulk command.
func getBulkCmd() *cobra.Command {
	var (
		flags   exportFlags
		to      string
		outDir  string
		jobsNum int
	)

	bulkCmd := &cobra.Command{
		Use:   "bulk <input>...",
		Short: "Convert many MARC files concurrently",
		Long: `Convert many MARC files, each into its own output file.

Outputs are placed into the output directory under the base name of
the input and the extension of the output format (.csv, .jsonl,
.parquet or .db). Rules are compiled once and shared by all files.
The first failed file stops the whole run.

Examples:
  # Every file to Parquet, 4 files at a time
  marctable bulk --to parquet -j 4 --out-dir out data/*.mrc

  # Titles of every file into its own SQLite database
  marctable bulk --to sqlite -r 001 -r 245 data/*.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := exportOptions(cmd, &flags)
			if cmd.Flags().Changed("jobs") {
				opts = append(opts, config.OptJobsNumber(jobsNum))
			}
			cfg.Update(opts)

			_, err := runBulk(cmd.Context(), args, to, outDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addExportFlags(bulkCmd, &flags)
	bulkCmd.Flags().StringVar(
		&to, "to", "csv",
		"output format: csv, jsonl, parquet or sqlite",
	)
	bulkCmd.Flags().StringVarP(
		&outDir, "out-dir", "o", ".",
		"directory for output files",
	)
	bulkCmd.Flags().IntVarP(
		&jobsNum, "jobs", "j", 0,
		"number of files converted concurrently",
	)
	return bulkCmd
}

func runBulk(
	ctx context.Context,
	inputs []string,
	to, outDir string,
) ([]marctable.Stats, error) {
	start := time.Now()
	schema, err := ioavram.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(outDir, 0755); err != nil {
		return nil, iofs.CreateDirError(outDir, err)
	}

	jobs := ioexport.Jobs(inputs, outDir, to)
	gn.Info(
		"Converting <em>%d</em> files to %s, %d at a time",
		len(jobs), to, max(cfg.JobsNumber, 1),
	)

	res, err := ioexport.Bulk(ctx, cfg, schema, jobs)
	if err != nil {
		return res, err
	}

	var total marctable.Stats
	for _, v := range res {
		total.Records += v.Records
		total.Skipped += v.Skipped
		total.Batches += v.Batches
	}
	total.Duration = time.Since(start)

	gn.Info(
		"Exported <em>%s</em> records from %d files in %s",
		humanize.Comma(int64(total.Records)),
		len(jobs),
		gnfmt.TimeString(total.Duration.Seconds()),
	)
	if total.Skipped > 0 {
		gn.Warn(
			"<warn>Skipped %s malformed records, see the log for details</warn>",
			humanize.Comma(int64(total.Skipped)),
		)
	}
	return res, nil
}

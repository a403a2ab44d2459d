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
	"errors"
	"os"

	"github.com/gnames/gn"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/config"
	"github.com/spf13/cobra"
)

// getParquetCmd returns the parquet command.
func getParquetCmd() *cobra.Command {
	var (
		flags       exportFlags
		compression string
	)

	parquetCmd := &cobra.Command{
		Use:   "parquet <input> [output]",
		Short: "Convert MARC records to Parquet",
		Long: `Convert MARC records to a Parquet file.

Every batch of records becomes a row group. Columns are nullable
strings, repeatable fields and subfields are lists of strings.

Input is ISO 2709 or MARCXML, "-" reads from stdin. Without output
the result goes to stdout, unless stdout is a terminal.

Examples:
  # Default snappy compression, 1000 rows per row group
  marctable parquet records.mrc out.parquet

  # Smaller row groups with zstd
  marctable parquet -b 1000 -c zstd records.mrc out.parquet`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := exportOptions(cmd, &flags)
			if cmd.Flags().Changed("compression") {
				opts = append(opts, config.OptParquetCompression(compression))
			}
			cfg.Update(opts)

			output := outputArg(args)
			if output == "-" && isTerminal(os.Stdout) {
				gn.Warn("<warn>Parquet output needs a file or a pipe</warn>")
				return errors.New("parquet output to terminal")
			}

			_, err := runStream(
				cmd.Context(), args[0], output,
				marctable.Exporter.ToParquet,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addExportFlags(parquetCmd, &flags)
	parquetCmd.Flags().StringVarP(
		&compression, "compression", "c", "",
		"compression codec: snappy, zstd, gzip or none",
	)
	return parquetCmd
}

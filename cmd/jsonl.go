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
	"github.com/gnames/gn"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/spf13/cobra"
)

// getJSONLCmd returns the jsonl command.
func getJSONLCmd() *cobra.Command {
	var flags exportFlags

	jsonlCmd := &cobra.Command{
		Use:   "jsonl <input> [output]",
		Short: "Convert MARC records to JSONL",
		Long: `Convert MARC records to JSON Lines, one object per record.

Every record becomes a row. Columns are named F<tag> for whole fields
and F<tag><code> for subfields. Absent fields are left out of the
object, list values are JSON arrays.

Input is ISO 2709 or MARCXML, "-" reads from stdin. Without output
the result goes to stdout.

Examples:
  # All fields of the schema
  marctable jsonl records.mrc out.jsonl

  # Title and subjects only
  marctable jsonl -r 245a -r 650 records.mrc out.jsonl

  # MARCXML from stdin
  cat records.xml | marctable jsonl -f xml - > out.jsonl`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(exportOptions(cmd, &flags))
			_, err := runStream(
				cmd.Context(), args[0], outputArg(args),
				marctable.Exporter.ToJSONL,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addExportFlags(jsonlCmd, &flags)
	return jsonlCmd
}

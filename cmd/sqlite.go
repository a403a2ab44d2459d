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

	"github.com/gnames/gn"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/config"
	"github.com/spf13/cobra"
)

// getSQLiteCmd returns the sqlite command.
func getSQLiteCmd() *cobra.Command {
	var (
		flags exportFlags
		table string
	)

	sqliteCmd := &cobra.Command{
		Use:   "sqlite <input> <database>",
		Short: "Load MARC records into a SQLite table",
		Long: `Load MARC records into a table of a SQLite database.

The database file is created if it does not exist. The table is
dropped and created again on every run. Every column is TEXT, absent
values are NULL, list values are JSON arrays.

Examples:
  # Records go to the "records" table
  marctable sqlite records.mrc marc.db

  # A different table
  marctable sqlite --table titles -r 001 -r 245 records.mrc marc.db`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := exportOptions(cmd, &flags)
			if cmd.Flags().Changed("table") {
				opts = append(opts, config.OptSQLiteTable(table))
			}
			cfg.Update(opts)

			_, err := runSQLite(cmd.Context(), args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addExportFlags(sqliteCmd, &flags)
	sqliteCmd.Flags().StringVarP(
		&table, "table", "t", "",
		"name of the table",
	)
	return sqliteCmd
}

func runSQLite(
	ctx context.Context,
	input, dbPath string,
) (marctable.Stats, error) {
	var stats marctable.Stats
	exp, err := newExporter(input)
	if err != nil {
		return stats, err
	}

	in, closeIn, err := openInput(input)
	if err != nil {
		return stats, err
	}
	defer closeIn()

	stats, err = exp.ToSQLite(ctx, in, dbPath)
	if err != nil {
		return stats, err
	}
	printStats(stats, dbPath+":"+cfg.SQLite.Table)
	return stats, nil
}

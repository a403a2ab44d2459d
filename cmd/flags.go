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
	"github.com/gnames/marctable/pkg/config"
	"github.com/spf13/cobra"
)

// exportFlags keeps flags shared by all export commands.
type exportFlags struct {
	rules     []string
	batchSize int
	schema    string
	format    string
	charset   string
	normalize bool
	progress  bool
}

func addExportFlags(cmd *cobra.Command, f *exportFlags) {
	cmd.Flags().StringArrayVarP(
		&f.rules, "rule", "r", nil,
		"field selection rule, e.g. 245 or 260ac (repeatable, empty = all fields)",
	)
	cmd.Flags().IntVarP(
		&f.batchSize, "batch", "b", 0,
		"number of rows per batch",
	)
	cmd.Flags().StringVarP(
		&f.schema, "schema", "s", "",
		"Avram schema file (JSON or YAML)",
	)
	cmd.Flags().StringVarP(
		&f.format, "format", "f", "",
		"input format: auto, marc or xml",
	)
	cmd.Flags().StringVar(
		&f.charset, "charset", "",
		"invalid UTF-8 handling: strict or replace",
	)
	cmd.Flags().BoolVar(
		&f.normalize, "normalize", false,
		"normalize values to Unicode NFC",
	)
	cmd.Flags().BoolVarP(
		&f.progress, "progress", "p", false,
		"show progress bar for input file",
	)
}

// exportOptions builds options from explicitly set flags, so values
// from config.yaml and env variables are not overridden by defaults.
func exportOptions(cmd *cobra.Command, f *exportFlags) []config.Option {
	var res []config.Option
	flags := cmd.Flags()

	if flags.Changed("rule") {
		res = append(res, config.OptExportRules(f.rules))
	}
	if flags.Changed("batch") {
		res = append(res, config.OptExportBatchSize(f.batchSize))
	}
	if flags.Changed("schema") {
		res = append(res, config.OptExportSchemaFile(f.schema))
	}
	if flags.Changed("format") {
		res = append(res, config.OptInputFormat(f.format))
	}
	if flags.Changed("charset") {
		res = append(res, config.OptInputCharset(f.charset))
	}
	if flags.Changed("normalize") {
		res = append(res, config.OptInputNormalize(f.normalize))
	}
	if flags.Changed("progress") {
		res = append(res, config.OptWithProgress(f.progress))
	}
	return res
}

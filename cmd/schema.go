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
	"fmt"
	"io"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/internal/ioavram"
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/config"
	"github.com/gnames/marctable/pkg/rules"
	"github.com/spf13/cobra"
)

// getSchemaCmd returns the schema command.
func getSchemaCmd() *cobra.Command {
	var (
		schemaFile string
		savePath   string
	)

	schemaCmd := &cobra.Command{
		Use:   "schema [tag[codes]]",
		Short: "Show fields and subfields of the schema",
		Long: `Show fields and subfields of the Avram schema.

Without arguments all fields are listed as
  <tag> <label>: <R|NR> : <subfield codes>
where R marks repeatable and NR non-repeatable fields. With a tag the
field and its subfields are shown, with a tag and codes only the
given subfields are shown.

Examples:
  marctable schema
  marctable schema 245
  marctable schema 260ac

  # Save the schema as JSON to edit it
  marctable schema --save my-schema.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("schema") {
				cfg.Update([]config.Option{config.OptExportSchemaFile(schemaFile)})
			}
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			err := runSchema(cmd.OutOrStdout(), arg, savePath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	schemaCmd.Flags().StringVarP(
		&schemaFile, "schema", "s", "",
		"Avram schema file (JSON or YAML)",
	)
	schemaCmd.Flags().StringVar(
		&savePath, "save", "",
		"write the schema as JSON to a file",
	)
	return schemaCmd
}

func runSchema(w io.Writer, arg, savePath string) error {
	schema, err := ioavram.FromConfig(cfg)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err = ioavram.SaveFile(savePath, schema); err != nil {
			return err
		}
		gn.Info("Schema saved to <em>%s</em>", savePath)
		return nil
	}

	if arg == "" {
		fmt.Fprintf(w, "%s (%d fields)\n", schema.Title, schema.Len())
		for _, f := range schema.Fields() {
			fmt.Fprintln(w, f.String())
		}
		return nil
	}

	if len(arg) < 3 {
		return rules.InvalidRuleError(arg, avram.UnknownFieldError(arg))
	}
	tag := arg[:3]
	f, err := schema.Field(tag)
	if err != nil {
		return err
	}

	if len(arg) == 3 {
		fmt.Fprintln(w, f.String())
		if f.URL != "" {
			fmt.Fprintln(w, f.URL)
		}
		for _, sf := range f.Subfields {
			fmt.Fprintf(w, "  %s\n", sf.String())
		}
		return nil
	}

	for _, r := range arg[3:] {
		sf, err := schema.Subfield(tag, string(r))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%s\n", tag, sf.String())
	}
	return nil
}

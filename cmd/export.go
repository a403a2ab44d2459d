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
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/marctable/internal/ioavram"
	"github.com/gnames/marctable/internal/ioexport"
	"github.com/gnames/marctable/internal/iofs"
	"github.com/gnames/marctable/internal/iomarc"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/config"
)

// streamFunc is an Exporter method that writes rows to a stream.
type streamFunc func(
	marctable.Exporter, context.Context, io.Reader, io.Writer,
) (marctable.Stats, error)

// newExporter loads the configured schema and compiles rules. The
// input format is resolved by the extension of input, the shared
// configuration stays unchanged.
func newExporter(input string) (marctable.Exporter, error) {
	schema, err := ioavram.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	c := *cfg
	c.Update([]config.Option{
		config.OptInputFormat(iomarc.FormatFromName(input, cfg.Input.Format)),
	})
	return ioexport.New(&c, schema)
}

// openInput opens the input file. With --progress the reader reports
// read bytes on stderr.
func openInput(path string) (io.Reader, func(), error) {
	f, closeFn, err := iofs.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.WithProgress {
		return f, func() { _ = closeFn() }, nil
	}

	r, stop := ioexport.WithProgress(f, "reading ")
	return r, func() {
		stop()
		_ = closeFn()
	}, nil
}

// runStream converts input to a CSV, JSONL or Parquet output.
func runStream(
	ctx context.Context,
	input, output string,
	export streamFunc,
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

	out, closeOut, err := iofs.CreateFile(output)
	if err != nil {
		return stats, err
	}

	stats, err = export(exp, ctx, in, out)
	if closeErr := closeOut(); err == nil && closeErr != nil {
		err = ioexport.ExportOutputError(output, closeErr)
	}
	if err != nil {
		return stats, err
	}

	if output != "-" && output != "" {
		printStats(stats, output)
	}
	return stats, nil
}

// printStats shows the summary of an export.
func printStats(stats marctable.Stats, output string) {
	gn.Info(
		"Exported <em>%s</em> records to <em>%s</em> in %s",
		humanize.Comma(int64(stats.Records)),
		output,
		gnfmt.TimeString(stats.Duration.Seconds()),
	)
	if stats.Skipped > 0 {
		gn.Warn(
			"<warn>Skipped %s malformed records, see the log for details</warn>",
			humanize.Comma(int64(stats.Skipped)),
		)
	}
}

// outputArg returns the second positional argument or "-" for stdout.
func outputArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return "-"
}

// isTerminal reports whether stdout is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

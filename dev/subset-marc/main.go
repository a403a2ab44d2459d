// subset-marc extracts a sample of records from a large MARC file.
//
// The sample is used for test data and for quick experiments with rules.
// It keeps every n-th record until the target size is reached, so records
// from the whole file are represented. Malformed records are skipped.
// The output is always ISO 2709, MARCXML input is converted.
//
// Usage:
//
//	go run . <source> <output> [size]
//
// Examples:
//
//	go run . /data/loc/BooksAll.2016.part01.xml ../../testdata/books-subset.mrc
//	go run . /data/loc/Serials.2014.part01.mrc ../../testdata/serials-subset.mrc 500
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/gnames/marctable/internal/iomarc"
	"github.com/gnames/marctable/internal/iotesting"
)

const (
	// Default number of records in the sample
	targetRecords = 1000

	// Records to count before sampling starts, used to pick the step
	probeRecords = 100_000
)

func main() {
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <source> <output> [size]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source  MARC file (ISO 2709 or MARCXML)\n")
		fmt.Fprintf(os.Stderr, "  output  Path for the ISO 2709 sample\n")
		fmt.Fprintf(os.Stderr, "  size    Number of records, default %d\n", targetRecords)
		os.Exit(1)
	}

	source := os.Args[1]
	output := os.Args[2]
	size := targetRecords
	if len(os.Args) == 4 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "Invalid size %q\n", os.Args[3])
			os.Exit(1)
		}
		size = n
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting MARC subset extraction",
		"source", source,
		"target_size", size,
		"output", output,
	)

	total, err := countRecords(source)
	if err != nil {
		logger.Error("cannot read source", "error", err)
		os.Exit(1)
	}
	step := max(total/size, 1)
	logger.Info("source scanned", "records", total, "step", step)

	written, err := createSubset(logger, source, output, step, size)
	if err != nil {
		logger.Error("subset extraction failed", "error", err)
		os.Exit(1)
	}

	logger.Info("subset created", "records", written, "output", output)
}

func openReader(path string) (iomarc.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	format := iomarc.FormatFromName(path, "auto")
	r, err := iomarc.NewReader(f, format, iomarc.OptCharset("replace"))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f.Close, nil
}

// countRecords counts well-formed records, stopping at probeRecords.
func countRecords(path string) (int, error) {
	r, closeFn, err := openReader(path)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	var res int
	for res < probeRecords {
		_, err = r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		res++
	}
	return res, nil
}

func createSubset(
	logger *slog.Logger,
	source, output string,
	step, size int,
) (int, error) {
	r, closeFn, err := openReader(source)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	out, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	w := iotesting.NewBinaryWriter(out)
	for i := 0; w.Written() < size; i++ {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return w.Written(), err
		}
		if i%step != 0 {
			continue
		}
		if err = w.Write(rec); err != nil {
			return w.Written(), err
		}
	}

	if r.Skipped() > 0 {
		logger.Warn("malformed records skipped", "count", r.Skipped())
	}
	return w.Written(), nil
}

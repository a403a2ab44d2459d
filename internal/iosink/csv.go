package iosink

import (
	"encoding/csv"
	"io"

	"github.com/gnames/marctable/pkg/pipeline"
	"github.com/gnames/marctable/pkg/rules"
)

// CSVWriter writes a header line and one line per row. List cells are
// JSON arrays.
type CSVWriter struct {
	w      *csv.Writer
	cols   []string
	header bool
	closed bool
}

// NewCSV creates a CSV writer.
func NewCSV(w io.Writer, cols []rules.Column) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), cols: names(cols)}
}

// WriteBatch writes rows of the batch, and the header before the
// first batch.
func (cw *CSVWriter) WriteBatch(b pipeline.Batch) error {
	if cw.closed {
		return SinkClosedError("CSV")
	}
	if err := cw.writeHeader(); err != nil {
		return err
	}
	rec := make([]string, len(cw.cols))
	for _, r := range b.Rows {
		for i, col := range cw.cols {
			s, err := cell(r.Get(col))
			if err != nil {
				return err
			}
			rec[i] = s
		}
		if err := cw.w.Write(rec); err != nil {
			return err
		}
	}
	cw.w.Flush()
	return cw.w.Error()
}

// Close writes the header if no batch arrived and flushes the output.
// It does not close the underlying writer.
func (cw *CSVWriter) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	if err := cw.writeHeader(); err != nil {
		return err
	}
	cw.w.Flush()
	return cw.w.Error()
}

func (cw *CSVWriter) writeHeader() error {
	if cw.header {
		return nil
	}
	cw.header = true
	return cw.w.Write(cw.cols)
}

package iosink

import (
	"bufio"
	"io"

	"github.com/gnames/marctable/pkg/pipeline"
	"github.com/gnames/marctable/pkg/rules"
)

// JSONLWriter writes one JSON object per line. Objects have only the
// columns with data, keys follow the column order.
type JSONLWriter struct {
	w      *bufio.Writer
	cols   []string
	closed bool
}

// NewJSONL creates a JSON Lines writer.
func NewJSONL(w io.Writer, cols []rules.Column) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w), cols: names(cols)}
}

// WriteBatch writes rows of the batch.
func (jw *JSONLWriter) WriteBatch(b pipeline.Batch) error {
	if jw.closed {
		return SinkClosedError("JSONL")
	}
	for _, r := range b.Rows {
		jw.w.WriteByte('{')
		for i, col := range r.Keys(jw.cols) {
			if i > 0 {
				jw.w.WriteByte(',')
			}
			k, err := marshal(col)
			if err != nil {
				return err
			}
			jw.w.Write(k)
			jw.w.WriteByte(':')

			v := r.Get(col)
			var val any = v.Strings()
			if s, ok := v.Scalar(); ok {
				val = s
			}
			bs, err := marshal(val)
			if err != nil {
				return err
			}
			jw.w.Write(bs)
		}
		if _, err := jw.w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return jw.w.Flush()
}

// Close flushes the output. It does not close the underlying writer.
func (jw *JSONLWriter) Close() error {
	if jw.closed {
		return nil
	}
	jw.closed = true
	return jw.w.Flush()
}

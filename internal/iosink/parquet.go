package iosink

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/gnames/marctable/pkg/pipeline"
	"github.com/gnames/marctable/pkg/rules"
)

// ParquetWriter writes every batch as a separate row group. Columns
// are nullable strings, repeatable columns are nullable lists of
// strings.
type ParquetWriter struct {
	cols   []rules.Column
	schema *arrow.Schema
	fw     *pqarrow.FileWriter
	closed bool
}

// NewParquet creates a Parquet writer. Compression is one of snappy,
// zstd, gzip or none.
func NewParquet(
	w io.Writer,
	cols []rules.Column,
	compression string,
) (*ParquetWriter, error) {
	cmp, err := codecByName(compression)
	if err != nil {
		return nil, SinkSchemaError("Parquet", err)
	}
	schema := ArrowSchema(cols)
	props := parquet.NewWriterProperties(
		parquet.WithCompression(cmp),
		parquet.WithAllocator(memory.DefaultAllocator),
	)
	// the file writer closes its sink, the caller owns w
	fw, err := pqarrow.NewFileWriter(
		schema, struct{ io.Writer }{w}, props, pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return nil, SinkSchemaError("Parquet", err)
	}
	return &ParquetWriter{cols: cols, schema: schema, fw: fw}, nil
}

// ArrowSchema converts column descriptions into an Arrow schema.
func ArrowSchema(cols []rules.Column) *arrow.Schema {
	fields := make([]arrow.Field, len(cols))
	for i, v := range cols {
		var typ arrow.DataType = arrow.BinaryTypes.String
		if v.Repeatable {
			typ = arrow.ListOf(arrow.BinaryTypes.String)
		}
		fields[i] = arrow.Field{Name: v.Name, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func codecByName(name string) (compress.Compression, error) {
	switch name {
	case "snappy", "":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "none":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed,
			fmt.Errorf("unknown compression '%s'", name)
	}
}

// WriteBatch writes the batch as one row group. Empty batches are
// ignored.
func (pw *ParquetWriter) WriteBatch(b pipeline.Batch) error {
	if pw.closed {
		return SinkClosedError("Parquet")
	}
	if b.Len() == 0 {
		return nil
	}

	rb := array.NewRecordBuilder(memory.DefaultAllocator, pw.schema)
	defer rb.Release()

	for i, col := range pw.cols {
		if col.Repeatable {
			lb := rb.Field(i).(*array.ListBuilder)
			vb := lb.ValueBuilder().(*array.StringBuilder)
			for _, r := range b.Rows {
				v := r.Get(col.Name)
				if v.IsAbsent() {
					lb.AppendNull()
					continue
				}
				lb.Append(true)
				for _, s := range v.Strings() {
					vb.Append(s)
				}
			}
			continue
		}

		sb := rb.Field(i).(*array.StringBuilder)
		for _, r := range b.Rows {
			s, ok := r.Get(col.Name).Scalar()
			if !ok {
				sb.AppendNull()
				continue
			}
			sb.Append(s)
		}
	}

	rec := rb.NewRecord()
	defer rec.Release()
	return pw.fw.Write(rec)
}

// Close writes the file footer. It does not close the underlying
// writer.
func (pw *ParquetWriter) Close() error {
	if pw.closed {
		return nil
	}
	pw.closed = true
	return pw.fw.Close()
}

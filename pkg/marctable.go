// Package marctable holds the version information and the top-level
// interfaces of the MARC to table converter.
package marctable

import (
	"context"
	"io"
	"time"

	"github.com/gnames/marctable/pkg/pipeline"
)

var (
	// Version of marctable, set by ldflags during the build.
	Version = "v0.1.0"
	// Build timestamp, set by ldflags during the build.
	Build = "n/a"
)

// Exporter converts a stream of MARC records into tabular output.
// Rules and schema are fixed when the Exporter is created, so a rule
// that does not fit the schema is reported before any input is read.
type Exporter interface {
	// ToCSV writes rows as CSV with a header line.
	ToCSV(ctx context.Context, in io.Reader, out io.Writer) (Stats, error)

	// ToJSONL writes one JSON object per row.
	ToJSONL(ctx context.Context, in io.Reader, out io.Writer) (Stats, error)

	// ToParquet writes a Parquet file with one row group per batch.
	ToParquet(ctx context.Context, in io.Reader, out io.Writer) (Stats, error)

	// ToSQLite inserts rows into a table of a SQLite database at dbPath.
	ToSQLite(ctx context.Context, in io.Reader, dbPath string) (Stats, error)

	// ToTable loads the whole input into memory as a single table.
	ToTable(ctx context.Context, in io.Reader) (*pipeline.Table, Stats, error)

	// Columns returns the output columns in their order.
	Columns() []string
}

// Stats summarizes one export run.
type Stats struct {
	// Records is the number of rows written.
	Records int
	// Skipped is the number of malformed records that were dropped.
	Skipped int
	// Batches is the number of batches handed to the sink.
	Batches int
	// Duration is the wall time of the export.
	Duration time.Duration
}

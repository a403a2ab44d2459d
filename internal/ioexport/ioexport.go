// Package ioexport implements marctable.Exporter. It connects record
// readers, the projector, the batching pipeline and sink writers.
package ioexport

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gnames/marctable/internal/iomarc"
	"github.com/gnames/marctable/internal/iosink"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/config"
	"github.com/gnames/marctable/pkg/pipeline"
	"github.com/gnames/marctable/pkg/row"
	"github.com/gnames/marctable/pkg/rules"
)

type exporter struct {
	input       config.InputConfig
	batchSize   int
	compression string
	table       string
	schema      *avram.Schema
	mapping     *rules.Mapping
	proj        *row.Projector
}

// New creates an Exporter. Rules from the configuration are compiled
// against the schema here, so invalid rules are reported before any
// input is read. A nil schema means the default MARC21 schema.
//
// Settings are copied from cfg, later changes of cfg do not affect the
// Exporter. It does not change after creation and can be used by
// several goroutines at once.
func New(cfg *config.Config, schema *avram.Schema) (marctable.Exporter, error) {
	if schema == nil {
		schema = avram.Default()
	}
	m, err := rules.Compile(cfg.Export.Rules, schema)
	if err != nil {
		return nil, err
	}
	proj, err := row.NewProjector(m, schema)
	if err != nil {
		return nil, err
	}
	res := exporter{
		input:       cfg.Input,
		batchSize:   cfg.Export.BatchSize,
		compression: cfg.Parquet.Compression,
		table:       cfg.SQLite.Table,
		schema:      schema,
		mapping:     m,
		proj:        proj,
	}
	return &res, nil
}

// Columns returns the output columns in their order.
func (e *exporter) Columns() []string {
	return e.proj.ColumnNames()
}

// ToCSV writes rows as CSV.
func (e *exporter) ToCSV(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
) (marctable.Stats, error) {
	w := iosink.NewCSV(out, e.proj.Columns())
	return e.run(ctx, in, w, e.batchSize)
}

// ToJSONL writes rows as JSON Lines.
func (e *exporter) ToJSONL(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
) (marctable.Stats, error) {
	w := iosink.NewJSONL(out, e.proj.Columns())
	return e.run(ctx, in, w, e.batchSize)
}

// ToParquet writes rows as a Parquet file.
func (e *exporter) ToParquet(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
) (marctable.Stats, error) {
	w, err := iosink.NewParquet(out, e.proj.Columns(), e.compression)
	if err != nil {
		return marctable.Stats{}, err
	}
	return e.run(ctx, in, w, e.batchSize)
}

// ToSQLite inserts rows into a table of the database at dbPath.
func (e *exporter) ToSQLite(
	ctx context.Context,
	in io.Reader,
	dbPath string,
) (marctable.Stats, error) {
	w, err := iosink.NewSQLite(ctx, dbPath, e.table, e.proj.Columns())
	if err != nil {
		return marctable.Stats{}, err
	}
	return e.run(ctx, in, w, e.batchSize)
}

// ToTable reads the whole input into memory.
func (e *exporter) ToTable(
	ctx context.Context,
	in io.Reader,
) (*pipeline.Table, marctable.Stats, error) {
	var stats marctable.Stats
	start := time.Now()
	rd, err := e.reader(in)
	if err != nil {
		return nil, stats, err
	}
	tbl, err := pipeline.ToTable(ctx, rd, e.proj)
	if err != nil {
		return nil, stats, err
	}
	stats.Records = tbl.Len()
	stats.Skipped = rd.Skipped()
	if tbl.Len() > 0 {
		stats.Batches = 1
	}
	stats.Duration = time.Since(start)
	return tbl, stats, nil
}

func (e *exporter) reader(in io.Reader) (iomarc.Reader, error) {
	return iomarc.NewReader(in, e.input.Format,
		iomarc.OptCharset(e.input.Charset),
		iomarc.OptNormalize(e.input.Normalize),
	)
}

// run streams batches into the writer. The writer is closed in any
// case, the first error wins.
func (e *exporter) run(
	ctx context.Context,
	in io.Reader,
	w iosink.Writer,
	size int,
) (marctable.Stats, error) {
	var stats marctable.Stats
	start := time.Now()

	rd, err := e.reader(in)
	if err != nil {
		w.Close()
		return stats, err
	}

	stats.Batches, err = pipeline.Each(ctx, rd, e.proj, size,
		func(b pipeline.Batch) error {
			if err := w.WriteBatch(b); err != nil {
				return err
			}
			stats.Records += b.Len()
			slog.Debug("Batch written", "batch", b.Seq, "rows", b.Len())
			return nil
		},
	)
	closeErr := w.Close()
	stats.Skipped = rd.Skipped()
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}
	if closeErr != nil {
		return stats, closeErr
	}

	slog.Info("Export finished",
		"records", stats.Records,
		"skipped", stats.Skipped,
		"batches", stats.Batches,
		"duration", stats.Duration,
	)
	return stats, nil
}

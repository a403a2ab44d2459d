package ioexport

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/config"
	"golang.org/x/sync/errgroup"
)

// Job is one file of a bulk export.
type Job struct {
	// Input is a path to a MARC file.
	Input string
	// Output is a path to the result. For sqlite it is a database file.
	Output string
	// Format of the output: csv, jsonl, parquet or sqlite.
	Format string
}

// Extension returns the file extension used for an output format.
func Extension(format string) string {
	if format == "sqlite" {
		return ".db"
	}
	return "." + format
}

// Jobs creates a job for every input file with the output placed in
// outDir under the input's base name.
func Jobs(inputs []string, outDir, format string) []Job {
	res := make([]Job, len(inputs))
	for i, v := range inputs {
		base := filepath.Base(v)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		res[i] = Job{
			Input:  v,
			Output: filepath.Join(outDir, base+Extension(format)),
			Format: format,
		}
	}
	return res
}

// Bulk runs independent exports concurrently, at most cfg.JobsNumber
// at a time. Rules are compiled once for all jobs. Stats are returned
// in the order of jobs. The first failed job cancels the others.
func Bulk(
	ctx context.Context,
	cfg *config.Config,
	schema *avram.Schema,
	jobs []Job,
) ([]marctable.Stats, error) {
	exp, err := New(cfg, schema)
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if !validOutput(job.Format) {
			return nil, UnknownOutputError(job.Format)
		}
	}

	res := make([]marctable.Stats, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.JobsNumber, 1))
	for i, job := range jobs {
		g.Go(func() error {
			stats, err := ExportFile(gCtx, exp, job)
			if err != nil {
				return BulkExportError(job.Input, err)
			}
			res[i] = stats
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// ExportFile runs one job with the given Exporter.
func ExportFile(
	ctx context.Context,
	exp marctable.Exporter,
	job Job,
) (marctable.Stats, error) {
	var stats marctable.Stats
	in, err := os.Open(job.Input)
	if err != nil {
		return stats, ExportInputError(job.Input, err)
	}
	defer in.Close()

	if job.Format == "sqlite" {
		return exp.ToSQLite(ctx, in, job.Output)
	}

	out, err := os.Create(job.Output)
	if err != nil {
		return stats, ExportOutputError(job.Output, err)
	}

	switch job.Format {
	case "csv":
		stats, err = exp.ToCSV(ctx, in, out)
	case "jsonl":
		stats, err = exp.ToJSONL(ctx, in, out)
	case "parquet":
		stats, err = exp.ToParquet(ctx, in, out)
	default:
		err = UnknownOutputError(job.Format)
	}
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = ExportOutputError(job.Output, closeErr)
	}
	return stats, err
}

func validOutput(format string) bool {
	switch format {
	case "csv", "jsonl", "parquet", "sqlite":
		return true
	default:
		return false
	}
}

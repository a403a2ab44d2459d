// Package pipeline groups projected rows into batches.
//
// Records are decoded and projected one at a time. A batch is handed
// to the caller as soon as it has the requested number of rows, so
// memory use is bounded by the batch size. Batch size 0 collects the
// whole input into one batch.
package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/gnames/marctable/pkg/marc"
	"github.com/gnames/marctable/pkg/row"
)

// Source produces decoded records. Next returns io.EOF after the
// last record.
type Source interface {
	Next() (*marc.Record, error)
}

// Batch is a group of rows.
type Batch struct {
	// Seq is the 0-based number of the batch.
	Seq int
	// Rows in input order.
	Rows []row.Row
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int {
	return len(b.Rows)
}

// Iterator reads a Source and returns batches of projected rows.
type Iterator struct {
	src  Source
	proj *row.Projector
	size int
	seq  int
	done bool
}

// New creates an Iterator. A size of 0 or less means all records
// go to one batch.
func New(src Source, proj *row.Projector, size int) *Iterator {
	if size < 0 {
		size = 0
	}
	return &Iterator{src: src, proj: proj, size: size}
}

// Next returns the next batch, or io.EOF when the source is exhausted.
// The last batch can be smaller than the batch size, an empty input
// produces no batches. Errors of the source and of the projection
// stop the iteration and are returned as is.
func (it *Iterator) Next(ctx context.Context) (Batch, error) {
	if it.done {
		return Batch{}, io.EOF
	}

	var rows []row.Row
	if it.size > 0 {
		rows = make([]row.Row, 0, it.size)
	}
	for it.size == 0 || len(rows) < it.size {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		rec, err := it.src.Next()
		if errors.Is(err, io.EOF) {
			it.done = true
			break
		}
		if err != nil {
			return Batch{}, err
		}
		r, err := it.proj.Project(rec)
		if err != nil {
			return Batch{}, err
		}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		return Batch{}, io.EOF
	}
	res := Batch{Seq: it.seq, Rows: rows}
	it.seq++
	return res, nil
}

// Each calls fn for every batch and returns the number of batches
// handed to fn. An error from fn stops the iteration.
func Each(
	ctx context.Context,
	src Source,
	proj *row.Projector,
	size int,
	fn func(Batch) error,
) (int, error) {
	it := New(src, proj, size)
	var count int
	for {
		b, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if err = fn(b); err != nil {
			return count, err
		}
		count++
	}
}

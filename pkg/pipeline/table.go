package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/gnames/marctable/pkg/row"
)

// Table is the whole input as rows with a fixed set of columns.
type Table struct {
	// Columns in output order.
	Columns []string
	// Rows in input order.
	Rows []row.Row
}

// ToTable reads the whole source into memory.
func ToTable(ctx context.Context, src Source, proj *row.Projector) (*Table, error) {
	res := &Table{Columns: proj.ColumnNames()}
	b, err := New(src, proj, 0).Next(ctx)
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.Rows = b.Rows
	return res, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns values of a column for every row. Rows without data
// in the column give zero Values. Unknown columns return nil.
func (t *Table) Column(name string) []row.Value {
	var found bool
	for _, v := range t.Columns {
		if v == name {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	res := make([]row.Value, len(t.Rows))
	for i, r := range t.Rows {
		res[i] = r.Get(name)
	}
	return res
}

package iosink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)

	"github.com/gnames/marctable/pkg/pipeline"
	"github.com/gnames/marctable/pkg/rules"
)

// SQLiteWriter inserts rows into a table with one TEXT column per
// output column. List cells are JSON arrays. Each batch is inserted in
// its own transaction.
type SQLiteWriter struct {
	ctx    context.Context
	db     *sql.DB
	path   string
	table  string
	cols   []string
	insert string
	closed bool
}

// NewSQLite opens or creates a database at path and recreates the
// table, so repeated exports do not mix rows of different runs.
func NewSQLite(
	ctx context.Context,
	path, table string,
	cols []rules.Column,
) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, SQLiteOpenError(path, err)
	}
	db.SetMaxOpenConns(1)

	res := &SQLiteWriter{
		ctx:   ctx,
		db:    db,
		path:  path,
		table: table,
		cols:  names(cols),
	}

	quoted := make([]string, len(res.cols))
	params := make([]string, len(res.cols))
	for i, v := range res.cols {
		quoted[i] = quote(v)
		params[i] = "?"
	}
	res.insert = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(quoted, ", "), strings.Join(params, ", "))

	var defs []string
	for _, v := range quoted {
		defs = append(defs, v+" TEXT")
	}
	stmts := []string{
		"DROP TABLE IF EXISTS " + quote(table),
		fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", ")),
	}
	for _, q := range stmts {
		if _, err = db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, SQLiteOpenError(path, err)
		}
	}
	return res, nil
}

// WriteBatch inserts rows of the batch in one transaction.
func (sw *SQLiteWriter) WriteBatch(b pipeline.Batch) error {
	if sw.closed {
		return SinkClosedError("SQLite")
	}
	if b.Len() == 0 {
		return nil
	}
	if err := sw.insertBatch(b); err != nil {
		return SQLiteWriteError(sw.table, b.Seq, err)
	}
	return nil
}

func (sw *SQLiteWriter) insertBatch(b pipeline.Batch) error {
	tx, err := sw.db.BeginTx(sw.ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(sw.ctx, sw.insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(sw.cols))
	for _, r := range b.Rows {
		for i, col := range sw.cols {
			v := r.Get(col)
			if v.IsAbsent() {
				args[i] = nil
				continue
			}
			s, err := cell(v)
			if err != nil {
				return err
			}
			args[i] = s
		}
		if _, err = stmt.ExecContext(sw.ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (sw *SQLiteWriter) Close() error {
	if sw.closed {
		return nil
	}
	sw.closed = true
	return sw.db.Close()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

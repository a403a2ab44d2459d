package iosink

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// SinkSchemaError is returned when the output schema cannot be built.
func SinkSchemaError(format string, err error) error {
	msg := "Cannot create <em>%s</em> output schema"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.SinkSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s schema: %w", format, err),
	}
}

// SinkClosedError is returned by WriteBatch after Close.
func SinkClosedError(format string) error {
	msg := "Cannot write to closed <em>%s</em> output"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.SinkWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s writer is closed", format),
	}
}

// SQLiteOpenError is returned when a database cannot be opened or
// prepared for export.
func SQLiteOpenError(path string, err error) error {
	msg := `Cannot prepare SQLite database

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check that the parent directory exists and is writable
  2. Make sure no other process holds a lock on the file`

	vars := []any{path}
	return &gn.Error{
		Code: errcode.SQLiteOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("open sqlite %s: %w", path, err),
	}
}

// SQLiteWriteError is returned when a batch cannot be inserted.
func SQLiteWriteError(table string, seq int, err error) error {
	msg := "Cannot insert batch <em>%d</em> into table <em>%s</em>"
	vars := []any{seq, table}
	return &gn.Error{
		Code: errcode.SQLiteWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert batch %d into %s: %w", seq, table, err),
	}
}

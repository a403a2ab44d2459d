package ioexport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// ExportInputError is returned when an input file cannot be opened.
func ExportInputError(path string, err error) error {
	msg := `Cannot open MARC input

<em>Path:</em> %s

<em>How to fix:</em>
  1. Check that the file exists and is readable
  2. Use '-' to read from stdin`

	vars := []any{path}
	return &gn.Error{
		Code: errcode.ExportInputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("open input %s: %w", path, err),
	}
}

// ExportOutputError is returned when an output file cannot be created.
func ExportOutputError(path string, err error) error {
	msg := "Cannot create output file <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ExportOutputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("create output %s: %w", path, err),
	}
}

// UnknownOutputError is returned for an unsupported output format.
func UnknownOutputError(format string) error {
	msg := "Unknown output format <em>%s</em>, use csv, jsonl, parquet or sqlite"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.ExportOutputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown output format %q", format),
	}
}

// BulkExportError reports which file of a bulk export failed.
func BulkExportError(path string, err error) error {
	msg := "Export of <em>%s</em> failed"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.BulkExportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bulk export %s: %w", path, err),
	}
}

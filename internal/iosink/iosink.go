// Package iosink writes batches of rows in tabular formats.
//
// Every writer gets the column list once and keeps it for the whole
// output. Rows are sparse, a column without data becomes an empty
// cell, a null, or no key at all, depending on the format.
package iosink

import (
	"bytes"

	json "github.com/goccy/go-json"

	"github.com/gnames/marctable/pkg/pipeline"
	"github.com/gnames/marctable/pkg/row"
	"github.com/gnames/marctable/pkg/rules"
)

// Writer receives batches in order and finalizes the output on Close.
// Close must be called even if no batch was written.
type Writer interface {
	WriteBatch(pipeline.Batch) error
	Close() error
}

// ListCell encodes a list as a JSON array. Formats without a list type
// store repeatable values this way.
func ListCell(ss []string) (string, error) {
	if ss == nil {
		ss = []string{}
	}
	b, err := marshal(ss)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// marshal encodes v as JSON keeping <, > and & as they are.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParseListCell decodes a cell created by ListCell.
func ParseListCell(s string) ([]string, error) {
	var res []string
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// cell renders a value as text. Absent values are empty strings.
func cell(v row.Value) (string, error) {
	if l, ok := v.List(); ok {
		return ListCell(l)
	}
	s, _ := v.Scalar()
	return s, nil
}

func names(cols []rules.Column) []string {
	res := make([]string, len(cols))
	for i, v := range cols {
		res[i] = v.Name
	}
	return res
}

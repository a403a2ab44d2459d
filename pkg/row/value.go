// Package row turns decoded MARC records into flat rows.
package row

import (
	json "github.com/goccy/go-json"
)

// Kind tells how a Value is stored.
type Kind uint8

const (
	// Absent is the Kind of a zero Value, a column without data.
	Absent Kind = iota
	// ScalarKind is a single string.
	ScalarKind
	// ListKind is an ordered list of strings.
	ListKind
)

// Value is a cell of a row: nothing, a string, or a list of strings.
// Repeatable fields and subfields always produce lists, others
// produce strings.
type Value struct {
	kind   Kind
	scalar string
	list   []string
}

// Scalar creates a single string Value.
func Scalar(s string) Value {
	return Value{kind: ScalarKind, scalar: s}
}

// List creates a list Value.
func List(ss ...string) Value {
	if ss == nil {
		ss = []string{}
	}
	return Value{kind: ListKind, list: ss}
}

// Kind returns the storage kind of the Value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent is true for the zero Value.
func (v Value) IsAbsent() bool {
	return v.kind == Absent
}

// IsList is true for list values.
func (v Value) IsList() bool {
	return v.kind == ListKind
}

// Scalar returns the string of a scalar Value.
func (v Value) Scalar() (string, bool) {
	return v.scalar, v.kind == ScalarKind
}

// List returns elements of a list Value.
func (v Value) List() ([]string, bool) {
	return v.list, v.kind == ListKind
}

// Strings returns the Value as a slice: nil for absent values,
// one element for scalars.
func (v Value) Strings() []string {
	switch v.kind {
	case ScalarKind:
		return []string{v.scalar}
	case ListKind:
		res := make([]string, len(v.list))
		copy(res, v.list)
		return res
	default:
		return nil
	}
}

// MarshalJSON encodes scalars as strings, lists as arrays and absent
// values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ScalarKind:
		return json.Marshal(v.scalar)
	case ListKind:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// Row maps column names to values. Only columns with data are present.
type Row map[string]Value

// Get returns the Value of a column, absent columns give zero Value.
func (r Row) Get(col string) Value {
	return r[col]
}

// Keys returns the columns of r that have data, in the given column order.
func (r Row) Keys(columns []string) []string {
	res := make([]string, 0, len(r))
	for _, c := range columns {
		if _, ok := r[c]; ok {
			res = append(res, c)
		}
	}
	return res
}

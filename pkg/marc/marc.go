// Package marc contains decoded MARC records.
package marc

import (
	"strings"
)

// Record is a decoded MARC record.
type Record struct {
	// Leader is the 24-character record leader.
	Leader string
	// Fields in the order of the record directory.
	Fields []Field
}

// Field is either a control field with Data, or a data field with
// indicators and Subfields.
type Field struct {
	// Tag is a 3-character field tag.
	Tag string
	// Data is the payload of a control field.
	Data string
	// Ind1 and Ind2 are indicators of a data field.
	Ind1, Ind2 byte
	// Subfields of a data field in their record order.
	// Repeated codes are kept.
	Subfields []Subfield
}

// Subfield is a coded part of a data field.
type Subfield struct {
	Code  string
	Value string
}

// IsControlTag is true for tags below 010.
func IsControlTag(tag string) bool {
	return len(tag) == 3 && tag < "010" && isDigits(tag)
}

// IsControl is true for control fields.
func (f Field) IsControl() bool {
	return IsControlTag(f.Tag)
}

// String renders a control field as its data, and a data field as its
// subfield values joined by a space.
func (f Field) String() string {
	if f.IsControl() {
		return f.Data
	}
	vals := make([]string, len(f.Subfields))
	for i, v := range f.Subfields {
		vals[i] = v.Value
	}
	return strings.Join(vals, " ")
}

// Values returns values of subfields with the given code in their order.
func (f Field) Values(code string) []string {
	var res []string
	for _, v := range f.Subfields {
		if v.Code == code {
			res = append(res, v.Value)
		}
	}
	return res
}

// Get returns all fields with the given tag.
func (r *Record) Get(tag string) []Field {
	var res []Field
	for _, f := range r.Fields {
		if f.Tag == tag {
			res = append(res, f)
		}
	}
	return res
}

// ControlNumber returns data of field 001, or an empty string.
func (r *Record) ControlNumber() string {
	for _, f := range r.Fields {
		if f.Tag == "001" {
			return f.Data
		}
	}
	return ""
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Package avram keeps the Avram description of a MARC format: which
// fields and subfields exist, their labels, and whether they can repeat.
//
// A Schema is immutable after it is built. Lookups by tag and by
// tag+code go through maps created once at construction, so they are
// safe to use from many goroutines and cheap enough to run for every
// field of every record.
package avram

import (
	"fmt"
	"strings"
)

// Schema is a queryable Avram schema document.
type Schema struct {
	// Title of the format, for example "MARC21 bibliographic format".
	Title string
	// URL of the format documentation.
	URL string
	// Family of the format, "marc" for MARC21.
	Family string
	// Language of labels.
	Language string

	fields []*Field
	byTag  map[string]*Field
}

// Field describes a MARC field.
type Field struct {
	// Tag is a 3-character field tag, for example "245".
	Tag string
	// Label is a human-readable name of the field.
	Label string
	// Repeatable is true if the field can occur more than once in a record.
	Repeatable bool
	// URL points to the documentation of the field.
	URL string
	// Subfields in document order. Control fields have none.
	Subfields []*Subfield

	byCode map[string]*Subfield
}

// Subfield describes a subfield of a data field.
type Subfield struct {
	// Code is a 1-character subfield code.
	Code string
	// Label is a human-readable name of the subfield.
	Label string
	// Repeatable is true if the subfield can occur more than once
	// in a field.
	Repeatable bool
}

// Meta is the descriptive part of a schema document.
type Meta struct {
	Title    string
	URL      string
	Family   string
	Language string
}

// New builds a Schema from fields in their document order.
// It returns InvalidSchemaError if a tag is not 3 characters long,
// a subfield code is not 1 character long, or a tag or a code
// within a field is duplicated.
func New(meta Meta, fields ...*Field) (*Schema, error) {
	res := &Schema{
		Title:    meta.Title,
		URL:      meta.URL,
		Family:   meta.Family,
		Language: meta.Language,
		fields:   make([]*Field, 0, len(fields)),
		byTag:    make(map[string]*Field, len(fields)),
	}

	for _, f := range fields {
		if len(f.Tag) != 3 {
			return nil, InvalidSchemaError(
				fmt.Sprintf("field tag '%s' must have 3 characters", f.Tag),
			)
		}
		if _, ok := res.byTag[f.Tag]; ok {
			return nil, InvalidSchemaError(
				fmt.Sprintf("field tag '%s' is duplicated", f.Tag),
			)
		}
		f.byCode = make(map[string]*Subfield, len(f.Subfields))
		for _, sf := range f.Subfields {
			if len(sf.Code) != 1 {
				return nil, InvalidSchemaError(
					fmt.Sprintf("subfield code '%s' of field %s must have 1 character",
						sf.Code, f.Tag),
				)
			}
			if _, ok := f.byCode[sf.Code]; ok {
				return nil, InvalidSchemaError(
					fmt.Sprintf("subfield code '%s' of field %s is duplicated",
						sf.Code, f.Tag),
				)
			}
			f.byCode[sf.Code] = sf
		}
		res.fields = append(res.fields, f)
		res.byTag[f.Tag] = f
	}
	return res, nil
}

// Meta returns the descriptive part of the schema.
func (s *Schema) Meta() Meta {
	return Meta{
		Title:    s.Title,
		URL:      s.URL,
		Family:   s.Family,
		Language: s.Language,
	}
}

// Len returns the number of fields in the schema.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns field definitions in document order.
func (s *Schema) Fields() []*Field {
	res := make([]*Field, len(s.fields))
	copy(res, s.fields)
	return res
}

// Tags returns field tags in document order.
func (s *Schema) Tags() []string {
	res := make([]string, len(s.fields))
	for i, f := range s.fields {
		res[i] = f.Tag
	}
	return res
}

// Field returns the definition of a field or UnknownFieldError.
func (s *Schema) Field(tag string) (*Field, error) {
	if f, ok := s.byTag[tag]; ok {
		return f, nil
	}
	return nil, UnknownFieldError(tag)
}

// Subfield returns the definition of a subfield. It returns
// UnknownFieldError if the tag is absent and UnknownSubfieldError
// if the field has no such subfield.
func (s *Schema) Subfield(tag, code string) (*Subfield, error) {
	f, err := s.Field(tag)
	if err != nil {
		return nil, err
	}
	if sf, ok := f.Subfield(code); ok {
		return sf, nil
	}
	return nil, UnknownSubfieldError(tag, code)
}

// Subfield finds a subfield of the field by its code.
func (f *Field) Subfield(code string) (*Subfield, bool) {
	if f.byCode != nil {
		sf, ok := f.byCode[code]
		return sf, ok
	}
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf, true
		}
	}
	return nil, false
}

// Codes returns subfield codes in document order.
func (f *Field) Codes() []string {
	res := make([]string, len(f.Subfields))
	for i, sf := range f.Subfields {
		res[i] = sf.Code
	}
	return res
}

// IsControl is true for fields with tags below 010.
func (f *Field) IsControl() bool {
	return f.Tag < "010"
}

// String renders the field as "245 Title Statement: NR : a,b,c".
func (f *Field) String() string {
	return fmt.Sprintf("%s %s: %s : %s",
		f.Tag, f.Label, repeatFlag(f.Repeatable), strings.Join(f.Codes(), ","))
}

// String renders the subfield as "a Title: NR".
func (sf *Subfield) String() string {
	return fmt.Sprintf("%s %s: %s", sf.Code, sf.Label, repeatFlag(sf.Repeatable))
}

func repeatFlag(b bool) string {
	if b {
		return "R"
	}
	return "NR"
}

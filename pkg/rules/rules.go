// Package rules compiles field selection rules into a Mapping.
//
// A rule starts with a 3-character field tag, the rest of it lists
// subfield codes: "245" selects the whole field, "260ac" selects
// subfields a and c of field 260. Without rules every field of the
// schema is selected whole.
package rules

import (
	"github.com/gnames/marctable/pkg/avram"
)

// Mapping is a validated selection of fields and subfields.
// It is immutable after Compile.
type Mapping struct {
	tags   []string
	fields map[string]*entry
}

type entry struct {
	field *avram.Field
	// codes is nil when the whole field is selected.
	codes []string
	subs  []*avram.Subfield
}

// Column describes one output column.
type Column struct {
	// Name is "F" + tag, or "F" + tag + code for subfield columns.
	Name string
	// Tag of the field the column comes from.
	Tag string
	// Code of the subfield, empty for whole-field columns.
	Code string
	// Repeatable is true if the column holds a list of values.
	Repeatable bool
}

// Compile turns rules into a Mapping validated against the schema.
//
// Subfield codes of a rule keep the order of their first appearance,
// repeated codes are ignored. When several rules name the same tag,
// the last one decides which subfields are selected, but the tag keeps
// the position of its first rule.
//
// An unknown tag or subfield code stops compilation with
// InvalidRuleError, so no partially built Mapping is ever returned.
func Compile(rules []string, schema *avram.Schema) (*Mapping, error) {
	if len(rules) == 0 {
		return all(schema), nil
	}

	res := &Mapping{fields: make(map[string]*entry)}
	for _, rule := range rules {
		if len(rule) < 3 {
			return nil, InvalidRuleError(rule, tooShortError(rule))
		}
		tag := rule[:3]
		f, err := schema.Field(tag)
		if err != nil {
			return nil, InvalidRuleError(rule, err)
		}

		e := &entry{field: f}
		if len(rule) > 3 {
			e.codes = []string{}
			seen := make(map[string]struct{})
			for _, r := range rule[3:] {
				code := string(r)
				if _, ok := seen[code]; ok {
					continue
				}
				seen[code] = struct{}{}
				sf, err := schema.Subfield(tag, code)
				if err != nil {
					return nil, InvalidRuleError(rule, err)
				}
				e.codes = append(e.codes, code)
				e.subs = append(e.subs, sf)
			}
		}

		if _, ok := res.fields[tag]; !ok {
			res.tags = append(res.tags, tag)
		}
		res.fields[tag] = e
	}
	return res, nil
}

func all(schema *avram.Schema) *Mapping {
	fields := schema.Fields()
	res := &Mapping{
		tags:   make([]string, 0, len(fields)),
		fields: make(map[string]*entry, len(fields)),
	}
	for _, f := range fields {
		res.tags = append(res.tags, f.Tag)
		res.fields[f.Tag] = &entry{field: f}
	}
	return res
}

// Len returns the number of selected fields.
func (m *Mapping) Len() int {
	return len(m.tags)
}

// Tags returns selected field tags in rule order.
func (m *Mapping) Tags() []string {
	res := make([]string, len(m.tags))
	copy(res, m.tags)
	return res
}

// Has reports whether the tag is selected.
func (m *Mapping) Has(tag string) bool {
	_, ok := m.fields[tag]
	return ok
}

// Subfields returns selected subfield codes of a tag. The second value
// is false if the tag is not selected. A nil slice with true means the
// whole field is selected.
func (m *Mapping) Subfields(tag string) ([]string, bool) {
	e, ok := m.fields[tag]
	if !ok {
		return nil, false
	}
	if e.codes == nil {
		return nil, true
	}
	res := make([]string, len(e.codes))
	copy(res, e.codes)
	return res, true
}

// Field returns the schema definition of a selected field.
func (m *Mapping) Field(tag string) (*avram.Field, bool) {
	e, ok := m.fields[tag]
	if !ok {
		return nil, false
	}
	return e.field, true
}

// ColumnSpecs describes output columns in their order. A whole-field
// column is repeatable if its field is, a subfield column is
// repeatable if its subfield is.
func (m *Mapping) ColumnSpecs() []Column {
	var res []Column
	for _, tag := range m.tags {
		e := m.fields[tag]
		if e.codes == nil {
			res = append(res, Column{
				Name:       ColumnName(tag, ""),
				Tag:        tag,
				Repeatable: e.field.Repeatable,
			})
			continue
		}
		for i, code := range e.codes {
			res = append(res, Column{
				Name:       ColumnName(tag, code),
				Tag:        tag,
				Code:       code,
				Repeatable: e.subs[i].Repeatable,
			})
		}
	}
	return res
}

// Columns returns output column names in their order.
func (m *Mapping) Columns() []string {
	specs := m.ColumnSpecs()
	res := make([]string, len(specs))
	for i, v := range specs {
		res[i] = v.Name
	}
	return res
}

// ColumnName creates a column name from a tag and an optional
// subfield code.
func ColumnName(tag, code string) string {
	return "F" + tag + code
}

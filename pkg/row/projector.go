package row

import (
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/marc"
	"github.com/gnames/marctable/pkg/rules"
)

// Projector turns records into rows according to a Mapping.
// Column names and repeatability are resolved once in NewProjector,
// so Project does not consult the schema.
type Projector struct {
	columns []rules.Column
	targets map[string]*target
}

type target struct {
	// col is set when the whole field is selected.
	col  *column
	subs map[string]*column
}

type column struct {
	name       string
	repeatable bool
}

// NewProjector prepares projection of the mapping. Repeatability comes
// from the schema, so a mapping compiled against another schema fails
// here with UnknownFieldError or UnknownSubfieldError.
func NewProjector(m *rules.Mapping, schema *avram.Schema) (*Projector, error) {
	res := &Projector{
		columns: m.ColumnSpecs(),
		targets: make(map[string]*target, m.Len()),
	}
	for _, tag := range m.Tags() {
		f, err := schema.Field(tag)
		if err != nil {
			return nil, err
		}
		codes, _ := m.Subfields(tag)
		if codes == nil {
			res.targets[tag] = &target{col: &column{
				name:       rules.ColumnName(tag, ""),
				repeatable: f.Repeatable,
			}}
			continue
		}
		t := &target{subs: make(map[string]*column, len(codes))}
		for _, code := range codes {
			sf, err := schema.Subfield(tag, code)
			if err != nil {
				return nil, err
			}
			t.subs[code] = &column{
				name:       rules.ColumnName(tag, code),
				repeatable: sf.Repeatable,
			}
		}
		res.targets[tag] = t
	}
	return res, nil
}

// Columns describes the output columns in their order.
func (p *Projector) Columns() []rules.Column {
	res := make([]rules.Column, len(p.columns))
	copy(res, p.columns)
	return res
}

// ColumnNames returns output column names in their order.
func (p *Projector) ColumnNames() []string {
	res := make([]string, len(p.columns))
	for i, v := range p.columns {
		res[i] = v.Name
	}
	return res
}

// Project creates a sparse row from a record, going through fields in
// record order. A repeatable column collects every occurrence into a
// list. A non-repeatable column keeps the last occurrence.
func (p *Projector) Project(rec *marc.Record) (Row, error) {
	res := make(Row)
	for _, f := range rec.Fields {
		t, ok := p.targets[f.Tag]
		if !ok {
			continue
		}
		if t.col != nil {
			if err := res.put(t.col, f.String()); err != nil {
				return nil, err
			}
			continue
		}
		for _, sf := range f.Subfields {
			col, ok := t.subs[sf.Code]
			if !ok {
				continue
			}
			if err := res.put(col, sf.Value); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (r Row) put(col *column, val string) error {
	cur, ok := r[col.name]
	if !col.repeatable {
		if ok && cur.kind != ScalarKind {
			return RepeatabilityViolationError(col.name, ScalarKind)
		}
		r[col.name] = Scalar(val)
		return nil
	}
	if ok && cur.kind != ListKind {
		return RepeatabilityViolationError(col.name, ListKind)
	}
	cur.kind = ListKind
	cur.list = append(cur.list, val)
	r[col.name] = cur
	return nil
}

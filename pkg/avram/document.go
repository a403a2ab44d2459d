package avram

import (
	"bytes"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// document is the on-disk form of an Avram schema. Go maps lose the
// order of fields and subfields, so the order is collected separately
// by walking tokens of the same document.
type document struct {
	Title    string              `json:"title"    yaml:"title"`
	URL      string              `json:"url"      yaml:"url"`
	Family   string              `json:"family"   yaml:"family"`
	Language string              `json:"language" yaml:"language"`
	Fields   map[string]fieldDoc `json:"fields"   yaml:"fields"`
}

type fieldDoc struct {
	Tag        string                 `json:"tag"                 yaml:"tag"`
	Label      string                 `json:"label"               yaml:"label"`
	Repeatable bool                   `json:"repeatable"          yaml:"repeatable"`
	URL        string                 `json:"url,omitempty"       yaml:"url,omitempty"`
	Subfields  map[string]subfieldDoc `json:"subfields,omitempty" yaml:"subfields,omitempty"`
}

type subfieldDoc struct {
	Code       string `json:"code"       yaml:"code"`
	Label      string `json:"label"      yaml:"label"`
	Repeatable bool   `json:"repeatable" yaml:"repeatable"`
}

// keyOrder holds tags of the fields object and codes of every
// subfields object in the order they appear in a document.
type keyOrder struct {
	tags  []string
	codes map[string][]string
}

// Load reads an Avram schema document in JSON form.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes parses an Avram schema document in JSON form.
func LoadBytes(data []byte) (*Schema, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, SchemaDecodeError("JSON", err)
	}
	order, err := jsonKeyOrder(data)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, order)
}

// LoadYAML reads an Avram schema document written as YAML.
func LoadYAML(r io.Reader) (*Schema, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, SchemaDecodeError("YAML", err)
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, SchemaDecodeError("YAML", err)
	}
	order, err := yamlKeyOrder(&root)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, order)
}

func fromDocument(doc document, order keyOrder) (*Schema, error) {
	if doc.Fields == nil {
		return nil, InvalidSchemaError("document has no 'fields' object")
	}
	meta := Meta{
		Title:    doc.Title,
		URL:      doc.URL,
		Family:   doc.Family,
		Language: doc.Language,
	}
	fields := make([]*Field, 0, len(order.tags))
	for _, tag := range order.tags {
		fd := doc.Fields[tag]
		if fd.Tag != "" && fd.Tag != tag {
			return nil, InvalidSchemaError(
				"field key '" + tag + "' differs from its tag '" + fd.Tag + "'",
			)
		}
		f := &Field{
			Tag:        tag,
			Label:      fd.Label,
			Repeatable: fd.Repeatable,
			URL:        fd.URL,
		}
		for _, code := range order.codes[tag] {
			sd := fd.Subfields[code]
			if sd.Code != "" && sd.Code != code {
				return nil, InvalidSchemaError(
					"subfield key '" + code + "' of field " + tag +
						" differs from its code '" + sd.Code + "'",
				)
			}
			f.Subfields = append(f.Subfields, &Subfield{
				Code:       code,
				Label:      sd.Label,
				Repeatable: sd.Repeatable,
			})
		}
		fields = append(fields, f)
	}
	return New(meta, fields...)
}

// jsonKeyOrder walks JSON tokens and records keys of "fields" and of
// every "fields.<tag>.subfields" object.
func jsonKeyOrder(data []byte) (keyOrder, error) {
	type frame struct {
		object       bool
		expectingKey bool
		name         string
		lastKey      string
	}

	res := keyOrder{codes: make(map[string][]string)}
	seen := make(map[string]struct{})
	var stack []frame

	closeValue := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			if top.object && !top.expectingKey {
				top.expectingKey = true
			}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, SchemaDecodeError("JSON", err)
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				var name string
				if n := len(stack); n > 0 && stack[n-1].object {
					name = stack[n-1].lastKey
				}
				stack = append(stack, frame{
					object:       v == '{',
					expectingKey: v == '{',
					name:         name,
				})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				closeValue()
			}
		case string:
			n := len(stack)
			if n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				top.lastKey = v
				top.expectingKey = false
				path := make([]string, n)
				for i := range stack {
					path[i] = stack[i].name
				}
				if err = collectKey(&res, seen, path, v); err != nil {
					return res, err
				}
				continue
			}
			closeValue()
		default:
			closeValue()
		}
	}
	return res, nil
}

// yamlKeyOrder reads the same information as jsonKeyOrder from a
// YAML node tree.
func yamlKeyOrder(root *yaml.Node) (keyOrder, error) {
	res := keyOrder{codes: make(map[string][]string)}
	seen := make(map[string]struct{})

	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	fields := mappingValue(doc, "fields")
	if fields == nil {
		return res, nil
	}
	for i := 0; i+1 < len(fields.Content); i += 2 {
		tag := fields.Content[i].Value
		err := collectKey(&res, seen, []string{"", "fields"}, tag)
		if err != nil {
			return res, err
		}
		subs := mappingValue(fields.Content[i+1], "subfields")
		if subs == nil {
			continue
		}
		for j := 0; j+1 < len(subs.Content); j += 2 {
			code := subs.Content[j].Value
			err = collectKey(&res, seen, []string{"", "fields", tag, "subfields"}, code)
			if err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			if v := n.Content[i+1]; v.Kind == yaml.MappingNode {
				return v
			}
			return nil
		}
	}
	return nil
}

// collectKey stores a key if its container is "fields" or
// "fields.<tag>.subfields". Path holds names of open containers,
// the root object has an empty name.
func collectKey(res *keyOrder, seen map[string]struct{}, path []string, key string) error {
	switch {
	case len(path) == 2 && path[1] == "fields":
		if _, ok := seen[key]; ok {
			return InvalidSchemaError("field tag '" + key + "' is duplicated")
		}
		seen[key] = struct{}{}
		res.tags = append(res.tags, key)
	case len(path) == 4 && path[1] == "fields" && path[3] == "subfields":
		tag := path[2]
		for _, v := range res.codes[tag] {
			if v == key {
				return InvalidSchemaError(
					"subfield code '" + key + "' of field " + tag + " is duplicated",
				)
			}
		}
		res.codes[tag] = append(res.codes[tag], key)
	}
	return nil
}

// WriteJSON writes the schema in its canonical on-disk JSON form,
// keeping the order of fields and subfields.
func (s *Schema) WriteJSON(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeMember(&buf, "title", s.Title, false)
	writeMember(&buf, "url", s.URL, true)
	writeMember(&buf, "family", s.Family, true)
	writeMember(&buf, "language", s.Language, true)
	buf.WriteString(`,"fields":{`)
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, f.Tag)
		buf.WriteByte('{')
		writeMember(&buf, "tag", f.Tag, false)
		writeMember(&buf, "label", f.Label, true)
		writeMember(&buf, "repeatable", f.Repeatable, true)
		if f.URL != "" {
			writeMember(&buf, "url", f.URL, true)
		}
		if len(f.Subfields) > 0 {
			buf.WriteString(`,"subfields":{`)
			for j, sf := range f.Subfields {
				if j > 0 {
					buf.WriteByte(',')
				}
				writeKey(&buf, sf.Code)
				buf.WriteByte('{')
				writeMember(&buf, "code", sf.Code, false)
				writeMember(&buf, "label", sf.Label, true)
				writeMember(&buf, "repeatable", sf.Repeatable, true)
				buf.WriteByte('}')
			}
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteString("}}")

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func writeKey(buf *bytes.Buffer, key string) {
	b, _ := json.Marshal(key)
	buf.Write(b)
	buf.WriteByte(':')
}

func writeMember(buf *bytes.Buffer, key string, val any, comma bool) {
	if comma {
		buf.WriteByte(',')
	}
	writeKey(buf, key)
	b, _ := json.Marshal(val)
	buf.Write(b)
}

package rules_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/errcode"
	"github.com/gnames/marctable/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileNoRules(t *testing.T) {
	schema := avram.Default()
	for _, rr := range [][]string{nil, {}} {
		m, err := rules.Compile(rr, schema)
		require.NoError(t, err)
		assert.Equal(t, schema.Len(), m.Len())
		assert.Equal(t, schema.Tags(), m.Tags())

		cols := m.Columns()
		assert.Len(t, cols, schema.Len())
		assert.Equal(t, "F001", cols[0])

		codes, ok := m.Subfields("245")
		assert.True(t, ok)
		assert.Nil(t, codes)
	}
}

func TestCompile(t *testing.T) {
	schema := avram.Default()
	tests := []struct {
		msg     string
		rules   []string
		tags    []string
		columns []string
		subs    map[string][]string
	}{
		{
			msg:     "whole field",
			rules:   []string{"245"},
			tags:    []string{"245"},
			columns: []string{"F245"},
			subs:    map[string][]string{"245": nil},
		},
		{
			msg:     "subfields",
			rules:   []string{"245a", "260c"},
			tags:    []string{"245", "260"},
			columns: []string{"F245a", "F260c"},
			subs:    map[string][]string{"245": {"a"}, "260": {"c"}},
		},
		{
			msg:     "several subfields keep rule order",
			rules:   []string{"260ca"},
			tags:    []string{"260"},
			columns: []string{"F260c", "F260a"},
			subs:    map[string][]string{"260": {"c", "a"}},
		},
		{
			msg:     "duplicate codes",
			rules:   []string{"260aca"},
			tags:    []string{"260"},
			columns: []string{"F260a", "F260c"},
			subs:    map[string][]string{"260": {"a", "c"}},
		},
		{
			msg:     "last rule wins, position of first rule stays",
			rules:   []string{"245a", "650", "245bc"},
			tags:    []string{"245", "650"},
			columns: []string{"F245b", "F245c", "F650"},
			subs:    map[string][]string{"245": {"b", "c"}, "650": nil},
		},
		{
			msg:     "subfields replaced by whole field",
			rules:   []string{"245a", "245"},
			tags:    []string{"245"},
			columns: []string{"F245"},
			subs:    map[string][]string{"245": nil},
		},
	}

	for _, v := range tests {
		m, err := rules.Compile(v.rules, schema)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.tags, m.Tags(), v.msg)
		assert.Equal(t, v.columns, m.Columns(), v.msg)
		for tag, codes := range v.subs {
			res, ok := m.Subfields(tag)
			assert.True(t, ok, v.msg)
			assert.Equal(t, codes, res, v.msg)
		}
	}
}

func TestColumnSpecs(t *testing.T) {
	m, err := rules.Compile([]string{"001", "245", "650v"}, avram.Default())
	require.NoError(t, err)
	specs := m.ColumnSpecs()
	assert.Equal(t, []rules.Column{
		{Name: "F001", Tag: "001", Repeatable: false},
		{Name: "F245", Tag: "245", Repeatable: false},
		{Name: "F650v", Tag: "650", Code: "v", Repeatable: true},
	}, specs)

	m, err = rules.Compile([]string{"245a", "260c", "650"}, avram.Default())
	require.NoError(t, err)
	specs = m.ColumnSpecs()
	require.Len(t, specs, 3)
	assert.False(t, specs[0].Repeatable)
	assert.True(t, specs[1].Repeatable)
	assert.True(t, specs[2].Repeatable)
}

func TestCompileInvalid(t *testing.T) {
	schema := avram.Default()
	tests := []struct {
		msg   string
		rules []string
		rule  string
	}{
		{"unknown tag", []string{"245", "999"}, "999"},
		{"unknown subfield", []string{"245az"}, "245az"},
		{"too short", []string{"24"}, "24"},
		{"unknown subfield after good rules", []string{"245a", "650", "260q"}, "260q"},
	}

	for _, v := range tests {
		m, err := rules.Compile(v.rules, schema)
		require.Error(t, err, v.msg)
		assert.Nil(t, m, v.msg)
		assert.True(t, rules.IsInvalidRule(err), v.msg)

		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.InvalidRuleError, gnErr.Code, v.msg)
		require.Len(t, gnErr.Vars, 2, v.msg)
		assert.Equal(t, v.rule, gnErr.Vars[0], v.msg)
	}
}

func TestCompileInvalidKeepsCause(t *testing.T) {
	_, err := rules.Compile([]string{"245z"}, avram.Default())
	require.Error(t, err)
	gnErr := err.(*gn.Error)
	assert.Contains(t, gnErr.Vars[1], "not a valid subfield in field")
	assert.True(t, avram.IsUnknownSubfield(gnErr.Err))

	_, err = rules.Compile([]string{"999"}, avram.Default())
	gnErr = err.(*gn.Error)
	assert.Contains(t, gnErr.Vars[1], "not a defined field tag")
	assert.True(t, avram.IsUnknownField(gnErr.Err))
}

func TestMappingHasField(t *testing.T) {
	m, err := rules.Compile([]string{"650x"}, avram.Default())
	require.NoError(t, err)
	assert.True(t, m.Has("650"))
	assert.False(t, m.Has("245"))

	f, ok := m.Field("650")
	require.True(t, ok)
	assert.True(t, f.Repeatable)

	_, ok = m.Subfields("245")
	assert.False(t, ok)
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "F245", rules.ColumnName("245", ""))
	assert.Equal(t, "F245a", rules.ColumnName("245", "a"))
}

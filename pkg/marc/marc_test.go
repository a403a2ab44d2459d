package marc_test

import (
	"testing"

	"github.com/gnames/marctable/pkg/marc"
	"github.com/stretchr/testify/assert"
)

func TestFieldString(t *testing.T) {
	tests := []struct {
		msg   string
		field marc.Field
		res   string
	}{
		{
			msg:   "control field",
			field: marc.Field{Tag: "008", Data: "000110s2000    ohu"},
			res:   "000110s2000    ohu",
		},
		{
			msg:   "empty control field",
			field: marc.Field{Tag: "001"},
			res:   "",
		},
		{
			msg: "data field",
			field: marc.Field{Tag: "245", Ind1: '0', Ind2: '0', Subfields: []marc.Subfield{
				{Code: "a", Value: "Leak testing CD-ROM"},
				{Code: "h", Value: "[electronic resource] /"},
				{Code: "c", Value: "technical editors."},
			}},
			res: "Leak testing CD-ROM [electronic resource] / technical editors.",
		},
		{
			msg:   "data field without subfields",
			field: marc.Field{Tag: "500"},
			res:   "",
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.field.String(), v.msg)
	}
}

func TestIsControlTag(t *testing.T) {
	assert.True(t, marc.IsControlTag("001"))
	assert.True(t, marc.IsControlTag("009"))
	assert.False(t, marc.IsControlTag("010"))
	assert.False(t, marc.IsControlTag("245"))
	assert.False(t, marc.IsControlTag("00A"))
	assert.False(t, marc.IsControlTag("01"))
}

func TestRecord(t *testing.T) {
	r := &marc.Record{Fields: []marc.Field{
		{Tag: "001", Data: "12345"},
		{Tag: "650", Subfields: []marc.Subfield{
			{Code: "a", Value: "Leak detectors."},
			{Code: "x", Value: "Testing."},
			{Code: "x", Value: "Equipment."},
		}},
		{Tag: "650", Subfields: []marc.Subfield{{Code: "a", Value: "Gas leakage."}}},
	}}

	assert.Equal(t, "12345", r.ControlNumber())
	ff := r.Get("650")
	assert.Len(t, ff, 2)
	assert.Equal(t, []string{"Testing.", "Equipment."}, ff[0].Values("x"))
	assert.Nil(t, ff[1].Values("x"))
	assert.Empty(t, r.Get("245"))
	assert.Equal(t, "", (&marc.Record{}).ControlNumber())
}

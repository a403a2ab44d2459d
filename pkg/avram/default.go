package avram

import (
	_ "embed"
	"sync"
)

// MarcJSON is the Avram document of the MARC21 bibliographic format.
//
//go:embed marc.json
var MarcJSON []byte

var defaultSchema = sync.OnceValues(func() (*Schema, error) {
	return LoadBytes(MarcJSON)
})

// Default returns the built-in MARC21 bibliographic schema.
// The document is parsed once, later calls return the same Schema.
//
// The embedded document describes 245 fields, a later revision of
// the format than older 215-field snapshots. An export without rules
// therefore has 245 columns.
func Default() *Schema {
	s, err := defaultSchema()
	if err != nil {
		panic(err)
	}
	return s
}

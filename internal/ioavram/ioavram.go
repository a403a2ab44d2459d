// Package ioavram loads Avram schema documents from files.
package ioavram

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/marctable/internal/iofs"
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/config"
)

var cache = avram.NewCache()

// LoadFile reads a schema document. Files with .yaml or .yml
// extension are parsed as YAML, all others as JSON. Documents with the
// same content are parsed only once per process.
func LoadFile(path string) (*avram.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}

	load := avram.LoadBytes
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		load = func(b []byte) (*avram.Schema, error) {
			return avram.LoadYAML(bytes.NewReader(b))
		}
	}
	return cache.Get(data, load)
}

// FromConfig returns the schema set by Export.SchemaFile, or the
// built-in MARC21 schema when the setting is empty.
func FromConfig(cfg *config.Config) (*avram.Schema, error) {
	path := cfg.Export.SchemaFile
	if path == "" {
		return avram.Default(), nil
	}
	res, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Schema loaded", "path", path, "fields", res.Len())
	return res, nil
}

// SaveFile writes a schema in its JSON form.
func SaveFile(path string, s *avram.Schema) error {
	f, err := os.Create(path)
	if err != nil {
		return iofs.CreateFileError(path, err)
	}
	if err = s.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

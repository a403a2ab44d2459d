// Package iofs creates marctable directories and default files.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), []byte(ConfigYAML))
}

// EnsureSchemaFile saves the built-in MARC21 schema document, so it
// can be inspected or used as a starting point for a custom schema.
// An existing file is never overwritten.
func EnsureSchemaFile(homeDir string) error {
	return ensureFile(config.SchemaFilePath(homeDir), avram.MarcJSON)
}

func ensureFile(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return CopyFileError(path, err)
	}

	return nil
}

// CreateFile creates a file for writing. The "-" path means stdout,
// closing it is a no-op.
func CreateFile(path string) (*os.File, func() error, error) {
	if path == "-" || path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, CreateFileError(path, err)
	}
	return f, f.Close, nil
}

// OpenFile opens a file for reading. The "-" path means stdin.
func OpenFile(path string) (*os.File, func() error, error) {
	if path == "-" || path == "" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ReadFileError(path, err)
	}
	return f, f.Close, nil
}

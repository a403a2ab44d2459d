package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// CreateDirError is returned when a marctable directory cannot be made.
func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot create %s",
		Vars: []any{dir},
		Err:  fmt.Errorf("from %s: cannot create directory: %w", caller(), err),
	}
}

// CopyFileError is returned when a default file (config.yaml or the
// schema document) cannot be written.
func CopyFileError(file string, err error) error {
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  "Cannot copy default file to %s",
		Vars: []any{file},
		Err:  fmt.Errorf("from %s: cannot copy file: %w", caller(), err),
	}
}

// ReadFileError is returned for inputs, schema files and the config
// file that cannot be opened or read.
func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot read %s: %w", caller(), path, err),
	}
}

// CreateFileError is returned for outputs that cannot be created.
func CreateFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.CreateFileError,
		Msg:  "Cannot create <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot create %s: %w", caller(), path, err),
	}
}

// caller is the function that called an error constructor.
func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name()
}

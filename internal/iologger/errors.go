package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// CreateLogFileError is returned when the log file set by
// Log.Destination "file" cannot be opened for appending.
func CreateLogFileError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  "Cannot open log file <em>%s</em>",
		Vars: []any{path},
		Err: fmt.Errorf("from %s: cannot open log file %s: %w",
			runtime.FuncForPC(pc).Name(), path, err),
	}
}

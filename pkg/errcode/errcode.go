package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	CreateFileError

	// Logging errors
	CreateLogFileError

	// Schema errors
	UnknownFieldError
	UnknownSubfieldError
	InvalidSchemaError
	SchemaDecodeError

	// Rule errors
	InvalidRuleError

	// Record errors
	MalformedRecordError
	InputFormatError

	// Projection errors
	RepeatabilityViolationError

	// Sink errors
	SinkSchemaError
	SinkWriteError
	SQLiteOpenError
	SQLiteWriteError

	// Export errors
	ExportInputError
	ExportOutputError
	BulkExportError
)

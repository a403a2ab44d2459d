package avram

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

// UnknownFieldError is returned when a tag is not defined in the schema.
func UnknownFieldError(tag string) error {
	msg := "<em>%s</em> is not a defined field tag in Avram schema"
	vars := []any{tag}
	return &gn.Error{
		Code: errcode.UnknownFieldError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown field %s", tag),
	}
}

// UnknownSubfieldError is returned when a code is not defined for a
// field in the schema.
func UnknownSubfieldError(tag, code string) error {
	msg := "<em>%s</em> is not a valid subfield in field <em>%s</em>"
	vars := []any{code, tag}
	return &gn.Error{
		Code: errcode.UnknownSubfieldError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown subfield %s$%s", tag, code),
	}
}

// InvalidSchemaError is returned when a schema document breaks
// structural rules of Avram.
func InvalidSchemaError(reason string) error {
	msg := "Invalid Avram schema: %s"
	vars := []any{reason}
	return &gn.Error{
		Code: errcode.InvalidSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid schema: %s", reason),
	}
}

// SchemaDecodeError is returned when a schema document cannot be parsed.
func SchemaDecodeError(format string, err error) error {
	msg := "Cannot parse Avram schema as <em>%s</em>"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.SchemaDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot decode %s schema: %w", format, err),
	}
}

// IsUnknownField reports whether err is UnknownFieldError.
func IsUnknownField(err error) bool {
	return hasCode(err, errcode.UnknownFieldError)
}

// IsUnknownSubfield reports whether err is UnknownSubfieldError.
func IsUnknownSubfield(err error) bool {
	return hasCode(err, errcode.UnknownSubfieldError)
}

func hasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}

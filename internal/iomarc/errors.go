package iomarc

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/pkg/errcode"
)

var (
	errTruncated   = errors.New("input ends without a record terminator")
	errInvalidUTF8 = errors.New("invalid UTF-8 sequence")
	errTooLong     = errors.New("record is longer than 99999 bytes")
)

// MalformedRecordError describes a record that could not be decoded.
// Readers do not return it, it goes to the skip hook and to the log.
func MalformedRecordError(ordinal int, err error) error {
	msg := "Record <em>%d</em> is malformed: %s"
	vars := []any{ordinal, err.Error()}
	return &gn.Error{
		Code: errcode.MalformedRecordError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("malformed record %d: %w", ordinal, err),
	}
}

// IsMalformedRecord reports whether err is MalformedRecordError.
func IsMalformedRecord(err error) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == errcode.MalformedRecordError
	}
	return false
}

// InputFormatError is returned for an input format other than
// auto, marc or xml.
func InputFormatError(format string) error {
	msg := "Unknown input format <em>%s</em>, use auto, marc or xml"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.InputFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown input format %q", format),
	}
}

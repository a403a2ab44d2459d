// Package iomarc decodes MARC records from ISO 2709 and MARCXML
// streams.
//
// Readers never stop on a malformed record. Such a record is counted,
// logged at warn level and handed to the skip hook, then decoding
// continues with the next one. Errors of the underlying io.Reader are
// returned unchanged.
package iomarc

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gnames/gnlib"
	"github.com/gnames/marctable/pkg/marc"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Reader produces decoded records.
type Reader interface {
	// Next returns the next well-formed record or io.EOF.
	Next() (*marc.Record, error)
	// Read is the number of records seen so far, including skipped ones.
	Read() int
	// Skipped is the number of malformed records dropped so far.
	Skipped() int
}

// Option changes a Reader.
type Option func(*options)

type options struct {
	charset   string
	normalize bool
	onSkip    func(error)
}

// OptCharset sets handling of invalid UTF-8 in Unicode records.
// With "strict" such a record is malformed, "replace" repairs the text.
func OptCharset(s string) Option {
	return func(o *options) {
		o.charset = s
	}
}

// OptNormalize turns on NFC normalization of all decoded text.
func OptNormalize(b bool) Option {
	return func(o *options) {
		o.normalize = b
	}
}

// OptOnSkip sets a function that receives MalformedRecordError for
// every dropped record.
func OptOnSkip(fn func(error)) Option {
	return func(o *options) {
		o.onSkip = fn
	}
}

// NewReader creates a Reader for the format "marc", "xml" or "auto".
// The auto format looks at the first non-blank byte of the input.
func NewReader(r io.Reader, format string, opts ...Option) (Reader, error) {
	switch format {
	case "marc":
		return NewBinaryReader(r, opts...), nil
	case "xml":
		return NewXMLReader(r, opts...), nil
	case "auto", "":
		br := bufio.NewReaderSize(r, 64*1024)
		if looksLikeXML(br) {
			return NewXMLReader(br, opts...), nil
		}
		return NewBinaryReader(br, opts...), nil
	default:
		return nil, InputFormatError(format)
	}
}

// FormatFromName resolves the auto format by the extension of the
// input file. Any other format is returned as is, and so is auto when
// the extension is not known.
func FormatFromName(path, format string) string {
	if format != "auto" && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return "xml"
	case ".mrc", ".marc", ".dat":
		return "marc"
	default:
		return "auto"
	}
}

func looksLikeXML(br *bufio.Reader) bool {
	head, _ := br.Peek(512)
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeft(head, " \t\r\n")
	return len(head) > 0 && head[0] == '<'
}

// state keeps counters and text decoding shared by readers.
type state struct {
	options
	read    int
	skipped int
	latin1  *encoding.Decoder
}

func newState(opts []Option) state {
	res := state{
		options: options{charset: "strict"},
		latin1:  charmap.ISO8859_1.NewDecoder(),
	}
	for _, opt := range opts {
		opt(&res.options)
	}
	return res
}

func (s *state) Read() int {
	return s.read
}

func (s *state) Skipped() int {
	return s.skipped
}

func (s *state) skip(err error) {
	s.skipped++
	err = MalformedRecordError(s.read, err)
	slog.Warn("Skipping malformed record", "record", s.read, "error", err)
	if s.onSkip != nil {
		s.onSkip(err)
	}
}

// text converts raw bytes of a record. Records without the Unicode
// flag in the leader are read as ISO-8859-1, MARC-8 escape sequences
// are not translated.
func (s *state) text(b []byte, unicode bool) (string, error) {
	var res string
	switch {
	case !unicode:
		bs, err := s.latin1.Bytes(b)
		if err != nil {
			return "", err
		}
		res = string(bs)
	case utf8.Valid(b):
		res = string(b)
	case s.charset == "replace":
		res = gnlib.FixUtf8(string(b))
	default:
		return "", errInvalidUTF8
	}
	if s.normalize {
		res = norm.NFC.String(res)
	}
	return res, nil
}

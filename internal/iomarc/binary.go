package iomarc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gnames/marctable/pkg/marc"
	"github.com/kaitai-io/kaitai_struct_go_runtime/kaitai"
)

const (
	leaderLen         = 24
	entryLen          = 12
	subfieldDelimiter = 0x1F
	fieldTerminator   = 0x1E
	recordTerminator  = 0x1D

	// maxRecordLen is the largest length a 5-digit leader can declare.
	maxRecordLen = 99999
)

// BinaryReader decodes ISO 2709 records. Records are framed by the
// record terminator, so a corrupt record does not affect the records
// after it.
type BinaryReader struct {
	state
	r *bufio.Reader
}

// NewBinaryReader creates a reader of ISO 2709 records.
func NewBinaryReader(r io.Reader, opts ...Option) *BinaryReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}
	return &BinaryReader{state: newState(opts), r: br}
}

// Next returns the next well-formed record, or io.EOF at the end of
// input.
func (br *BinaryReader) Next() (*marc.Record, error) {
	for {
		raw, err := br.frame()
		if errors.Is(err, errTooLong) {
			br.read++
			br.skip(err)
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		raw = bytes.TrimLeft(raw, " \t\r\n")
		if errors.Is(err, io.EOF) {
			if len(bytes.TrimSpace(raw)) > 0 {
				br.read++
				br.skip(errTruncated)
			}
			return nil, io.EOF
		}

		br.read++
		rec, err := br.decode(raw)
		if err != nil {
			br.skip(err)
			continue
		}
		return rec, nil
	}
}

// frame reads bytes up to and including the next record terminator.
// Bytes of a frame longer than maxRecordLen are dropped while reading
// until the terminator, and errTooLong is returned for the whole frame.
func (br *BinaryReader) frame() ([]byte, error) {
	var res []byte
	var tooLong bool
	for {
		chunk, err := br.r.ReadSlice(recordTerminator)
		if !tooLong {
			if len(res)+len(chunk) > maxRecordLen {
				tooLong = true
				res = nil
			} else {
				res = append(res, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if tooLong && (err == nil || errors.Is(err, io.EOF)) {
			return nil, errTooLong
		}
		return res, err
	}
}

// decode parses one framed record. Raw bytes end with the record
// terminator.
func (br *BinaryReader) decode(raw []byte) (*marc.Record, error) {
	ks := kaitai.NewStream(bytes.NewReader(raw))
	size, err := ks.Size()
	if err != nil {
		return nil, err
	}

	lb, err := ks.ReadBytes(leaderLen)
	if err != nil {
		return nil, fmt.Errorf("record is shorter than its leader (%d bytes)", size)
	}
	length, ok := number(lb[0:5])
	if !ok {
		return nil, fmt.Errorf("record length '%s' is not a number", lb[0:5])
	}
	if int64(length) != size {
		return nil, fmt.Errorf(
			"record length %d differs from %d bytes before the record terminator",
			length, size,
		)
	}
	base, ok := number(lb[12:17])
	if !ok {
		return nil, fmt.Errorf("base address '%s' is not a number", lb[12:17])
	}
	if base <= leaderLen || base > length {
		return nil, fmt.Errorf("base address %d is out of record bounds", base)
	}
	unicode := lb[9] == 'a'

	dir, err := ks.ReadBytes(base - leaderLen - 1)
	if err != nil {
		return nil, err
	}
	if len(dir)%entryLen != 0 {
		return nil, fmt.Errorf("directory length %d is not a multiple of %d", len(dir), entryLen)
	}

	leader, err := br.text(lb, unicode)
	if err != nil {
		return nil, fmt.Errorf("leader: %w", err)
	}
	res := &marc.Record{
		Leader: leader,
		Fields: make([]marc.Field, 0, len(dir)/entryLen),
	}
	for i := 0; i < len(dir); i += entryLen {
		e := dir[i : i+entryLen]
		tag := string(e[0:3])
		fLen, ok1 := number(e[3:7])
		start, ok2 := number(e[7:12])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("directory entry '%s' is not valid", e)
		}
		if base+start+fLen > length-1 {
			return nil, fmt.Errorf("field %s is out of record bounds", tag)
		}
		if _, err = ks.Seek(int64(base+start), io.SeekStart); err != nil {
			return nil, err
		}
		data, err := ks.ReadBytes(fLen)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", tag, err)
		}
		data = bytes.TrimSuffix(data, []byte{fieldTerminator})

		f, err := br.field(tag, data, unicode)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", tag, err)
		}
		res.Fields = append(res.Fields, f)
	}
	return res, nil
}

func (br *BinaryReader) field(tag string, data []byte, unicode bool) (marc.Field, error) {
	res := marc.Field{Tag: tag}
	if marc.IsControlTag(tag) {
		s, err := br.text(data, unicode)
		if err != nil {
			return res, err
		}
		res.Data = s
		return res, nil
	}

	chunks := bytes.Split(data, []byte{subfieldDelimiter})
	res.Ind1, res.Ind2 = ' ', ' '
	if ind := chunks[0]; len(ind) > 0 {
		res.Ind1 = ind[0]
		if len(ind) > 1 {
			res.Ind2 = ind[1]
		}
	}
	for _, c := range chunks[1:] {
		if len(c) == 0 {
			continue
		}
		s, err := br.text(c, unicode)
		if err != nil {
			return res, err
		}
		_, n := utf8.DecodeRuneInString(s)
		res.Subfields = append(res.Subfields, marc.Subfield{
			Code:  s[:n],
			Value: s[n:],
		})
	}
	return res, nil
}

func number(b []byte) (int, bool) {
	var res int
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		res = res*10 + int(c-'0')
	}
	return res, true
}

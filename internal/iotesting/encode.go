package iotesting

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gnames/marctable/pkg/marc"
)

// DefaultLeader is a leader of a Unicode book record. Length and base
// address are filled in by Encode.
const DefaultLeader = "00000nam a2200000 a 4500"

// Encode serializes a record into ISO 2709. An empty Leader is replaced
// with DefaultLeader, record length and base address are always
// recalculated. Blank indicators are written as spaces.
func Encode(rec *marc.Record) []byte {
	var dir, data bytes.Buffer
	for _, f := range rec.Fields {
		var fb []byte
		if marc.IsControlTag(f.Tag) {
			fb = append(fb, f.Data...)
		} else {
			fb = append(fb, blank(f.Ind1), blank(f.Ind2))
			for _, sf := range f.Subfields {
				fb = append(fb, 0x1F)
				fb = append(fb, sf.Code...)
				fb = append(fb, sf.Value...)
			}
		}
		fb = append(fb, 0x1E)
		fmt.Fprintf(&dir, "%s%04d%05d", f.Tag, len(fb), data.Len())
		data.Write(fb)
	}
	dir.WriteByte(0x1E)

	base := 24 + dir.Len()
	total := base + data.Len() + 1

	leader := []byte(DefaultLeader)
	if rec.Leader != "" {
		leader = []byte(fmt.Sprintf("%-24s", rec.Leader)[:24])
	}
	copy(leader[0:5], fmt.Sprintf("%05d", total))
	copy(leader[12:17], fmt.Sprintf("%05d", base))

	res := make([]byte, 0, total)
	res = append(res, leader...)
	res = append(res, dir.Bytes()...)
	res = append(res, data.Bytes()...)
	res = append(res, 0x1D)
	return res
}

// BinaryWriter writes records as ISO 2709. It is used to create test
// data, marctable itself never writes MARC.
type BinaryWriter struct {
	w       io.Writer
	written int
}

// NewBinaryWriter creates a BinaryWriter.
func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{w: w}
}

// Write serializes one record.
func (bw *BinaryWriter) Write(rec *marc.Record) error {
	if _, err := bw.w.Write(Encode(rec)); err != nil {
		return err
	}
	bw.written++
	return nil
}

// Written returns the number of records written so far.
func (bw *BinaryWriter) Written() int {
	return bw.written
}

func blank(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}

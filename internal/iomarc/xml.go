package iomarc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/gnames/marctable/pkg/marc"
)

// XMLReader decodes MARCXML. It accepts a collection of records or a
// single record, with or without a namespace prefix.
type XMLReader struct {
	state
	dec *xml.Decoder
}

// NewXMLReader creates a reader of MARCXML records.
func NewXMLReader(r io.Reader, opts ...Option) *XMLReader {
	return &XMLReader{state: newState(opts), dec: xml.NewDecoder(r)}
}

// Next returns the next well-formed record, or io.EOF at the end of
// the document. Broken XML stops reading with the decoder error.
func (xr *XMLReader) Next() (*marc.Record, error) {
	for {
		tok, err := xr.dec.Token()
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "record" {
			continue
		}

		xr.read++
		var xrec xmlRecord
		if err = xr.dec.DecodeElement(&xrec, &se); err != nil {
			return nil, err
		}
		rec, err := xr.convert(&xrec)
		if err != nil {
			xr.skip(err)
			continue
		}
		return rec, nil
	}
}

func (xr *XMLReader) convert(xrec *xmlRecord) (*marc.Record, error) {
	res := &marc.Record{
		Leader: xrec.leader,
		Fields: make([]marc.Field, 0, len(xrec.fields)),
	}
	for _, v := range xrec.fields {
		if len(v.Tag) != 3 {
			return nil, fmt.Errorf("field tag '%s' is not 3 characters long", v.Tag)
		}
		f := marc.Field{Tag: v.Tag}
		if v.control {
			s, err := xr.text([]byte(v.Value), true)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", v.Tag, err)
			}
			f.Data = s
			res.Fields = append(res.Fields, f)
			continue
		}
		f.Ind1, f.Ind2 = indicator(v.Ind1), indicator(v.Ind2)
		for _, sf := range v.Subfields {
			if sf.Code == "" {
				return nil, fmt.Errorf("field %s has a subfield without code", v.Tag)
			}
			s, err := xr.text([]byte(sf.Value), true)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", v.Tag, err)
			}
			f.Subfields = append(f.Subfields, marc.Subfield{Code: sf.Code, Value: s})
		}
		res.Fields = append(res.Fields, f)
	}
	return res, nil
}

func indicator(s string) byte {
	if s == "" {
		return ' '
	}
	return s[0]
}

// xmlRecord keeps control and data fields in one list, so their
// document order survives decoding.
type xmlRecord struct {
	leader string
	fields []xmlField
}

type xmlField struct {
	control   bool
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Value     string        `xml:",chardata"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// UnmarshalXML reads children of a record element by their local
// names.
func (r *xmlRecord) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case "leader":
				if err = d.DecodeElement(&r.leader, &t); err != nil {
					return err
				}
			case "controlfield", "datafield":
				var f xmlField
				if err = d.DecodeElement(&f, &t); err != nil {
					return err
				}
				f.control = t.Name.Local == "controlfield"
				r.fields = append(r.fields, f)
			default:
				if err = d.Skip(); err != nil {
					return err
				}
			}
		}
	}
}

package detector

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding describes a text encoding a backup log may have been written in.
type Encoding struct {
	Name     string
	BOM      []byte
	Expected bool // the encoding backup logs are analyzed in
	decoding encoding.Encoding
}

// Decode converts raw bytes, BOM already removed, to UTF-8.
func (e *Encoding) Decode(data []byte) (string, error) {
	out, err := e.decoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Names of the encodings returned by DefaultEncodings.
const (
	UTF16LE = "UTF-16LE"
	UTF16BE = "UTF-16BE"
	UTF8    = "UTF-8"
)

// DefaultEncodings returns the encodings the detector can tell apart.
// Order matters: BOM checks run in this order.
func DefaultEncodings() []*Encoding {
	return []*Encoding{
		{
			Name:     UTF16LE,
			BOM:      []byte{0xFF, 0xFE},
			Expected: true,
			decoding: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		},
		{
			Name:     UTF16BE,
			BOM:      []byte{0xFE, 0xFF},
			decoding: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		},
		{
			Name:     UTF8,
			BOM:      []byte{0xEF, 0xBB, 0xBF},
			decoding: unicode.UTF8,
		},
	}
}

// sniff picks an encoding from a BOM, or from the position of zero bytes
// when there is none. ASCII text in UTF-16LE has a zero at every odd offset.
func sniff(encodings []*Encoding, head []byte) (*Encoding, bool) {
	for _, enc := range encodings {
		if len(enc.BOM) > 0 && bytes.HasPrefix(head, enc.BOM) {
			return enc, true
		}
	}

	var evenZero, oddZero int
	for i, b := range head {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenZero++
		} else {
			oddZero++
		}
	}

	name := UTF8
	switch {
	case oddZero > len(head)/4 && oddZero > evenZero:
		name = UTF16LE
	case evenZero > len(head)/4 && evenZero > oddZero:
		name = UTF16BE
	}
	for _, enc := range encodings {
		if enc.Name == name {
			return enc, false
		}
	}
	return encodings[len(encodings)-1], false
}

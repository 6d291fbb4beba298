// Package aribtext decodes ARIB text fields to UTF-8 strings. A full
// ARIB STD-B24 decoder handles DRCS glyphs and a large escape-code
// table; this package is a best-effort approximation that treats DARC
// name/text fields as Shift-JIS, which covers the large majority of
// VICS road and facility names in practice.
package aribtext

import (
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Decoder converts raw ARIB text bytes to UTF-8 strings.
type Decoder struct{}

// New returns a Decoder.
func New() *Decoder { return &Decoder{} }

// Decode converts b (assumed Shift-JIS encoded, per this package's
// approximation) to a UTF-8 string. Bytes that do not form valid
// Shift-JIS are passed through as the Unicode replacement character
// rather than failing the whole decode.
func (d *Decoder) Decode(b []byte) (string, error) {
	out, _, err := transform.String(japanese.ShiftJIS.NewDecoder(), string(b))
	if err != nil {
		return out, err
	}
	return out, nil
}

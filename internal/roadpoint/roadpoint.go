// Package roadpoint implements the road-point header and ARIB name
// fields shared by the 0x41 (restriction/accident) and 0x43 (section
// travel-time) data-unit decoders: "mesh(1), name(1), link_type(2),
// link_hi(4), link_lo(8)" plus each caller's own optional coordinate and
// name trailer.
package roadpoint

import "darcdecoder/internal/bitio"

// TextDecoder is the external ARIB STD-B24 character decoder
// collaborator interface. Defined here rather than importing
// internal/aribtext directly, keeping the decoders decoupled from any
// one text-decoding implementation.
type TextDecoder interface {
	Decode([]byte) (string, error)
}

// Header is the common point-header prefix.
type Header struct {
	Mesh     bool
	HasName  bool
	LinkType int
	LinkHi   int
	LinkLo   int
}

// LinkNumber combines LinkHi/LinkLo into the full 12-bit link number.
func (h Header) LinkNumber() int { return h.LinkHi<<8 | h.LinkLo }

// ReadHeader reads the 16-bit common point-header prefix.
func ReadHeader(r *bitio.Reader) (Header, error) {
	var h Header
	mesh, err := r.Flag()
	if err != nil {
		return h, err
	}
	name, err := r.Flag()
	if err != nil {
		return h, err
	}
	linkType, err := r.U(2)
	if err != nil {
		return h, err
	}
	linkHi, err := r.U(4)
	if err != nil {
		return h, err
	}
	linkLo, err := r.U(8)
	if err != nil {
		return h, err
	}
	h.Mesh = mesh
	h.HasName = name
	h.LinkType = int(linkType)
	h.LinkHi = int(linkHi)
	h.LinkLo = int(linkLo)
	return h, nil
}

// ReadName reads an 8-bit byte-length followed by that many bytes,
// decoded through dec. A nil dec returns the raw bytes unchanged as a Go
// string, used by tests and by callers that do not need text decoding.
func ReadName(r *bitio.Reader, dec TextDecoder) (string, error) {
	n, err := r.U(8)
	if err != nil {
		return "", err
	}
	raw, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	if dec == nil {
		return string(raw), nil
	}
	return dec.Decode(raw)
}

package l5

import (
	"darcdecoder/internal/bitio"
	"darcdecoder/internal/l4"
)

// HeaderGroup is the Comp-1 decode result: a typed header followed by
// the generic data-unit stream that follows it.
type HeaderGroup struct {
	Header Header
	Units  []GenericDataUnit
}

// Decoder is the Layer 5 data decoder. It is stateless: every call
// operates on a single Layer 4 data group.
type Decoder struct{}

// NewDecoder returns a stateless Layer 5 decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Result is either a Comp-1 HeaderGroup or a Comp-2 Segment, produced
// from one Layer 4 data group.
type Result struct {
	Group   *HeaderGroup
	Segment *Segment
}

// Decode parses one Layer 4 data group into its Layer 5 representation.
// A reading error in a data-unit ends that unit stream early;
// accumulated units are still returned.
func (d *Decoder) Decode(g l4.DataGroup) (Result, error) {
	if g.Comp2 != nil {
		r := bitio.NewReader(g.Comp2.SegmentsData)
		seg, err := ParseSegment(r)
		if err != nil {
			return Result{}, err
		}
		return Result{Segment: &seg}, nil
	}

	r := bitio.NewReader(g.Comp1.Data)
	header, err := ParseHeader(r)
	if err != nil {
		return Result{}, err
	}
	units := ReadGenericDataUnits(r)
	return Result{Group: &HeaderGroup{Header: header, Units: units}}, nil
}

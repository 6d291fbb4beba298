// Package pipeline wires the Layer 2 through Layer 5 decoders into a
// single push_bit/push_block/push_frame/push_data_packets/push_data_group
// stage chain, then dispatches each Layer 5 generic data unit to its
// typed 0x40-0x43 decoder.
package pipeline

import (
	"log/slog"

	"darcdecoder/internal/bitio"
	"darcdecoder/internal/dataunit/congestion"
	"darcdecoder/internal/dataunit/parking"
	"darcdecoder/internal/dataunit/restriction"
	"darcdecoder/internal/dataunit/sectiontt"
	"darcdecoder/internal/l2"
	"darcdecoder/internal/l3"
	"darcdecoder/internal/l4"
	"darcdecoder/internal/l5"
	"darcdecoder/internal/roadpoint"
)

// Data-unit parameter values dispatched to a typed decoder.
const (
	ParamCongestion  = 0x40
	ParamRestriction = 0x41
	ParamParking     = 0x42
	ParamSectionTT   = 0x43
)

// DecodedUnit is one Layer 5 generic data unit after typed dispatch. At
// most one of the typed fields is set; Raw holds the original unit when
// its Parameter is not one of the four known ones, when a 0x40 payload
// fails to decode, or when the separator did not match and
// ReadGenericDataUnit produced a Raw item. A 0x41-0x43 decode error is
// logged and whatever records were returned are kept, with Raw nil.
type DecodedUnit struct {
	Parameter   byte
	Congestion  *congestion.DataUnit
	Restriction []restriction.Record
	Parking     []parking.Record
	SectionTT   []sectiontt.Segment
	Raw         *l5.GenericDataUnit
}

// Output is produced once per completed Layer 4 data group.
type Output struct {
	ServiceID       l3.ServiceID
	DataGroupNumber int
	HeaderGroup     *l5.HeaderGroup
	Units           []DecodedUnit
	Segment         *l5.Segment
}

// Pipeline runs the single-threaded, cooperative bit-to-record chain.
// It is not safe for concurrent use; two independent bit streams need
// two independent Pipelines.
type Pipeline struct {
	logger *slog.Logger
	text   roadpoint.TextDecoder

	blockDecoder *l2.BlockDecoder
	frameDecoder *l2.FrameDecoder
	l3Decoder    *l3.Decoder
	l4Decoder    *l4.Decoder
	l5Decoder    *l5.Decoder
}

// New returns a Pipeline. text decodes ARIB name fields inside the
// restriction/parking/section-tt data units; a nil logger discards all
// log output.
func New(text roadpoint.TextDecoder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		logger:       logger,
		text:         text,
		blockDecoder: l2.NewBlockDecoder(),
		frameDecoder: l2.NewFrameDecoder(),
		l3Decoder:    l3.NewDecoder(),
		l4Decoder:    l4.NewDecoder(),
		l5Decoder:    l5.NewDecoder(),
	}
}

// PushBit feeds one demodulated bit through the full decode chain.
// Non-{0,1} inputs are logged and ignored.
func (p *Pipeline) PushBit(bit int) []Output {
	if bit != 0 && bit != 1 {
		p.logger.Warn("ignoring non-binary bit", "value", bit)
		return nil
	}

	block := p.blockDecoder.PushBit(bit)
	if block == nil {
		return nil
	}
	frame := p.frameDecoder.PushBlock(*block)
	if frame == nil {
		return nil
	}

	packets := p.l3Decoder.PushFrame(frame)
	groups := p.l4Decoder.PushDataPackets(packets)

	var outputs []Output
	for _, g := range groups {
		out, ok := p.pushDataGroup(g)
		if ok {
			outputs = append(outputs, out)
		}
	}
	return outputs
}

func (p *Pipeline) pushDataGroup(g l4.DataGroup) (Output, bool) {
	res, err := p.l5Decoder.Decode(g)
	if err != nil {
		p.logger.Error("layer 5 decode failed", "error", err)
		return Output{}, false
	}

	out := Output{Segment: res.Segment}
	if g.Comp1 != nil {
		out.ServiceID, out.DataGroupNumber = g.Comp1.ServiceID, g.Comp1.DataGroupNumber
	} else if g.Comp2 != nil {
		out.ServiceID, out.DataGroupNumber = g.Comp2.ServiceID, g.Comp2.DataGroupNumber
	}
	if res.Group == nil {
		return out, true
	}
	out.HeaderGroup = res.Group
	out.Units = make([]DecodedUnit, 0, len(res.Group.Units))
	for _, u := range res.Group.Units {
		out.Units = append(out.Units, p.dispatchUnit(u))
	}
	return out, true
}

func (p *Pipeline) dispatchUnit(u l5.GenericDataUnit) DecodedUnit {
	du := DecodedUnit{Parameter: u.Parameter}
	if u.Raw {
		du.Raw = &u
		return du
	}

	switch u.Parameter {
	case ParamCongestion:
		cu, err := congestion.Decode(u.Payload)
		if err != nil {
			p.logger.Warn("congestion data-unit decode failed", "error", err)
			du.Raw = &u
			return du
		}
		du.Congestion = &cu
	case ParamRestriction:
		recs, err := restriction.DecodeAll(u.Payload, p.text)
		if err != nil {
			p.logger.Warn("restriction data-unit decode failed", "error", err)
		}
		du.Restriction = recs
	case ParamParking:
		recs, err := parking.DecodeAll(u.Payload, p.text)
		if err != nil {
			p.logger.Warn("parking data-unit decode failed", "error", err)
		}
		du.Parking = recs
	case ParamSectionTT:
		segs, err := sectiontt.DecodeAll(u.Payload, p.text)
		if err != nil {
			p.logger.Warn("section travel-time data-unit decode failed", "error", err)
		}
		du.SectionTT = segs
	default:
		du.Raw = &u
	}
	return du
}

// PushBits feeds every bit yielded by bits through PushBit, in order,
// returning every Output produced along the way.
func (p *Pipeline) PushBits(bits func(func(int) bool)) []Output {
	var outputs []Output
	bits(func(bit int) bool {
		outputs = append(outputs, p.PushBit(bit)...)
		return true
	})
	return outputs
}

// PushBytes treats each byte of data as one logical bit (its
// least-significant bit) and feeds it through PushBit.
func (p *Pipeline) PushBytes(data []byte) []Output {
	var outputs []Output
	bitio.Bits(func(yield func(byte) bool) {
		for _, b := range data {
			if !yield(b) {
				return
			}
		}
	})(func(bit int) bool {
		outputs = append(outputs, p.PushBit(bit)...)
		return true
	})
	return outputs
}

// Package l5 implements the DARC Layer 5 data decoder: the eight
// data-header variants, the generic TLV data-unit stream they precede,
// and the Segment format used by the ADDITIONAL_INFORMATION service.
package l5

import (
	"fmt"

	"darcdecoder/internal/bitio"
	"darcdecoder/internal/darcerr"
)

// Wire-level separator bytes.
const (
	InformationSeparator = 0x1E
	DataUnitSeparator    = 0x1F
)

// HeaderParam is the 1-byte data-header parameter selecting one of the
// eight header variants.
type HeaderParam byte

const (
	ParamProgramDataA        HeaderParam = 0x30
	ParamProgramDataB        HeaderParam = 0x31
	ParamPageDataA           HeaderParam = 0x32
	ParamPageDataB           HeaderParam = 0x33
	ParamProgramCommonMacroA HeaderParam = 0x34
	ParamProgramCommonMacroB HeaderParam = 0x35
	ParamContinue            HeaderParam = 0x36
	ParamProgramIndex        HeaderParam = 0x37
)

func (p HeaderParam) String() string {
	switch p {
	case ParamProgramDataA:
		return "PROGRAM_DATA_A"
	case ParamProgramDataB:
		return "PROGRAM_DATA_B"
	case ParamPageDataA:
		return "PAGE_DATA_A"
	case ParamPageDataB:
		return "PAGE_DATA_B"
	case ParamProgramCommonMacroA:
		return "PROGRAM_COMMON_MACRO_A"
	case ParamProgramCommonMacroB:
		return "PROGRAM_COMMON_MACRO_B"
	case ParamContinue:
		return "CONTINUE"
	case ParamProgramIndex:
		return "PROGRAM_INDEX"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", byte(p))
	}
}

// MapBlock is the prefecture/map-position block shared by the "B"
// variants of the program-data, page-data, and common-macro headers.
type MapBlock struct {
	Undefined0          int
	PrefectureIdentifier int
	MapType              int
	MapZoom               int
	MapPositionX         uint16 // 12 bits
	MapPositionY         uint16 // 12 bits
}

func readMapBlock(r *bitio.Reader) (MapBlock, error) {
	var m MapBlock
	fields := []struct {
		bits int
		dst  *int
	}{
		{2, &m.Undefined0},
		{6, &m.PrefectureIdentifier},
		{4, &m.MapType},
		{4, &m.MapZoom},
	}
	for _, f := range fields {
		v, err := r.U(f.bits)
		if err != nil {
			return m, err
		}
		*f.dst = int(v)
	}
	// map_position_x/y: 12 bits each, transmitted split 8/4 (high byte
	// then low nibble); reading 8 then 4 contiguous bits yields the
	// same 12-bit value as a single read.
	xHi, err := r.U(8)
	if err != nil {
		return m, err
	}
	xLo, err := r.U(4)
	if err != nil {
		return m, err
	}
	m.MapPositionX = uint16(xHi<<4 | xLo)

	yHi, err := r.U(8)
	if err != nil {
		return m, err
	}
	yLo, err := r.U(4)
	if err != nil {
		return m, err
	}
	m.MapPositionY = uint16(yHi<<4 | yLo)
	return m, nil
}

// LinkBlock is the deliver-link fields shared by PageDataB and
// ProgramCommonMacroB.
type LinkBlock struct {
	LinkLayer           int
	LinkType             int
	ReferenceLinkNumber int
}

func readLinkBlock(r *bitio.Reader) (LinkBlock, error) {
	var l LinkBlock
	fields := []struct {
		bits int
		dst  *int
	}{
		{2, &l.LinkLayer},
		{2, &l.LinkType},
		{12, &l.ReferenceLinkNumber},
	}
	for _, f := range fields {
		v, err := r.U(f.bits)
		if err != nil {
			return l, err
		}
		*f.dst = int(v)
	}
	return l, nil
}

// Header is implemented by every one of the eight data-header variants.
// Downstream consumers exhaustively type-switch on it.
type Header interface {
	Param() HeaderParam
}

// ProgramDataHeaderA is the 0x30 variant.
type ProgramDataHeaderA struct {
	ProgramNumber      int
	ContentChange      int
	TotalPages         int
	DisplayInstruction int
	InformationType    int
	DisplayFormat      int
}

func (ProgramDataHeaderA) Param() HeaderParam { return ParamProgramDataA }

func readProgramDataA(r *bitio.Reader) (ProgramDataHeaderA, error) {
	var h ProgramDataHeaderA
	fields := []struct {
		bits int
		dst  *int
	}{
		{8, &h.ProgramNumber},
		{2, &h.ContentChange},
		{6, &h.TotalPages},
		{8, &h.DisplayInstruction},
		{4, &h.InformationType},
		{4, &h.DisplayFormat},
	}
	for _, f := range fields {
		v, err := r.U(f.bits)
		if err != nil {
			return h, err
		}
		*f.dst = int(v)
	}
	return h, nil
}

// ProgramDataHeaderB is the 0x31 variant: ProgramDataHeaderA plus a map
// block.
type ProgramDataHeaderB struct {
	ProgramDataHeaderA
	Map MapBlock
}

func (ProgramDataHeaderB) Param() HeaderParam { return ParamProgramDataB }

// PageDataHeaderA is the 0x32 variant: ProgramDataHeaderA plus raster
// color fields.
type PageDataHeaderA struct {
	ProgramDataHeaderA
	HeaderRasterColor int
	RasterColor       int
}

func (PageDataHeaderA) Param() HeaderParam { return ParamPageDataA }

func readPageDataA(r *bitio.Reader) (PageDataHeaderA, error) {
	base, err := readProgramDataA(r)
	if err != nil {
		return PageDataHeaderA{}, err
	}
	hc, err := r.U(4)
	if err != nil {
		return PageDataHeaderA{}, err
	}
	rc, err := r.U(4)
	if err != nil {
		return PageDataHeaderA{}, err
	}
	return PageDataHeaderA{ProgramDataHeaderA: base, HeaderRasterColor: int(hc), RasterColor: int(rc)}, nil
}

// PageDataHeaderB is the 0x33 variant: PageDataHeaderA plus a map block
// and delivery/link fields.
type PageDataHeaderB struct {
	PageDataHeaderA
	Map              MapBlock
	ContentType      int
	DeliverTimeFlag  bool
	DeliverHour      int
	DeliverMinute    int
	Link             LinkBlock
}

func (PageDataHeaderB) Param() HeaderParam { return ParamPageDataB }

// ProgramCommonMacroHeaderA is the 0x34 variant.
type ProgramCommonMacroHeaderA struct {
	DisplayInstruction int
	Update             bool
	Undefined0         int
	DisplayFormat      int
	MacroSet           int
	MacroSetCode       int
}

func (ProgramCommonMacroHeaderA) Param() HeaderParam { return ParamProgramCommonMacroA }

func readProgramCommonMacroA(r *bitio.Reader) (ProgramCommonMacroHeaderA, error) {
	var h ProgramCommonMacroHeaderA
	di, err := r.U(8)
	if err != nil {
		return h, err
	}
	upd, err := r.U(1)
	if err != nil {
		return h, err
	}
	und, err := r.U(3)
	if err != nil {
		return h, err
	}
	df, err := r.U(4)
	if err != nil {
		return h, err
	}
	ms, err := r.U(8)
	if err != nil {
		return h, err
	}
	msc, err := r.U(16)
	if err != nil {
		return h, err
	}
	h.DisplayInstruction = int(di)
	h.Update = upd != 0
	h.Undefined0 = int(und)
	h.DisplayFormat = int(df)
	h.MacroSet = int(ms)
	h.MacroSetCode = int(msc)
	return h, nil
}

// ProgramCommonMacroHeaderB is the 0x35 variant: ProgramCommonMacroHeaderA
// plus a map block and link fields.
type ProgramCommonMacroHeaderB struct {
	ProgramCommonMacroHeaderA
	Map  MapBlock
	Link LinkBlock
}

func (ProgramCommonMacroHeaderB) Param() HeaderParam { return ParamProgramCommonMacroB }

// ContinueHeader is the 0x36 variant: no additional payload.
type ContinueHeader struct{}

func (ContinueHeader) Param() HeaderParam { return ParamContinue }

// ProgramIndexHeader is the 0x37 variant.
type ProgramIndexHeader struct {
	Undefined0    int
	IndexControl  int
}

func (ProgramIndexHeader) Param() HeaderParam { return ParamProgramIndex }

func readProgramIndex(r *bitio.Reader) (ProgramIndexHeader, error) {
	var h ProgramIndexHeader
	und, err := r.U(6)
	if err != nil {
		return h, err
	}
	ic, err := r.U(2)
	if err != nil {
		return h, err
	}
	h.Undefined0 = int(und)
	h.IndexControl = int(ic)
	return h, nil
}

// headerParsers is a central parameter-byte -> parser function registry,
// a plain map since L5 headers dispatch on exactly one byte with no
// priority/quick-check machinery.
var headerParsers = map[HeaderParam]func(*bitio.Reader) (Header, error){
	ParamProgramDataA: func(r *bitio.Reader) (Header, error) { return wrapErr(readProgramDataA(r)) },
	ParamProgramDataB: func(r *bitio.Reader) (Header, error) {
		base, err := readProgramDataA(r)
		if err != nil {
			return nil, err
		}
		m, err := readMapBlock(r)
		if err != nil {
			return nil, err
		}
		return ProgramDataHeaderB{ProgramDataHeaderA: base, Map: m}, nil
	},
	ParamPageDataA: func(r *bitio.Reader) (Header, error) { return wrapErr(readPageDataA(r)) },
	ParamPageDataB: func(r *bitio.Reader) (Header, error) {
		base, err := readPageDataA(r)
		if err != nil {
			return nil, err
		}
		m, err := readMapBlock(r)
		if err != nil {
			return nil, err
		}
		ct, err := r.U(4)
		if err != nil {
			return nil, err
		}
		tf, err := r.U(1)
		if err != nil {
			return nil, err
		}
		hourHi, err := r.U(3)
		if err != nil {
			return nil, err
		}
		hourLo, err := r.U(2)
		if err != nil {
			return nil, err
		}
		minute, err := r.U(6)
		if err != nil {
			return nil, err
		}
		link, err := readLinkBlock(r)
		if err != nil {
			return nil, err
		}
		return PageDataHeaderB{
			PageDataHeaderA: base,
			Map:             m,
			ContentType:     int(ct),
			DeliverTimeFlag: tf != 0,
			DeliverHour:     int(hourHi<<2 | hourLo),
			DeliverMinute:   int(minute),
			Link:            link,
		}, nil
	},
	ParamProgramCommonMacroA: func(r *bitio.Reader) (Header, error) { return wrapErr(readProgramCommonMacroA(r)) },
	ParamProgramCommonMacroB: func(r *bitio.Reader) (Header, error) {
		base, err := readProgramCommonMacroA(r)
		if err != nil {
			return nil, err
		}
		m, err := readMapBlock(r)
		if err != nil {
			return nil, err
		}
		link, err := readLinkBlock(r)
		if err != nil {
			return nil, err
		}
		return ProgramCommonMacroHeaderB{ProgramCommonMacroHeaderA: base, Map: m, Link: link}, nil
	},
	ParamContinue:     func(r *bitio.Reader) (Header, error) { return ContinueHeader{}, nil },
	ParamProgramIndex: func(r *bitio.Reader) (Header, error) { return wrapErr(readProgramIndex(r)) },
}

func wrapErr[T Header](h T, err error) (Header, error) {
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ParseHeader reads the 2-byte information-separator + parameter prefix
// and dispatches to the matching header parser. An unrecognised
// parameter is a StructuralError: the group is not a valid Comp-1
// data-header stream.
func ParseHeader(r *bitio.Reader) (Header, error) {
	sep, err := r.U(8)
	if err != nil {
		return nil, &darcerr.ParseError{Stage: "l5.header", Err: err}
	}
	if sep != InformationSeparator {
		return nil, &darcerr.StructuralError{Stage: "l5.header", Msg: fmt.Sprintf("expected separator 0x%02X, got 0x%02X", InformationSeparator, sep)}
	}
	param, err := r.U(8)
	if err != nil {
		return nil, &darcerr.ParseError{Stage: "l5.header", Err: err}
	}
	parse, ok := headerParsers[HeaderParam(param)]
	if !ok {
		return nil, &darcerr.StructuralError{Stage: "l5.header", Msg: fmt.Sprintf("unknown header parameter 0x%02X", param)}
	}
	return parse(r)
}

// Package sectiontt implements DARC data-unit 0x43: section travel-time
// segments, each a primary Start/End/Via route plus optional alternate
// routes.
package sectiontt

import (
	"fmt"

	"darcdecoder/internal/bitio"
	"darcdecoder/internal/darcerr"
	"darcdecoder/internal/roadpoint"
)

// ExtFlag selects whether a segment carries alternate routes, or is an
// unparseable reserved layout.
type ExtFlag int

const (
	ExtBasic     ExtFlag = 0
	ExtBasicExt1 ExtFlag = 1
	ExtReserved2 ExtFlag = 2
	ExtReserved3 ExtFlag = 3
)

// Reserved reports whether flag marks a reserved, unparseable layout.
func (f ExtFlag) Reserved() bool { return f == ExtReserved2 || f == ExtReserved3 }

// Point is one Start/End/Via point shared by the primary and alternate
// routes.
type Point struct {
	roadpoint.Header
	CoordX *int
	CoordY *int
	Name   string
}

func readPoint(r *bitio.Reader, dec roadpoint.TextDecoder) (Point, error) {
	h, err := roadpoint.ReadHeader(r)
	if err != nil {
		return Point{}, err
	}
	p := Point{Header: h}
	if h.Mesh {
		x, err := r.U(8)
		if err != nil {
			return p, err
		}
		y, err := r.U(8)
		if err != nil {
			return p, err
		}
		xv, yv := int(x), int(y)
		p.CoordX, p.CoordY = &xv, &yv
	}
	if h.HasName {
		name, err := roadpoint.ReadName(r, dec)
		if err != nil {
			return p, err
		}
		p.Name = name
	}
	return p, nil
}

func readPoints(r *bitio.Reader, dec roadpoint.TextDecoder, count int) ([]Point, error) {
	points := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		p, err := readPoint(r, dec)
		if err != nil {
			return points, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// AltRoute is one alternate route group following a BASIC_EXT1 segment.
type AltRoute struct {
	HourRaw   int
	MinuteRaw int
	Points    []Point
}

func readAltRoute(r *bitio.Reader, dec roadpoint.TextDecoder) (AltRoute, error) {
	var a AltRoute
	hour, err := r.U(5)
	if err != nil {
		return a, err
	}
	minute, err := r.U(6)
	if err != nil {
		return a, err
	}
	r.AlignByte()
	linkCount, err := r.U(8)
	if err != nil {
		return a, err
	}
	a.HourRaw = int(hour)
	a.MinuteRaw = int(minute)
	points, err := readPoints(r, dec, int(linkCount))
	if err != nil {
		return a, err
	}
	a.Points = points
	return a, nil
}

// Segment is one fully decoded section travel-time segment.
type Segment struct {
	ExtFlag       ExtFlag
	HoursRaw      int
	Priority      int
	MinutesRaw    int
	Points        []Point
	AltRoutes     []AltRoute
	FastForwarded bool
}

func readSegment(r *bitio.Reader, dec roadpoint.TextDecoder) (Segment, error) {
	var seg Segment
	extFlag, err := r.U(2)
	if err != nil {
		return seg, err
	}
	if _, err := r.U(1); err != nil { // undef
		return seg, err
	}
	hours, err := r.U(5)
	if err != nil {
		return seg, err
	}
	seg.ExtFlag = ExtFlag(extFlag)
	seg.HoursRaw = int(hours)

	if seg.ExtFlag.Reserved() {
		seg.FastForwarded = true
		r.Skip(r.Remaining())
		return seg, nil
	}

	priority, err := r.U(2)
	if err != nil {
		return seg, err
	}
	minutes, err := r.U(6)
	if err != nil {
		return seg, err
	}
	linkCount, err := r.U(8)
	if err != nil {
		return seg, err
	}
	seg.Priority = int(priority)
	seg.MinutesRaw = int(minutes)

	points, err := readPoints(r, dec, int(linkCount))
	if err != nil {
		return seg, fmt.Errorf("primary route: %w", err)
	}
	seg.Points = points

	if seg.ExtFlag == ExtBasicExt1 {
		for r.Remaining() >= 5 {
			altCount, err := r.U(5)
			if err != nil {
				return seg, fmt.Errorf("alt-route count: %w", err)
			}
			if altCount == 0 {
				break
			}
			for i := 0; i < int(altCount); i++ {
				alt, err := readAltRoute(r, dec)
				if err != nil {
					return seg, fmt.Errorf("alt-route %d: %w", i, err)
				}
				seg.AltRoutes = append(seg.AltRoutes, alt)
			}
		}
	}
	return seg, nil
}

// DecodeAll parses every segment in payload until the stream is
// exhausted.
func DecodeAll(payload []byte, dec roadpoint.TextDecoder) ([]Segment, error) {
	r := bitio.NewReader(payload)
	var segments []Segment
	for i := 0; r.Remaining() >= 8; i++ {
		seg, err := readSegment(r, dec)
		if err != nil {
			return segments, &darcerr.ParseError{Stage: "dataunit43", Err: fmt.Errorf("segment %d: %w", i, err)}
		}
		segments = append(segments, seg)
		if seg.FastForwarded {
			break
		}
	}
	return segments, nil
}

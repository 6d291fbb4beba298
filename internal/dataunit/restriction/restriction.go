// Package restriction implements DARC data-unit 0x41: road
// restriction/accident records made of a Start/End/Via chain of road
// points plus optional Ext-1 (distance detail) and Ext-2 (time window)
// blocks.
package restriction

import (
	"fmt"

	"darcdecoder/internal/bitio"
	"darcdecoder/internal/darcerr"
	"darcdecoder/internal/roadpoint"
)

// ExtFlag selects which extension blocks follow a record's basic-info
// chain.
type ExtFlag int

const (
	ExtBasic         ExtFlag = 0
	ExtBasicExt1     ExtFlag = 1
	ExtBasicExt1Ext2 ExtFlag = 2
	ExtReserved      ExtFlag = 3
)

// RecordHeader is the 3-byte per-record header.
type RecordHeader struct {
	ExtFlag             ExtFlag
	LinkCount           int // total Start+End+Via point count
	CauseEvent          int
	RestrictionContent  int
	DistanceUnit        int
	RestrictionLength   int
}

func readRecordHeader(r *bitio.Reader) (RecordHeader, error) {
	var h RecordHeader
	extFlag, err := r.U(2)
	if err != nil {
		return h, err
	}
	linkCount, err := r.U(6)
	if err != nil {
		return h, err
	}
	cause, err := r.U(4)
	if err != nil {
		return h, err
	}
	content, err := r.U(4)
	if err != nil {
		return h, err
	}
	distUnit, err := r.U(2)
	if err != nil {
		return h, err
	}
	length, err := r.U(6)
	if err != nil {
		return h, err
	}
	h.ExtFlag = ExtFlag(extFlag)
	h.LinkCount = int(linkCount)
	h.CauseEvent = int(cause)
	h.RestrictionContent = int(content)
	h.DistanceUnit = int(distUnit)
	h.RestrictionLength = int(length)
	return h, nil
}

// Point is one Start/End/Via block. CoordXHi/CoordYHi are present only
// when Header.Mesh is set (End and Via blocks); ContinuousLinks is
// present only on Via blocks.
type Point struct {
	roadpoint.Header
	CoordXHi        *int
	CoordYHi        *int
	ContinuousLinks *int
	Name            string
}

func readStart(r *bitio.Reader, dec roadpoint.TextDecoder) (Point, error) {
	h, err := roadpoint.ReadHeader(r)
	if err != nil {
		return Point{}, err
	}
	p := Point{Header: h}
	if h.HasName {
		name, err := roadpoint.ReadName(r, dec)
		if err != nil {
			return p, err
		}
		p.Name = name
	}
	return p, nil
}

func readEnd(r *bitio.Reader, dec roadpoint.TextDecoder) (Point, error) {
	h, err := roadpoint.ReadHeader(r)
	if err != nil {
		return Point{}, err
	}
	p := Point{Header: h}
	if h.Mesh {
		xHi, err := r.U(8)
		if err != nil {
			return p, err
		}
		yHi, err := r.U(8)
		if err != nil {
			return p, err
		}
		x, y := int(xHi), int(yHi)
		p.CoordXHi, p.CoordYHi = &x, &y
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

func readVia(r *bitio.Reader, dec roadpoint.TextDecoder) (Point, error) {
	h, err := roadpoint.ReadHeader(r)
	if err != nil {
		return Point{}, err
	}
	p := Point{Header: h}
	cl, err := r.U(8)
	if err != nil {
		return p, err
	}
	clv := int(cl)
	p.ContinuousLinks = &clv
	if h.Mesh {
		xHi, err := r.U(8)
		if err != nil {
			return p, err
		}
		yHi, err := r.U(8)
		if err != nil {
			return p, err
		}
		x, y := int(xHi), int(yHi)
		p.CoordXHi, p.CoordYHi = &x, &y
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

// Ext1 is the 4-byte distance-detail extension.
type Ext1 struct {
	RegContentDetail int
	CauseEventDetail int
	DistStartUnit    int
	DistFromStart    int
	DistEndUnit      int
	DistFromEnd      int
}

func readExt1(r *bitio.Reader) (Ext1, error) {
	var e Ext1
	regDetail, err := r.U(8)
	if err != nil {
		return e, err
	}
	causeDetail, err := r.U(8)
	if err != nil {
		return e, err
	}
	startUnit, err := r.U(2)
	if err != nil {
		return e, err
	}
	fromStart, err := r.U(6)
	if err != nil {
		return e, err
	}
	endUnit, err := r.U(2)
	if err != nil {
		return e, err
	}
	fromEnd, err := r.U(6)
	if err != nil {
		return e, err
	}
	e.RegContentDetail = int(regDetail)
	e.CauseEventDetail = int(causeDetail)
	e.DistStartUnit = int(startUnit)
	e.DistFromStart = int(fromStart)
	e.DistEndUnit = int(endUnit)
	e.DistFromEnd = int(fromEnd)
	return e, nil
}

// Ext2 is the 6-byte restriction time-window extension.
type Ext2 struct {
	TimeFlag     bool
	Undefined    int
	StartMonth   int
	EndMonth     int
	StartDay     int
	StartHour    int
	StartMinute  int
	EndDay       int
	EndHour      int
	EndMinute    int
}

// undefinedMonth/Day are the unknown-value sentinels.
const (
	undefinedMonth = 0
	undefinedDay   = 0
	minUndefHour   = 24
	minUndefMinute = 60
)

// StartMonthKnown reports whether StartMonth is a real value (not the 0
// sentinel).
func (e Ext2) StartMonthKnown() bool { return e.StartMonth != undefinedMonth }

// EndMonthKnown reports whether EndMonth is a real value.
func (e Ext2) EndMonthKnown() bool { return e.EndMonth != undefinedMonth }

// StartDayKnown reports whether StartDay is a real value.
func (e Ext2) StartDayKnown() bool { return e.StartDay != undefinedDay }

// EndDayKnown reports whether EndDay is a real value.
func (e Ext2) EndDayKnown() bool { return e.EndDay != undefinedDay }

// StartHourKnown reports whether StartHour is a real value.
func (e Ext2) StartHourKnown() bool { return e.StartHour < minUndefHour }

// EndHourKnown reports whether EndHour is a real value.
func (e Ext2) EndHourKnown() bool { return e.EndHour < minUndefHour }

// StartMinuteKnown reports whether StartMinute is a real value.
func (e Ext2) StartMinuteKnown() bool { return e.StartMinute < minUndefMinute }

// EndMinuteKnown reports whether EndMinute is a real value.
func (e Ext2) EndMinuteKnown() bool { return e.EndMinute < minUndefMinute }

func readExt2(r *bitio.Reader) (Ext2, error) {
	var e Ext2
	fields := []struct {
		bits int
		dst  *int
	}{
		{7, &e.Undefined},
		{4, &e.StartMonth},
		{4, &e.EndMonth},
		{5, &e.StartDay},
		{5, &e.StartHour},
		{6, &e.StartMinute},
		{5, &e.EndDay},
		{5, &e.EndHour},
		{6, &e.EndMinute},
	}
	flag, err := r.Flag()
	if err != nil {
		return e, err
	}
	e.TimeFlag = flag
	for _, f := range fields {
		v, err := r.U(f.bits)
		if err != nil {
			return e, err
		}
		*f.dst = int(v)
	}
	return e, nil
}

// Record is one fully decoded restriction/accident record.
type Record struct {
	Header RecordHeader
	Start  Point
	End    Point
	Via    []Point
	Ext1   *Ext1
	Ext2   *Ext2
}

func readRecord(r *bitio.Reader, dec roadpoint.TextDecoder) (Record, error) {
	header, err := readRecordHeader(r)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Header: header}

	start, err := readStart(r, dec)
	if err != nil {
		return rec, fmt.Errorf("start point: %w", err)
	}
	rec.Start = start

	if header.LinkCount >= 2 {
		end, err := readEnd(r, dec)
		if err != nil {
			return rec, fmt.Errorf("end point: %w", err)
		}
		rec.End = end
	}

	for i := 0; i < header.LinkCount-2; i++ {
		via, err := readVia(r, dec)
		if err != nil {
			return rec, fmt.Errorf("via point %d: %w", i, err)
		}
		rec.Via = append(rec.Via, via)
	}

	switch header.ExtFlag {
	case ExtBasicExt1:
		ext1, err := readExt1(r)
		if err != nil {
			return rec, fmt.Errorf("ext1: %w", err)
		}
		rec.Ext1 = &ext1
	case ExtBasicExt1Ext2:
		ext1, err := readExt1(r)
		if err != nil {
			return rec, fmt.Errorf("ext1: %w", err)
		}
		ext2, err := readExt2(r)
		if err != nil {
			return rec, fmt.Errorf("ext2: %w", err)
		}
		rec.Ext1 = &ext1
		rec.Ext2 = &ext2
	}
	return rec, nil
}

// DecodeAll parses every restriction/accident record in payload until
// the stream is exhausted.
func DecodeAll(payload []byte, dec roadpoint.TextDecoder) ([]Record, error) {
	r := bitio.NewReader(payload)
	var records []Record
	for i := 0; r.Remaining() >= 24; i++ {
		rec, err := readRecord(r, dec)
		if err != nil {
			return records, &darcerr.ParseError{Stage: "dataunit41", Err: fmt.Errorf("record %d: %w", i, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

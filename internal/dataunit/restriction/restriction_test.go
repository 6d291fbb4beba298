package restriction

import "testing"

// recordHeader packs the 3-byte record header: ext_flag(2),
// link_count(6), cause_event(4), restriction_content(4),
// distance_unit(2), restriction_length(6).
func recordHeader(extFlag, linkCount, cause, content, distUnit, length int) []byte {
	b0 := byte(extFlag<<6 | linkCount)
	b1 := byte(cause<<4 | content)
	b2 := byte(distUnit<<6 | length)
	return []byte{b0, b1, b2}
}

// pointHeader packs the common 16-bit point header: mesh(1), name(1),
// link_type(2), link_hi(4), link_lo(8).
func pointHeader(mesh, name bool, linkType, linkHi, linkLo int) []byte {
	m, n := 0, 0
	if mesh {
		m = 1
	}
	if name {
		n = 1
	}
	b0 := byte(m<<7 | n<<6 | linkType<<4 | linkHi)
	return []byte{b0, byte(linkLo)}
}

func TestDecodeAllBasicTwoPoints(t *testing.T) {
	buf := recordHeader(int(ExtBasic), 2, 1, 2, 0, 10)
	buf = append(buf, pointHeader(false, false, 0, 1, 0x10)...) // start
	buf = append(buf, pointHeader(true, false, 0, 2, 0x20)...) // end
	buf = append(buf, 0x05, 0x09)                               // end coord hi

	records, err := DecodeAll(buf, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Header.CauseEvent != 1 || rec.Header.RestrictionContent != 2 {
		t.Errorf("header = %+v", rec.Header)
	}
	if rec.Start.LinkNumber() != 0x110 {
		t.Errorf("start link = %x", rec.Start.LinkNumber())
	}
	if rec.End.CoordXHi == nil || *rec.End.CoordXHi != 0x05 {
		t.Errorf("end coord = %+v", rec.End)
	}
	if len(rec.Via) != 0 {
		t.Errorf("via = %+v, want none", rec.Via)
	}
}

func TestDecodeAllWithVia(t *testing.T) {
	buf := recordHeader(int(ExtBasic), 3, 0, 0, 0, 0)
	buf = append(buf, pointHeader(false, false, 0, 0, 1)...)  // start
	buf = append(buf, pointHeader(false, false, 0, 0, 2)...)  // end
	buf = append(buf, pointHeader(false, false, 0, 0, 3)...)  // via
	buf = append(buf, 0x07)                                    // via continuous_links

	records, err := DecodeAll(buf, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(records) != 1 || len(records[0].Via) != 1 {
		t.Fatalf("records = %+v", records)
	}
	if *records[0].Via[0].ContinuousLinks != 0x07 {
		t.Errorf("continuous links = %+v", records[0].Via[0])
	}
}

func TestDecodeAllExt1(t *testing.T) {
	buf := recordHeader(int(ExtBasicExt1), 2, 0, 0, 0, 0)
	buf = append(buf, pointHeader(false, false, 0, 0, 1)...)
	buf = append(buf, pointHeader(false, false, 0, 0, 2)...)
	buf = append(buf, 0x11, 0x22, byte(1<<6|5), byte(2<<6|10)) // ext1

	records, err := DecodeAll(buf, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if records[0].Ext1 == nil {
		t.Fatal("expected Ext1")
	}
	e := records[0].Ext1
	if e.RegContentDetail != 0x11 || e.CauseEventDetail != 0x22 {
		t.Errorf("ext1 = %+v", e)
	}
	if e.DistStartUnit != 1 || e.DistFromStart != 5 {
		t.Errorf("ext1 start dist = %+v", e)
	}
	if e.DistEndUnit != 2 || e.DistFromEnd != 10 {
		t.Errorf("ext1 end dist = %+v", e)
	}
}

func TestExt2TimeSentinels(t *testing.T) {
	e := Ext2{StartMonth: 0, EndMonth: 3, StartHour: 24, EndHour: 5, StartMinute: 60, EndMinute: 30}
	if e.StartMonthKnown() {
		t.Error("StartMonth should be unknown")
	}
	if !e.EndMonthKnown() {
		t.Error("EndMonth should be known")
	}
	if e.StartHourKnown() {
		t.Error("StartHour should be unknown")
	}
	if !e.EndHourKnown() {
		t.Error("EndHour should be known")
	}
	if e.StartMinuteKnown() {
		t.Error("StartMinute should be unknown")
	}
	if !e.EndMinuteKnown() {
		t.Error("EndMinute should be known")
	}
}

func TestDecodeAllMultipleRecords(t *testing.T) {
	var buf []byte
	buf = append(buf, recordHeader(int(ExtBasic), 2, 0, 0, 0, 0)...)
	buf = append(buf, pointHeader(false, false, 0, 0, 1)...)
	buf = append(buf, pointHeader(false, false, 0, 0, 2)...)
	buf = append(buf, recordHeader(int(ExtBasic), 2, 0, 0, 0, 0)...)
	buf = append(buf, pointHeader(false, false, 0, 0, 3)...)
	buf = append(buf, pointHeader(false, false, 0, 0, 4)...)

	records, err := DecodeAll(buf, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Start.LinkNumber() != 3 {
		t.Errorf("second record start = %+v", records[1].Start)
	}
}

func TestDecodeAllTruncatedStopsCleanly(t *testing.T) {
	buf := recordHeader(int(ExtBasic), 2, 0, 0, 0, 0)
	buf = append(buf, pointHeader(false, false, 0, 0, 1)...)
	// missing end point entirely: should stop after zero good records.

	_, err := DecodeAll(buf, nil)
	if err == nil {
		t.Fatal("expected error from unreadable first record")
	}
}

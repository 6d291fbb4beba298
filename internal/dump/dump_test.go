package dump

import (
	"strings"
	"testing"

	"darcdecoder/internal/l4"
	"darcdecoder/internal/l5"
)

func TestHumanizeFieldName(t *testing.T) {
	cases := map[string]string{
		"ProgramNumber": "Program Number",
		"CRC":           "CRC",
		"MapPositionX":  "Map Position X",
	}
	for in, want := range cases {
		if got := humanizeFieldName(in); got != want {
			t.Errorf("humanizeFieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnitContainsParameterAndHexDump(t *testing.T) {
	u := l5.GenericDataUnit{Parameter: 0x40, Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	out := Unit(u, nil)
	if !strings.Contains(out, "0x40") {
		t.Errorf("output missing parameter: %s", out)
	}
	if !strings.Contains(out, "DE AD BE EF") {
		t.Errorf("output missing hex dump: %s", out)
	}
}

func TestSegmentWithOtherStation(t *testing.T) {
	s := l5.Segment{
		SegmentIdentifier:         0xE,
		HasOtherStationReference:  true,
		OtherStationNumber:        5,
		OtherStationSegmentID:     7,
		Body:                      []byte{0x01},
	}
	out := Segment(s, nil)
	if !strings.Contains(out, "Other Station Number") {
		t.Errorf("output missing other-station fields: %s", out)
	}
}

func TestGroupComp2NoCRC(t *testing.T) {
	g := l4.DataGroup{Comp2: &l4.DataGroup2{SegmentsData: []byte{1, 2, 3}}}
	out := Group(g)
	if !strings.Contains(out, "Type 2") {
		t.Errorf("output = %s", out)
	}
	if !strings.Contains(out, "CRC Value     : None") {
		t.Errorf("output missing None CRC: %s", out)
	}
}

package l5

import (
	"bytes"
	"testing"

	"darcdecoder/internal/bitio"
)

func TestReadGenericDataUnit(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	// separator 0x1F, parameter 0x40, link flag 1, length(15)=3 (split 7/8).
	buf := []byte{DataUnitSeparator, 0x40, 1<<7 | 0, 3}
	buf = append(buf, payload...)

	unit, ok, err := ReadGenericDataUnit(bitio.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadGenericDataUnit: %v", err)
	}
	if !ok {
		t.Fatal("expected a unit")
	}
	if unit.Parameter != 0x40 || !unit.LinkFlag {
		t.Errorf("unit = %+v", unit)
	}
	if !bytes.Equal(unit.Payload, payload) {
		t.Errorf("Payload = %x, want %x", unit.Payload, payload)
	}
}

func TestReadGenericDataUnitRawFallback(t *testing.T) {
	buf := []byte{0x00, 0x11, 0x22, 0x33}
	unit, ok, err := ReadGenericDataUnit(bitio.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadGenericDataUnit: %v", err)
	}
	if !ok || !unit.Raw {
		t.Fatalf("expected a raw unit, got %+v ok=%v", unit, ok)
	}
	if !bytes.Equal(unit.Payload, buf) {
		t.Errorf("Payload = %x, want %x", unit.Payload, buf)
	}
}

func TestReadGenericDataUnitsSkipsPadding(t *testing.T) {
	buf := []byte{0x00, 0x00, DataUnitSeparator, 0x41, 0, 1, 0x99}
	units := ReadGenericDataUnits(bitio.NewReader(buf))
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if units[0].Parameter != 0x41 || !bytes.Equal(units[0].Payload, []byte{0x99}) {
		t.Errorf("unit = %+v", units[0])
	}
}

func TestReadGenericDataUnitTruncated(t *testing.T) {
	buf := []byte{DataUnitSeparator, 0x40, 0, 5, 0x01}
	_, ok, err := ReadGenericDataUnit(bitio.NewReader(buf))
	if ok || err == nil {
		t.Fatal("expected a truncation error")
	}
}

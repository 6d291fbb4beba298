package pipeline

import (
	"testing"

	"darcdecoder/internal/l5"
)

func TestNewPipelineIgnoresNonBinaryBit(t *testing.T) {
	p := New(nil, nil)
	if out := p.PushBit(2); out != nil {
		t.Errorf("PushBit(2) = %+v, want nil", out)
	}
}

func TestDispatchUnitRaw(t *testing.T) {
	p := New(nil, nil)
	du := p.dispatchUnit(l5.GenericDataUnit{Parameter: 0x99, Payload: []byte{1, 2, 3}})
	if du.Raw == nil {
		t.Fatal("expected Raw for unknown parameter")
	}
}

func TestDispatchUnitRawFlagged(t *testing.T) {
	p := New(nil, nil)
	unit := l5.GenericDataUnit{Parameter: 0x40, Payload: []byte{0, 0, 0, 0}, Raw: true}
	du := p.dispatchUnit(unit)
	if du.Raw == nil {
		t.Fatal("expected Raw to be propagated for malformed separator units")
	}
}

func TestPushBytesNoPanicOnGarbage(t *testing.T) {
	p := New(nil, nil)
	// Garbage input with no valid BIC pattern should simply produce no
	// output, never panic or hang.
	out := p.PushBytes([]byte{0x00, 0x01, 0xFF, 0xAA, 0x55, 0x00})
	if out != nil {
		t.Errorf("out = %+v, want nil", out)
	}
}

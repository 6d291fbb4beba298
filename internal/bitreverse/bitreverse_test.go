package bitreverse

import "testing"

func TestByte(t *testing.T) {
	tests := []struct {
		in, want byte
	}{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x01, 0x80},
		{0x80, 0x01},
		{0b10110010, 0b01001101},
	}
	for _, tc := range tests {
		if got := Byte(tc.in); got != tc.want {
			t.Errorf("Byte(%#08b) = %#08b, want %#08b", tc.in, got, tc.want)
		}
	}
}

func TestByteIsInvolution(t *testing.T) {
	for v := 0; v < 256; v++ {
		if got := Byte(Byte(byte(v))); got != byte(v) {
			t.Errorf("Byte(Byte(%#02x)) = %#02x, want %#02x", v, got, v)
		}
	}
}

func TestBuffer(t *testing.T) {
	got := Buffer([]byte{0x01, 0x80})
	want := []byte{0x80, 0x01}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Buffer[%d] = %#02x, want %#02x", i, got[i], want[i])
		}
	}
}

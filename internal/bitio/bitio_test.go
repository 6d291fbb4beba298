package bitio

import "testing"

func TestReaderU(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		n    int
		want uint32
	}{
		{"byte aligned 8", []byte{0xAB}, 8, 0xAB},
		{"first nibble", []byte{0xAB}, 4, 0xA},
		{"spans two bytes", []byte{0x0F, 0xF0}, 16, 0x0FF0},
		{"single bit set", []byte{0x80}, 1, 1},
		{"single bit clear", []byte{0x7F}, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(tc.data)
			got, err := r.U(tc.n)
			if err != nil {
				t.Fatalf("U(%d) error: %v", tc.n, err)
			}
			if got != tc.want {
				t.Errorf("U(%d) = %#x, want %#x", tc.n, got, tc.want)
			}
		})
	}
}

func TestReaderSequentialReads(t *testing.T) {
	r := NewReader([]byte{0b10110010, 0b11110000})
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0}
	for i, want := range bits {
		v, err := r.U(1)
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if int(v) != want {
			t.Errorf("bit %d = %d, want %d", i, v, want)
		}
	}
}

func TestReaderInsufficientBits(t *testing.T) {
	r := NewReader([]byte{0xFF})
	if _, err := r.U(9); err != ErrInsufficientBits {
		t.Fatalf("expected ErrInsufficientBits, got %v", err)
	}
}

func TestReaderAlignByte(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xAB})
	_, _ = r.U(3)
	r.AlignByte()
	if r.Pos() != 8 {
		t.Fatalf("pos after align = %d, want 8", r.Pos())
	}
	v, err := r.U(8)
	if err != nil || v != 0xAB {
		t.Fatalf("U(8) after align = %#x, %v", v, err)
	}
}

func TestReaderFlag(t *testing.T) {
	r := NewReader([]byte{0x80})
	v, err := r.Flag()
	if err != nil || !v {
		t.Fatalf("Flag() = %v, %v, want true, nil", v, err)
	}
}

func TestReaderPeekDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0xAB})
	p, err := r.Peek(8)
	if err != nil || p != 0xAB {
		t.Fatalf("Peek = %#x, %v", p, err)
	}
	if r.Pos() != 0 {
		t.Fatalf("Peek advanced position to %d", r.Pos())
	}
}

func TestBitsFromByteStream(t *testing.T) {
	// 0x03 -> 1, 0x02 -> 0, 0x01 -> 1
	input := []byte{0x03, 0x02, 0x01}
	var got []int
	idx := 0
	byteIter := func(yield func(byte) bool) {
		for idx < len(input) {
			b := input[idx]
			idx++
			if !yield(b) {
				return
			}
		}
	}
	Bits(byteIter)(func(bit int) bool {
		got = append(got, bit)
		return true
	})
	want := []int{1, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bit %d = %d, want %d", i, got[i], want[i])
		}
	}
}

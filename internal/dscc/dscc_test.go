package dscc

import "testing"

func TestCorrectZeroSyndromeIsIdentity(t *testing.T) {
	var buf [CodewordBits / 8]byte
	for i := range buf {
		buf[i] = 0
	}
	res := Correct(buf)
	if !res.Valid || res.Corrected {
		t.Fatalf("Correct(all-zero) = %+v, want Valid=true Corrected=false", res)
	}
	if res.Buffer != buf {
		t.Errorf("Correct(all-zero) mutated buffer")
	}
}

func TestCorrectSingleBitBurstRecovered(t *testing.T) {
	var codeword [CodewordBits / 8]byte // all-zero is a valid (trivial) codeword
	var corrupted [CodewordBits / 8]byte
	copy(corrupted[:], codeword[:])
	setPatternBits(corrupted[:], 5, 1, 1) // flip a single bit at position 5

	res := Correct(corrupted)
	if !res.Valid {
		t.Fatalf("Correct(single-bit burst) reported Valid=false")
	}
	if res.Buffer != codeword {
		t.Errorf("Correct(single-bit burst) = %v, want original codeword", res.Buffer)
	}
}

func TestCorrectEightBitBurstRecovered(t *testing.T) {
	var codeword [CodewordBits / 8]byte
	var corrupted [CodewordBits / 8]byte
	copy(corrupted[:], codeword[:])
	// An 8-bit burst: first and last bit set, middle bits arbitrary.
	setPatternBits(corrupted[:], 100, 8, 0b10110001)

	res := Correct(corrupted)
	if !res.Valid {
		t.Fatalf("Correct(8-bit burst) reported Valid=false")
	}
	if res.Buffer != codeword {
		t.Errorf("Correct(8-bit burst) = %v, want original codeword", res.Buffer)
	}
}

func TestTableSizeIsBounded(t *testing.T) {
	n := len(Table())
	if n == 0 {
		t.Fatal("syndrome table is empty")
	}
	// Bounded by sum_{w=1..8} 2^max(w-2,0) * (273-w); a loose upper bound
	// check guards against an algorithmic blow-up, not exactness (some
	// syndromes collide across widths and are only kept once).
	if n > 40000 {
		t.Errorf("syndrome table unexpectedly large: %d entries", n)
	}
}

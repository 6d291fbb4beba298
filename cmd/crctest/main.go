// Command crctest is a standalone self-check binary for the CRC-14 and
// CRC-16 checksums and the DSCC(272,190) burst-correction invariant,
// run against known test vectors.
package main

import (
	"fmt"
	"os"

	"darcdecoder/internal/crc"
	"darcdecoder/internal/dscc"
)

func main() {
	ok := true
	ok = checkCRC14() && ok
	ok = checkCRC16() && ok
	ok = checkDSCCIdentity() && ok
	ok = checkDSCCBurstCorrection() && ok

	if !ok {
		os.Exit(1)
	}
	fmt.Println("all checks passed")
}

func checkCRC14() bool {
	got := crc.CRC14([]byte("123456789"))
	const want = 0x082D
	return report("CRC-14/DARC(\"123456789\")", uint64(got), want)
}

func checkCRC16() bool {
	got := crc.CRC16([]byte("123456789"))
	const want = 0xD64E
	return report("CRC-16/DARC(\"123456789\")", uint64(got), want)
}

// checkDSCCIdentity verifies that a codeword with a zero 82-bit
// syndrome is returned unchanged.
func checkDSCCIdentity() bool {
	var buf [dscc.CodewordBits / 8]byte
	res := dscc.Correct(buf)
	pass := res.Valid && !res.Corrected && res.Buffer == buf
	fmt.Printf("%-40s %v\n", "DSCC: zero-syndrome buffer is identity", pass)
	return pass
}

// checkDSCCBurstCorrection verifies that XOR-ing a valid (here, zero)
// codeword with a burst error of width <= 8 and then correcting
// recovers the original codeword, for every burst width and a handful
// of shift offsets.
func checkDSCCBurstCorrection() bool {
	var zero [dscc.CodewordBits / 8]byte
	pass := true
	for w := 1; w <= dscc.MaxBurstWidth; w++ {
		for _, shift := range []int{0, 1, 64, dscc.CodewordBits - w} {
			if shift < 0 {
				continue
			}
			corrupted := zero
			setBurst(&corrupted, shift, w)
			res := dscc.Correct(corrupted)
			if res.Buffer != zero {
				pass = false
				fmt.Printf("  burst width=%d shift=%d: FAILED to recover\n", w, shift)
			}
		}
	}
	fmt.Printf("%-40s %v\n", "DSCC: burst errors (width 1-8) recovered", pass)
	return pass
}

// setBurst flips a width-w run of bits starting at bit offset shift,
// with the first and last bit of the run always set (a "burst" in the
// DSCC sense never starts or ends on a zero bit).
func setBurst(buf *[dscc.CodewordBits / 8]byte, shift, w int) {
	flip := func(bitIdx int) {
		byteIdx := bitIdx / 8
		bitInByte := 7 - bitIdx%8
		buf[byteIdx] ^= 1 << uint(bitInByte)
	}
	if w == 1 {
		flip(shift)
		return
	}
	flip(shift)
	flip(shift + w - 1)
}

func report(label string, got, want uint64) bool {
	pass := got == want
	fmt.Printf("%-40s got=0x%04X want=0x%04X %v\n", label, got, want, pass)
	return pass
}

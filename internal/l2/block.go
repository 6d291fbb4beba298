package l2

import (
	"darcdecoder/internal/bitio"
	"darcdecoder/internal/crc"
	"darcdecoder/internal/dscc"
)

// InformationBlock carries a 176-bit data packet plus its 14-bit CRC, as
// produced from a BIC_1/2/3 payload after DSCC correction.
type InformationBlock struct {
	BlockID        BlockID
	DataPacket     [176 / 8]byte // 22 bytes
	CRC            uint16        // 14-bit value as received
	DSCCCorrected  bool          // DSCC flipped bits before CRC verification
	DSCCSyndromeOK bool          // false if DSCC had a non-zero, uncorrectable syndrome
}

// IsCRCValid reports whether the recomputed CRC-14 over DataPacket
// matches the recorded CRC.
func (b InformationBlock) IsCRCValid() bool {
	return crc.CRC14(b.DataPacket[:]) == b.CRC
}

// ParityBlock carries the 190-bit vertical parity, as produced from a
// BIC_4 payload after DSCC correction.
type ParityBlock struct {
	BlockID        BlockID
	VerticalParity [190]bool // one bool per bit, MSB-first
	DSCCCorrected  bool
	DSCCSyndromeOK bool
}

// informationBlockFromBuffer splits a corrected 272-bit buffer into an
// InformationBlock (first 176 bits = data, next 14 bits = CRC; remaining
// 82 bits are the vertical-parity contribution, discarded at this
// level).
func informationBlockFromBuffer(id BlockID, res dscc.Result) InformationBlock {
	r := bitio.NewReader(res.Buffer[:])
	var blk InformationBlock
	blk.BlockID = id
	blk.DSCCCorrected = res.Corrected
	blk.DSCCSyndromeOK = res.Valid
	data, _ := r.Bytes(176 / 8)
	copy(blk.DataPacket[:], data)
	crc14, _ := r.U(14)
	blk.CRC = uint16(crc14)
	return blk
}

func parityBlockFromBuffer(id BlockID, res dscc.Result) ParityBlock {
	r := bitio.NewReader(res.Buffer[:])
	var blk ParityBlock
	blk.BlockID = id
	blk.DSCCCorrected = res.Corrected
	blk.DSCCSyndromeOK = res.Valid
	for i := 0; i < 190; i++ {
		bit, _ := r.U(1)
		blk.VerticalParity[i] = bit != 0
	}
	return blk
}

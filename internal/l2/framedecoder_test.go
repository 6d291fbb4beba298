package l2

import (
	"testing"

	"darcdecoder/internal/crc"
)

func blockForPosition(pos int) Block {
	id := ExpectedBIC(pos)
	if id == BlockID4 {
		return Block{Parity: &ParityBlock{BlockID: id}}
	}
	var dataPacket [22]byte
	return Block{Info: &InformationBlock{
		BlockID:    id,
		DataPacket: dataPacket,
		CRC:        crc.CRC14(dataPacket[:]),
	}}
}

func TestFrameDecoderAssemblesCleanFrame(t *testing.T) {
	fd := NewFrameDecoder()
	var frame *Frame
	for pos := 1; pos <= 272; pos++ {
		if f := fd.PushBlock(blockForPosition(pos)); f != nil {
			if pos != 272 {
				t.Fatalf("frame completed early at position %d", pos)
			}
			frame = f
		}
	}
	if frame == nil {
		t.Fatalf("expected a completed frame after 272 blocks")
	}
	for i, blk := range frame.Blocks {
		if !blk.IsCRCValid() {
			t.Fatalf("frame block %d has invalid CRC", i)
		}
	}
}

func TestFrameDecoderRejectsSequenceMismatch(t *testing.T) {
	fd := NewFrameDecoder()
	for pos := 1; pos <= 13; pos++ {
		if f := fd.PushBlock(blockForPosition(pos)); f != nil {
			t.Fatalf("unexpected early frame completion")
		}
	}

	// Position 14 expects BIC_3; BIC_2 belongs only to positions 137..149.
	mismatched := Block{Info: &InformationBlock{BlockID: BlockID2}}
	if f := fd.PushBlock(mismatched); f != nil {
		t.Fatalf("expected nil on mismatched block")
	}
	if len(fd.blocks) != 0 {
		t.Fatalf("expected buffer to be reset after mismatch, got %d buffered blocks", len(fd.blocks))
	}

	// A fresh BIC_1 should start a new sequence rather than being rejected.
	if f := fd.PushBlock(blockForPosition(1)); f != nil {
		t.Fatalf("unexpected frame completion on restart")
	}
	if len(fd.blocks) != 1 {
		t.Fatalf("expected restart to buffer exactly one block, got %d", len(fd.blocks))
	}
}

package l4

import (
	"testing"

	"darcdecoder/internal/l3"
)

func TestDecoderDropsPacketWithoutOpenBuffer(t *testing.T) {
	d := NewDecoder()
	packets := []l3.DataPacket{
		{ServiceID: l3.ServiceTransmission2, DataGroupNumber: 1, DataPacketNumber: 1, DataBlock: []byte("x")},
	}
	groups := d.PushDataPackets(packets)
	if len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
	if d.OpenBufferCount() != 0 {
		t.Fatalf("expected no open buffers, got %d", d.OpenBufferCount())
	}
}

func TestDecoderAssemblesGroupAcrossPackets(t *testing.T) {
	d := NewDecoder()
	packets := []l3.DataPacket{
		// Together: bit-reversed SOH, data size 2, data "ab", end marker, CRC.
		{ServiceID: l3.ServiceTransmission2, DataGroupNumber: 5, DataPacketNumber: 0, DataBlock: []byte{0x80, 0x00, 0x40}},
		{ServiceID: l3.ServiceTransmission2, DataGroupNumber: 5, DataPacketNumber: 1, DataBlock: []byte{'a', 'b', 0x00, 0x00, 0x00}, EndOfInformationFlag: 1},
	}
	groups := d.PushDataPackets(packets)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if d.OpenBufferCount() != 0 {
		t.Fatalf("expected buffer to be closed after EOI, got %d open", d.OpenBufferCount())
	}
}

func TestDecoderEvictsOldestBufferBeyondLimit(t *testing.T) {
	d := NewDecoder()
	d.MaxGroupBuffers = 2

	for i := 0; i < 3; i++ {
		d.PushDataPackets([]l3.DataPacket{
			{ServiceID: l3.ServiceTransmission1, DataGroupNumber: i, DataPacketNumber: 0, DataBlock: []byte("x")},
		})
	}
	if d.OpenBufferCount() != 2 {
		t.Fatalf("expected eviction to cap open buffers at 2, got %d", d.OpenBufferCount())
	}
	if _, ok := d.buffers[groupKey{serviceID: l3.ServiceTransmission1, groupNumber: 0}]; ok {
		t.Fatal("expected the oldest buffer (group 0) to be evicted")
	}
}

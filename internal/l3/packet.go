// Package l3 implements the DARC Layer 3 data packet decoder: splitting a
// Layer 2 information block's 176-bit data packet into its header fields
// and data block, per the two wire compositions (Comp-1 and Comp-2).
package l3

import (
	"fmt"

	"darcdecoder/internal/bitio"
)

// PacketSize is the fixed size in bits of an L3 data packet, equal to an
// L2 information block's data packet.
const PacketSize = 176

// ServiceID is the 4-bit Layer 3 service identification code.
type ServiceID int

const (
	ServiceUndefined0 ServiceID = iota
	ServiceTransmission1
	ServiceTransmission2
	ServiceTransmission3
	ServiceTransmission4
	ServiceTransmission5
	ServiceTransmission6
	ServiceTransmission7
	ServiceTransmission8
	ServiceTransmission9
	ServiceUndefinedA
	ServiceUndefinedB
	ServiceUndefinedC
	ServiceAdditionalInformation
	ServiceAuxiliarySignal
	ServiceOperationalSignal
)

func (s ServiceID) String() string {
	if s == ServiceAdditionalInformation {
		return "ADDITIONAL_INFORMATION"
	}
	return fmt.Sprintf("SERVICE_%X", int(s))
}

// IsComp2 reports whether this packet uses the composition-2 layout.
func (p DataPacket) IsComp2() bool { return p.ServiceID.IsComposition2() }

// IsComposition2 reports whether this service ID uses the narrower
// composition-2 packet layout (4-bit group/packet numbers) instead of
// composition 1 (14-bit group, 10-bit packet numbers).
func (s ServiceID) IsComposition2() bool {
	return s == ServiceAdditionalInformation
}

// DataPacket is a decoded Layer 3 data packet.
type DataPacket struct {
	ServiceID             ServiceID
	DecodeIDFlag          int
	EndOfInformationFlag  int
	UpdateFlag            int
	DataGroupNumber       int
	DataPacketNumber      int
	DataBlock             []byte // remaining payload bits, byte-packed MSB first
	DataBlockBits         int    // exact bit length of DataBlock
}

// reverseBits reverses the low n bits of v (treats the field as
// little-endian within its own width, per the wire layout observed for
// every L3 header subfield).
func reverseBits(v uint32, n int) uint32 {
	var out uint32
	for i := 0; i < n; i++ {
		out <<= 1
		out |= (v >> uint(i)) & 1
	}
	return out
}

// FromBuffer decodes a 176-bit data packet buffer into a DataPacket.
func FromBuffer(buf []byte) (DataPacket, error) {
	r := bitio.NewReader(buf)
	if r.Len() < PacketSize {
		return DataPacket{}, fmt.Errorf("l3: buffer has %d bits, want at least %d", r.Len(), PacketSize)
	}

	rawService, err := r.U(4)
	if err != nil {
		return DataPacket{}, fmt.Errorf("l3: reading service id: %w", err)
	}
	serviceID := ServiceID(reverseBits(rawService, 4))

	decodeFlag, err := r.U(1)
	if err != nil {
		return DataPacket{}, fmt.Errorf("l3: reading decode id flag: %w", err)
	}
	eoiFlag, err := r.U(1)
	if err != nil {
		return DataPacket{}, fmt.Errorf("l3: reading end of information flag: %w", err)
	}
	rawUpdate, err := r.U(2)
	if err != nil {
		return DataPacket{}, fmt.Errorf("l3: reading update flag: %w", err)
	}
	updateFlag := reverseBits(rawUpdate, 2)

	var groupBits, packetBits int
	if serviceID.IsComposition2() {
		groupBits, packetBits = 4, 4
	} else {
		groupBits, packetBits = 14, 10
	}

	rawGroup, err := r.U(groupBits)
	if err != nil {
		return DataPacket{}, fmt.Errorf("l3: reading data group number: %w", err)
	}
	rawPacket, err := r.U(packetBits)
	if err != nil {
		return DataPacket{}, fmt.Errorf("l3: reading data packet number: %w", err)
	}

	remaining := r.Remaining()
	dataBlock := make([]byte, (remaining+7)/8)
	for i := 0; i < remaining; i++ {
		bit, err := r.U(1)
		if err != nil {
			return DataPacket{}, fmt.Errorf("l3: reading data block: %w", err)
		}
		if bit != 0 {
			dataBlock[i/8] |= 1 << uint(7-i%8)
		}
	}

	return DataPacket{
		ServiceID:            serviceID,
		DecodeIDFlag:         int(decodeFlag),
		EndOfInformationFlag: int(eoiFlag),
		UpdateFlag:           int(updateFlag),
		DataGroupNumber:      int(reverseBits(rawGroup, groupBits)),
		DataPacketNumber:     int(reverseBits(rawPacket, packetBits)),
		DataBlock:            dataBlock,
		DataBlockBits:        remaining,
	}, nil
}

package l3

import "darcdecoder/internal/l2"

// Decoder converts a Layer 2 frame's 190 information blocks into Layer 3
// data packets. It carries no state between frames.
type Decoder struct{}

// NewDecoder returns a stateless Layer 3 decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// PushFrame decodes every information block in frame into a DataPacket.
// A block whose CRC does not validate is still decoded (the caller
// decides whether to trust its contents); malformed buffers are skipped
// rather than aborting the whole frame.
func (d *Decoder) PushFrame(frame *l2.Frame) []DataPacket {
	packets := make([]DataPacket, 0, len(frame.Blocks))
	for _, blk := range frame.Blocks {
		pkt, err := FromBuffer(blk.DataPacket[:])
		if err != nil {
			continue
		}
		packets = append(packets, pkt)
	}
	return packets
}

package l4

import (
	"container/list"

	"darcdecoder/internal/l3"
)

// DataGroup is either a DataGroup1 or a DataGroup2, as produced from a
// completed Layer 3 packet sequence.
type DataGroup struct {
	Comp1 *DataGroup1
	Comp2 *DataGroup2
}

type groupKey struct {
	serviceID   l3.ServiceID
	groupNumber int
}

type groupBuffer struct {
	key  groupKey
	data []byte
}

// Decoder reassembles Layer 3 data packets into Layer 4 data groups. It
// keeps one open buffer per (service, group number) pair until an
// end-of-information packet closes it.
//
// Buffer growth is bounded: opening a group beyond MaxGroupBuffers evicts
// the least recently touched buffer, and a group whose buffer would grow
// past MaxGroupBytes is itself dropped. A malformed or stalled
// transmitter can otherwise hold memory open indefinitely.
type Decoder struct {
	MaxGroupBuffers int
	MaxGroupBytes   int

	buffers map[groupKey]*list.Element
	order   *list.List // least-recently-touched at the front
}

const (
	defaultMaxGroupBuffers = 64
	defaultMaxGroupBytes   = 1 << 20 // 1 MiB per open group
)

// NewDecoder returns a Layer 4 decoder with the default bounding limits.
func NewDecoder() *Decoder {
	return &Decoder{
		MaxGroupBuffers: defaultMaxGroupBuffers,
		MaxGroupBytes:   defaultMaxGroupBytes,
		buffers:         make(map[groupKey]*list.Element),
		order:           list.New(),
	}
}

func (d *Decoder) touch(key groupKey, data []byte) {
	if el, ok := d.buffers[key]; ok {
		el.Value.(*groupBuffer).data = data
		d.order.MoveToBack(el)
		return
	}
	el := d.order.PushBack(&groupBuffer{key: key, data: data})
	d.buffers[key] = el
	d.evictIfNeeded()
}

func (d *Decoder) evictIfNeeded() {
	for len(d.buffers) > d.MaxGroupBuffers {
		oldest := d.order.Front()
		if oldest == nil {
			return
		}
		d.order.Remove(oldest)
		delete(d.buffers, oldest.Value.(*groupBuffer).key)
	}
}

func (d *Decoder) pop(key groupKey) ([]byte, bool) {
	el, ok := d.buffers[key]
	if !ok {
		return nil, false
	}
	d.order.Remove(el)
	delete(d.buffers, key)
	return el.Value.(*groupBuffer).data, true
}

// PushDataPackets feeds a sequence of Layer 3 data packets, returning
// every data group completed along the way. A packet whose number is
// nonzero with no open buffer for its group is dropped (the first
// fragment was never seen); a buffer whose accumulated size would
// exceed MaxGroupBytes is dropped rather than grown further.
func (d *Decoder) PushDataPackets(packets []l3.DataPacket) []DataGroup {
	var groups []DataGroup

	for _, pkt := range packets {
		key := groupKey{serviceID: pkt.ServiceID, groupNumber: pkt.DataGroupNumber}

		el, open := d.buffers[key]
		var buf []byte
		if !open {
			if pkt.DataPacketNumber != 0 {
				continue
			}
			buf = append(buf, pkt.DataBlock...)
		} else {
			existing := el.Value.(*groupBuffer).data
			if len(existing)+len(pkt.DataBlock) > d.MaxGroupBytes {
				d.order.Remove(el)
				delete(d.buffers, key)
				continue
			}
			buf = append(append([]byte{}, existing...), pkt.DataBlock...)
		}

		d.touch(key, buf)

		if pkt.EndOfInformationFlag == 1 {
			final, ok := d.pop(key)
			if !ok {
				continue
			}
			if pkt.ServiceID.IsComposition2() {
				dg, err := FromBufferDataGroup2(pkt.ServiceID, pkt.DataGroupNumber, final)
				if err != nil {
					continue
				}
				groups = append(groups, DataGroup{Comp2: &dg})
			} else {
				dg, err := FromBufferDataGroup1(pkt.ServiceID, pkt.DataGroupNumber, final)
				if err != nil {
					continue
				}
				groups = append(groups, DataGroup{Comp1: &dg})
			}
		}
	}

	return groups
}

// OpenBufferCount returns the number of incomplete group buffers.
func (d *Decoder) OpenBufferCount() int {
	return len(d.buffers)
}

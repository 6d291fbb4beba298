package l5

import (
	"darcdecoder/internal/bitio"
	"darcdecoder/internal/darcerr"
)

// otherStationIdentifier is the segment_identifier value that introduces
// a cross-station reference.
const otherStationIdentifier = 0xE

// extendedLengthMarker is the 4-bit length sentinel that means "read an
// extended 8-bit length instead".
const extendedLengthMarker = 0xF

// Segment is the Comp-2 (ADDITIONAL_INFORMATION service) group payload
// shape: a variable-length identifier, an optional cross-station
// reference, and a variable-length body.
type Segment struct {
	SegmentIdentifier          int
	OtherStationNumber         int
	OtherStationSegmentID      int
	HasOtherStationReference   bool
	Body                       []byte
}

// ParseSegment reads one Segment from r.
func ParseSegment(r *bitio.Reader) (Segment, error) {
	var s Segment

	id, err := r.U(4)
	if err != nil {
		return s, &darcerr.ParseError{Stage: "l5.segment", Err: err}
	}
	s.SegmentIdentifier = int(id)

	if s.SegmentIdentifier == otherStationIdentifier {
		s.HasOtherStationReference = true
		num, err := r.U(4)
		if err != nil {
			return s, &darcerr.ParseError{Stage: "l5.segment", Err: err}
		}
		segID, err := r.U(4)
		if err != nil {
			return s, &darcerr.ParseError{Stage: "l5.segment", Err: err}
		}
		s.OtherStationNumber = int(num)
		s.OtherStationSegmentID = int(segID)
	}

	length, err := r.U(4)
	if err != nil {
		return s, &darcerr.ParseError{Stage: "l5.segment", Err: err}
	}
	bodyLen := int(length)
	if bodyLen == extendedLengthMarker {
		ext, err := r.U(8)
		if err != nil {
			return s, &darcerr.ParseError{Stage: "l5.segment", Err: err}
		}
		bodyLen = int(ext)
	}

	body, err := r.Bytes(bodyLen)
	if err != nil {
		return s, &darcerr.ParseError{Stage: "l5.segment", Err: err}
	}
	s.Body = body
	return s, nil
}

package l5

import (
	"darcdecoder/internal/bitio"
)

// GenericDataUnit is one TLV record inside a Comp-1 group payload. A
// well-formed unit carries Parameter/LinkFlag/Payload; a malformed
// separator instead produces a Raw item covering the rest of the
// stream.
type GenericDataUnit struct {
	Parameter byte
	LinkFlag  bool
	Payload   []byte
	Raw       bool // true when the separator did not match 0x1F
}

// ReadGenericDataUnit reads one data unit from r. It returns
// (unit, true, nil) on success, (zero, false, nil) at clean end of
// stream (no bits remain before the separator), and (zero, false, err)
// on a truncated read mid-unit.
func ReadGenericDataUnit(r *bitio.Reader) (GenericDataUnit, bool, error) {
	if r.Remaining() < 8 {
		return GenericDataUnit{}, false, nil
	}
	sepPos := r.Pos()
	sep, err := r.U(8)
	if err != nil {
		return GenericDataUnit{}, false, err
	}
	if byte(sep) != DataUnitSeparator {
		// Read the remainder of the stream as raw bytes and emit a
		// raw-bytes item — rewind to before the misinterpreted
		// separator byte so it is included in Payload.
		r.Rewind(8)
		remaining := r.Remaining()
		raw, err := r.Bytes(remaining / 8)
		if err != nil {
			return GenericDataUnit{}, false, err
		}
		return GenericDataUnit{Payload: raw, Raw: true}, true, nil
	}

	param, err := r.U(8)
	if err != nil {
		r.Rewind(r.Pos() - sepPos)
		return GenericDataUnit{}, false, err
	}
	link, err := r.Flag()
	if err != nil {
		r.Rewind(r.Pos() - sepPos)
		return GenericDataUnit{}, false, err
	}
	lenHi, err := r.U(7)
	if err != nil {
		r.Rewind(r.Pos() - sepPos)
		return GenericDataUnit{}, false, err
	}
	lenLo, err := r.U(8)
	if err != nil {
		r.Rewind(r.Pos() - sepPos)
		return GenericDataUnit{}, false, err
	}
	length := int(lenHi<<8 | lenLo)

	payload, err := r.Bytes(length)
	if err != nil {
		// Truncated mid-unit: caller's loop stops here and keeps what
		// it has already accumulated, so return the read error rather
		// than the unit.
		return GenericDataUnit{}, false, err
	}

	return GenericDataUnit{Parameter: byte(param), LinkFlag: link, Payload: payload}, true, nil
}

// ReadGenericDataUnits reads data units until the stream is exhausted or
// a read fails; padding bytes (0x00) between units are skipped. It
// always makes progress (at least 8 bits consumed per iteration via the
// separator peek), so a malformed stream cannot spin forever.
func ReadGenericDataUnits(r *bitio.Reader) []GenericDataUnit {
	var units []GenericDataUnit
	for r.Remaining() >= 8 {
		if peeked, err := r.Peek(8); err == nil && peeked == 0x00 {
			_, _ = r.U(8) // already peeked successfully, cannot fail
			continue
		}
		unit, ok, err := ReadGenericDataUnit(r)
		if err != nil || !ok {
			break
		}
		units = append(units, unit)
		if unit.Raw {
			break
		}
	}
	return units
}

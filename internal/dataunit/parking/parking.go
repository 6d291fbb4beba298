// Package parking implements DARC data-unit 0x42: parking-lot status
// records keyed by a mesh center point, with optional Ext-1 (entrance
// point and name) and Ext-2 (vacancy/fee/hours) blocks.
package parking

import (
	"fmt"

	"darcdecoder/internal/bitio"
	"darcdecoder/internal/darcerr"
	"darcdecoder/internal/roadpoint"
	"darcdecoder/internal/safeenum"
)

// ExtFlag selects which extension blocks follow a record's header.
type ExtFlag int

const (
	ExtBasic         ExtFlag = 0
	ExtBasicExt1     ExtFlag = 1
	ExtBasicExt1Ext2 ExtFlag = 2
	ExtReserved      ExtFlag = 3
)

// VacancyStatus is the 3-bit lot-occupancy state.
type VacancyStatus int

const (
	VacancyEmpty    VacancyStatus = 0
	VacancyVacant   VacancyStatus = 1
	VacancyCrowded  VacancyStatus = 2
	VacancyFull     VacancyStatus = 3
	VacancyClosed   VacancyStatus = 4
	VacancyNoInfo   VacancyStatus = 5
)

// Name returns a human-readable name, falling back to "UNKNOWN" for
// unmapped raw values.
func (v VacancyStatus) Name() string {
	return safeenum.FromRaw(int(v), map[int]string{
		int(VacancyEmpty):   "EMPTY",
		int(VacancyVacant):  "VACANT",
		int(VacancyCrowded): "CROWDED",
		int(VacancyFull):    "FULL",
		int(VacancyClosed):  "CLOSED",
		int(VacancyNoInfo):  "NO_INFO",
	}, "UNKNOWN")
}

// RecordHeader is the 5-byte PB-L1/L2/L3 record header.
type RecordHeader struct {
	ExtFlag       ExtFlag
	VacancyStatus VacancyStatus
	IsGeneral     bool
	CenterX       uint16
	CenterY       uint16
}

func readRecordHeader(r *bitio.Reader) (RecordHeader, error) {
	var h RecordHeader
	extFlag, err := r.U(2)
	if err != nil {
		return h, err
	}
	vacancy, err := r.U(3)
	if err != nil {
		return h, err
	}
	general, err := r.Flag()
	if err != nil {
		return h, err
	}
	if _, err := r.U(2); err != nil { // pad
		return h, err
	}
	centerX, err := r.U(16)
	if err != nil {
		return h, err
	}
	centerY, err := r.U(16)
	if err != nil {
		return h, err
	}
	h.ExtFlag = ExtFlag(extFlag)
	h.VacancyStatus = VacancyStatus(vacancy)
	h.IsGeneral = general
	h.CenterX = uint16(centerX)
	h.CenterY = uint16(centerY)
	return h, nil
}

// FeeUnit is the 3-bit fee-period selector.
type FeeUnit int

const (
	FeeUnitUndefined FeeUnit = 0
	FeeUnitHour1     FeeUnit = 1
	FeeUnitMinute30  FeeUnit = 2
	FeeUnitMinute60  FeeUnit = 3
)

// Name returns a human-readable name, falling back to "UNKNOWN".
func (u FeeUnit) Name() string {
	return safeenum.FromRaw(int(u), map[int]string{
		int(FeeUnitUndefined): "UNDEFINED",
		int(FeeUnitHour1):     "HOUR_1",
		int(FeeUnitMinute30):  "MINUTE_30",
		int(FeeUnitMinute60):  "MINUTE_60",
	}, "UNKNOWN")
}

// Ext1 is the variable-length entrance-point/name extension.
type Ext1 struct {
	roadpoint.Header
	LinkNumber       int
	DistanceUnit     int
	EntranceDistance int
	EntranceX        *uint16
	EntranceY        *uint16
	Name             string
}

func readExt1(r *bitio.Reader, dec roadpoint.TextDecoder) (Ext1, error) {
	var e Ext1
	mesh, err := r.Flag()
	if err != nil {
		return e, err
	}
	name, err := r.Flag()
	if err != nil {
		return e, err
	}
	linkType, err := r.U(2)
	if err != nil {
		return e, err
	}
	linkNumber, err := r.U(12)
	if err != nil {
		return e, err
	}
	distUnit, err := r.U(1)
	if err != nil {
		return e, err
	}
	entranceDist, err := r.U(7)
	if err != nil {
		return e, err
	}
	e.Header = roadpoint.Header{Mesh: mesh, HasName: name, LinkType: int(linkType)}
	e.LinkNumber = int(linkNumber)
	e.DistanceUnit = int(distUnit)
	e.EntranceDistance = int(entranceDist)

	if mesh {
		x, err := r.U(16)
		if err != nil {
			return e, err
		}
		y, err := r.U(16)
		if err != nil {
			return e, err
		}
		xv, yv := uint16(x), uint16(y)
		e.EntranceX, e.EntranceY = &xv, &yv
	}
	if name {
		n, err := roadpoint.ReadName(r, dec)
		if err != nil {
			return e, err
		}
		e.Name = n
	}
	return e, nil
}

// Ext2 is the fixed 6-byte vacancy/fee/hours extension.
type Ext2 struct {
	VacancyRateRaw int
	WaitingTimeRaw int
	Capacity       int
	HeightLimit    int
	VehicleLimit   int
	Discount       int
	FeeUnit        FeeUnit
	FeeCodeRaw     int
	StartHourRaw   int
	StartMinRaw    int
	EndHourRaw     int
	EndMinRaw      int
}

const (
	sentinelVacancyRaw = 15
	sentinelFeeCode    = 2047
	minSentinelHour    = 24
	minSentinelMinute  = 6
)

// VacancyRatePercent decodes VacancyRateRaw, false meaning unknown.
func (e Ext2) VacancyRatePercent() (int, bool) {
	if e.VacancyRateRaw == sentinelVacancyRaw {
		return 0, false
	}
	return e.VacancyRateRaw * 100 / 14, true
}

// WaitingTimeKnown reports whether WaitingTimeRaw is a real value.
func (e Ext2) WaitingTimeKnown() bool { return e.WaitingTimeRaw != sentinelVacancyRaw }

// FeeCodeKnown reports whether FeeCodeRaw is a real value.
func (e Ext2) FeeCodeKnown() bool { return e.FeeCodeRaw != sentinelFeeCode }

// StartTimeKnown reports whether the start hour/minute fields are real
// values.
func (e Ext2) StartTimeKnown() bool {
	return e.StartHourRaw < minSentinelHour && e.StartMinRaw < minSentinelMinute
}

// EndTimeKnown reports whether the end hour/minute fields are real
// values.
func (e Ext2) EndTimeKnown() bool {
	return e.EndHourRaw < minSentinelHour && e.EndMinRaw < minSentinelMinute
}

func readExt2(r *bitio.Reader) (Ext2, error) {
	var e Ext2
	vacancy, err := r.U(4)
	if err != nil {
		return e, err
	}
	waiting, err := r.U(4)
	if err != nil {
		return e, err
	}
	capacity, err := r.U(3)
	if err != nil {
		return e, err
	}
	height, err := r.U(2)
	if err != nil {
		return e, err
	}
	vehicle, err := r.U(3)
	if err != nil {
		return e, err
	}
	discount, err := r.U(2)
	if err != nil {
		return e, err
	}
	feeUnit, err := r.U(3)
	if err != nil {
		return e, err
	}
	feeCode, err := r.U(11)
	if err != nil {
		return e, err
	}
	startHour, err := r.U(5)
	if err != nil {
		return e, err
	}
	startMin, err := r.U(3)
	if err != nil {
		return e, err
	}
	endHour, err := r.U(5)
	if err != nil {
		return e, err
	}
	endMin, err := r.U(3)
	if err != nil {
		return e, err
	}
	e.VacancyRateRaw = int(vacancy)
	e.WaitingTimeRaw = int(waiting)
	e.Capacity = int(capacity)
	e.HeightLimit = int(height)
	e.VehicleLimit = int(vehicle)
	e.Discount = int(discount)
	e.FeeUnit = FeeUnit(feeUnit)
	e.FeeCodeRaw = int(feeCode)
	e.StartHourRaw = int(startHour)
	e.StartMinRaw = int(startMin)
	e.EndHourRaw = int(endHour)
	e.EndMinRaw = int(endMin)
	return e, nil
}

// Record is one fully decoded parking record.
type Record struct {
	Header RecordHeader
	Ext1   *Ext1
	Ext2   *Ext2
}

func readRecord(r *bitio.Reader, dec roadpoint.TextDecoder) (Record, error) {
	header, err := readRecordHeader(r)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Header: header}
	switch header.ExtFlag {
	case ExtBasicExt1:
		ext1, err := readExt1(r, dec)
		if err != nil {
			return rec, fmt.Errorf("ext1: %w", err)
		}
		rec.Ext1 = &ext1
	case ExtBasicExt1Ext2:
		ext1, err := readExt1(r, dec)
		if err != nil {
			return rec, fmt.Errorf("ext1: %w", err)
		}
		ext2, err := readExt2(r)
		if err != nil {
			return rec, fmt.Errorf("ext2: %w", err)
		}
		rec.Ext1 = &ext1
		rec.Ext2 = &ext2
	}
	return rec, nil
}

// DecodeAll parses every parking record in payload until the stream is
// exhausted.
func DecodeAll(payload []byte, dec roadpoint.TextDecoder) ([]Record, error) {
	r := bitio.NewReader(payload)
	var records []Record
	for i := 0; r.Remaining() >= 40; i++ {
		rec, err := readRecord(r, dec)
		if err != nil {
			return records, &darcerr.ParseError{Stage: "dataunit42", Err: fmt.Errorf("record %d: %w", i, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

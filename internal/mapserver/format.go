package mapserver

import (
	"fmt"

	"darcdecoder/internal/dataunit/parking"

	"github.com/shopspring/decimal"
)

// yenPerUnit is the DARC fee-code scale: each unit is 10 yen.
var yenPerUnit = decimal.NewFromInt(10)

// FeeText renders a parking lot's fee code and unit as Japanese display
// text, or "不明" (unknown) when the code carries the sentinel value.
func FeeText(rec parking.Ext2) string {
	if !rec.FeeCodeKnown() {
		return "不明"
	}
	yen := yenPerUnit.Mul(decimal.NewFromInt(int64(rec.FeeCodeRaw)))
	return fmt.Sprintf("%s円 / %s", yen.String(), unitText(rec.FeeUnit))
}

func unitText(u parking.FeeUnit) string {
	switch u {
	case parking.FeeUnitHour1:
		return "1時間"
	case parking.FeeUnitMinute30:
		return "30分"
	case parking.FeeUnitMinute60:
		return "60分"
	default:
		return "不明"
	}
}

// HoursText renders a parking lot's open hours, or "不明" when either
// end carries its sentinel value.
func HoursText(rec parking.Ext2) string {
	startOK := rec.StartTimeKnown()
	endOK := rec.EndTimeKnown()
	if !startOK || !endOK {
		return "不明"
	}
	return fmt.Sprintf("%02d:%02d - %02d:%02d", rec.StartHourRaw, rec.StartMinRaw, rec.EndHourRaw, rec.EndMinRaw)
}

// VacancyColor maps a vacancy status to a map-marker color.
func VacancyColor(v parking.VacancyStatus) string {
	switch v {
	case parking.VacancyEmpty:
		return "green"
	case parking.VacancyCrowded:
		return "orange"
	case parking.VacancyFull:
		return "red"
	case parking.VacancyClosed:
		return "gray"
	default:
		return "gray"
	}
}

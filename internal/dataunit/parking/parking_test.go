package parking

import "testing"

func recordHeader(extFlag int, vacancy VacancyStatus, isGeneral bool, centerX, centerY uint16) []byte {
	g := 0
	if isGeneral {
		g = 1
	}
	b0 := byte(extFlag<<6 | int(vacancy)<<3 | g<<2)
	return []byte{
		b0,
		byte(centerX >> 8), byte(centerX),
		byte(centerY >> 8), byte(centerY),
	}
}

func TestDecodeAllBasicNoExt(t *testing.T) {
	buf := recordHeader(int(ExtBasic), VacancyVacant, true, 0x1234, 0x5678)
	records, err := DecodeAll(buf, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Header.VacancyStatus != VacancyVacant || rec.Header.CenterX != 0x1234 || rec.Header.CenterY != 0x5678 {
		t.Errorf("header = %+v", rec.Header)
	}
	if !rec.Header.IsGeneral {
		t.Error("expected IsGeneral")
	}
	if rec.Ext1 != nil || rec.Ext2 != nil {
		t.Errorf("expected no extensions, got %+v", rec)
	}
}

func TestDecodeAllFullWithExt1AndExt2(t *testing.T) {
	buf := recordHeader(int(ExtBasicExt1Ext2), VacancyFull, false, 0x1234, 0x5678)
	// Ext1: mesh=0, name=1, link_type=0, link_number=0, distance_unit=0, entrance_distance=0
	// byte0 = 0b01_00_0000 = 0x40, byte1 (12-bit link_number low byte)=0x00,
	// byte2 = distance_unit(1)=0 | entrance_distance(7)=0 = 0x00
	buf = append(buf, 0x40, 0x00, 0x00)
	// name: length=2, bytes "AB" (no decoder -> raw string)
	buf = append(buf, 0x02, 'A', 'B')
	// Ext2: vacancy=15(unknown), waiting=15(unknown), capacity=0,height=0,vehicle=0,
	// discount=0, fee_unit=1(HOUR_1), fee_code=10, start_hour=0,start_min=0,end_hour=0,end_min=0
	// byte0 = vacancy(4)=15,waiting(4)=15 -> 0xFF
	// byte1 = capacity(3)=0,height(2)=0,vehicle(3)=0 -> 0x00
	// byte2,3 = discount(2)=0,fee_unit(3)=1,fee_code(11)=10
	//   bits: 00 001 00000001010 -> byte2=0b00001000=0x08, byte3=0b00001010=0x0A
	buf = append(buf, 0xFF, 0x00, 0x08, 0x0A)
	// byte4 = start_hour(5)=0,start_min(3)=0 -> 0x00
	// byte5 = end_hour(5)=0,end_min(3)=0 -> 0x00
	buf = append(buf, 0x00, 0x00)

	records, err := DecodeAll(buf, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Header.VacancyStatus.Name() != "FULL" {
		t.Errorf("VacancyStatus = %v", rec.Header.VacancyStatus.Name())
	}
	if rec.Ext1 == nil || rec.Ext1.Name != "AB" {
		t.Fatalf("ext1 = %+v", rec.Ext1)
	}
	if rec.Ext2 == nil {
		t.Fatal("expected ext2")
	}
	if rec.Ext2.FeeUnit.Name() != "HOUR_1" {
		t.Errorf("FeeUnit = %v", rec.Ext2.FeeUnit.Name())
	}
	if rec.Ext2.FeeCodeRaw != 10 || !rec.Ext2.FeeCodeKnown() {
		t.Errorf("FeeCodeRaw = %d", rec.Ext2.FeeCodeRaw)
	}
	if _, ok := rec.Ext2.VacancyRatePercent(); ok {
		t.Error("expected unknown vacancy rate")
	}
}

// Package dump renders decoded pipeline output as the human-readable
// text the reference CLI prints to standard output.
package dump

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"darcdecoder/internal/l4"
	"darcdecoder/internal/l5"
	"darcdecoder/internal/roadpoint"
)

const (
	sep  = "--------------------------------------------------------------------------------"
	dsep = "================================================================================"
)

// hexInt renders an integer field the way fmt_header's _hex helper does:
// "0xNN (123)".
func hexInt(v int64, width int) string {
	return fmt.Sprintf("0x%0*X (%d)", width, v, v)
}

// humanizeFieldName turns a Go exported field name ("ProgramNumber")
// into the Python dataclass's displayed form ("Program Number"),
// matching fmt_header's `fld.name.replace('_', ' ').title()`.
func humanizeFieldName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(rune(name[i-1])) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatFieldValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return hexInt(v.Int(), 2)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return hexInt(int64(v.Uint()), 2)
	case reflect.Bool:
		return fmt.Sprintf("%v", v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func writeFields(b *strings.Builder, v reflect.Value) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			writeFields(b, fv)
			continue
		}
		if fv.Kind() == reflect.Struct {
			fmt.Fprintf(b, "%-25s: %s\n", humanizeFieldName(f.Name), fv.Type().Name())
			continue
		}
		fmt.Fprintf(b, "%-25s: %s\n", humanizeFieldName(f.Name), formatFieldValue(fv))
	}
}

// Header renders a Layer 5 data header.
func Header(h l5.Header) string {
	var b strings.Builder
	v := reflect.Indirect(reflect.ValueOf(h))
	fmt.Fprintf(&b, "%s\nDATA HEADER: %s\n%s\n", dsep, v.Type().Name(), sep)
	writeFields(&b, v)
	b.WriteString(dsep)
	return b.String()
}

// hexDump renders data as space-separated hex bytes, 16 per line.
func hexDump(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		for _, c := range data[i:end] {
			fmt.Fprintf(&b, "%02X ", c)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func tryARIB(data []byte, dec roadpoint.TextDecoder) string {
	if dec == nil {
		return "<no decoder>"
	}
	s, err := dec.Decode(data)
	if err != nil {
		return "<decode error>"
	}
	return s
}

// Unit renders one generic Layer 5 data unit.
func Unit(u l5.GenericDataUnit, dec roadpoint.TextDecoder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nGENERIC DATA UNIT\n", sep)
	fmt.Fprintf(&b, "Parameter     : %s\n", hexInt(int64(u.Parameter), 2))
	fmt.Fprintf(&b, "Link Flag     : %v\n", u.LinkFlag)
	b.WriteString("Data          :\n")
	b.WriteString(hexDump(u.Payload))
	fmt.Fprintf(&b, "\nData (ARIBStr): %s\n", tryARIB(u.Payload, dec))
	b.WriteString(sep)
	return b.String()
}

// Segment renders an ADDITIONAL_INFORMATION segment.
func Segment(s l5.Segment, dec roadpoint.TextDecoder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nSEGMENT INFORMATION\n%s\n", dsep, sep)
	fmt.Fprintf(&b, "Identifier    : %s\n", hexInt(int64(s.SegmentIdentifier), 2))
	if s.HasOtherStationReference {
		fmt.Fprintf(&b, "Other Station Number      : %s\n", hexInt(int64(s.OtherStationNumber), 2))
		fmt.Fprintf(&b, "Other Station Segment ID  : %s\n", hexInt(int64(s.OtherStationSegmentID), 2))
	}
	b.WriteString("Segment Data  :\n")
	b.WriteString(hexDump(s.Body))
	fmt.Fprintf(&b, "\nData (ARIBStr): %s\n", tryARIB(s.Body, dec))
	b.WriteString(dsep)
	return b.String()
}

// Group renders a Layer 4 data group summary.
func Group(g l4.DataGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nDATA GROUP INFORMATION\n%s\n", dsep, sep)
	if g.Comp1 != nil {
		fmt.Fprintf(&b, "Type          : Type 1\n")
		fmt.Fprintf(&b, "Service ID    : %s\n", g.Comp1.ServiceID)
		fmt.Fprintf(&b, "Group Number  : %s\n", hexInt(int64(g.Comp1.DataGroupNumber), 2))
		fmt.Fprintf(&b, "Group Link    : %s\n", hexInt(int64(g.Comp1.DataGroupLink), 2))
		fmt.Fprintf(&b, "End Marker    : %v\n", g.Comp1.EndOfDataGroup)
		fmt.Fprintf(&b, "CRC Value     : %s\n", hexInt(int64(g.Comp1.CRC), 4))
		fmt.Fprintf(&b, "CRC Status    : %s\n", crcStatus(g.Comp1.IsCRCValid()))
	} else if g.Comp2 != nil {
		fmt.Fprintf(&b, "Type          : Type 2\n")
		fmt.Fprintf(&b, "Service ID    : %s\n", g.Comp2.ServiceID)
		fmt.Fprintf(&b, "Group Number  : %s\n", hexInt(int64(g.Comp2.DataGroupNumber), 2))
		if g.Comp2.CRC != nil {
			fmt.Fprintf(&b, "CRC Value     : %s\n", hexInt(int64(*g.Comp2.CRC), 4))
		} else {
			fmt.Fprintf(&b, "CRC Value     : None\n")
		}
		fmt.Fprintf(&b, "CRC Status    : %s\n", crcStatus(g.Comp2.IsCRCValid()))
	}
	b.WriteString(dsep)
	return b.String()
}

func crcStatus(valid bool) string {
	if valid {
		return "Valid"
	}
	return "Invalid"
}

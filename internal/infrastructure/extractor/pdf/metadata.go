package pdf

import (
	"strings"
	"time"

	ledongpdf "github.com/ledongthuc/pdf"
)

// creationDate reads /Info /CreationDate. Errors are swallowed: metadata is
// best-effort and never fails a parse.
func creationDate(reader *ledongpdf.Reader) (out *string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	raw := strings.TrimSpace(reader.Trailer().Key("Info").Key("CreationDate").Text())
	if raw == "" {
		return nil
	}
	if t, ok := parsePDFDate(raw); ok {
		formatted := t.UTC().Format(time.RFC3339)
		return &formatted
	}
	return &raw
}

// parsePDFDate parses the PDF date format D:YYYYMMDDHHmmSSOHH'mm'. Every
// component after the year is optional.
func parsePDFDate(raw string) (time.Time, bool) {
	s := strings.TrimPrefix(raw, "D:")
	digits := 0
	for digits < len(s) && digits < 14 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits < 4 || digits%2 != 0 {
		return time.Time{}, false
	}
	layout := "20060102150405"[:digits]
	t, err := time.Parse(layout, s[:digits])
	if err != nil {
		return time.Time{}, false
	}

	zone := strings.ReplaceAll(s[digits:], "'", "")
	switch {
	case zone == "" || zone == "Z" || strings.HasPrefix(zone, "Z"):
		return t, true
	case len(zone) >= 3 && (zone[0] == '+' || zone[0] == '-'):
		offset, err := time.Parse("-0700", padZone(zone))
		if err != nil {
			return t, true
		}
		_, seconds := offset.Zone()
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.FixedZone("", seconds)), true
	default:
		return t, true
	}
}

func padZone(zone string) string {
	if len(zone) >= 5 {
		return zone[:5]
	}
	return zone + strings.Repeat("0", 5-len(zone))
}

package valueobject

import (
	"time"
	_ "time/tzdata"
)

// DisplayDateTimeLayout is the day-first layout used by every portal.
const (
	DisplayDateTimeLayout = "02.01.2006 15:04"
	DisplayDateLayout     = "02.01.2006"
)

// Istanbul is the display timezone. Turkey has stayed on UTC+3 all year since
// 2016, so the fixed zone is only a fallback for hosts without zoneinfo.
var Istanbul = loadIstanbul()

func loadIstanbul() *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.FixedZone("+03", 3*60*60)
	}
	return loc
}

// FormatDateTimeTR formats t in Istanbul time as "02.01.2006 15:04".
// A zero time renders as an empty string.
func FormatDateTimeTR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Istanbul).Format(DisplayDateTimeLayout)
}

// FormatDateTR formats t in Istanbul time as "02.01.2006".
func FormatDateTR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Istanbul).Format(DisplayDateLayout)
}

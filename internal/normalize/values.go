package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is the spreadsheet serial-date epoch (1899-12-30): serial day
// N maps to epoch + N days.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	dmyPattern   = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})$`)
	ymdPattern   = regexp.MustCompile(`^(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})(?:$|[ T])`)
	clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)?$`)
	amountStrip  = regexp.MustCompile(`[^0-9.\-]`)
)

// fallbackLayouts are tried when no explicit rule matches.
var fallbackLayouts = []string{
	time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04",
	"Jan 2, 2006", "2 Jan 2006", "January 2, 2006",
}

// ParseDate converts a raw cell into a calendar date (UTC midnight).
// Accepts spreadsheet serial day counts, M/D/YYYY (or D/M/YYYY when the
// first group exceeds 12), YYYY-M-D, YYYY/M/D, and a handful of common
// layouts as a fallback. The second return is false when nothing matched;
// callers must treat that as "unknown date", never as epoch zero.
func ParseDate(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}

	// Spreadsheet serial day count. Plausibility bounds keep small integers
	// (week numbers, ages) and phone-number-sized values out. AddDate stays
	// exact for any day count; duration math would overflow past ~292 years.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1000 || serial > 200000 {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(serial)), true
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		// First group beyond 12 disambiguates day-first layouts.
		month, day := a, b
		if a > 12 {
			month, day = b, a
		}
		return calendarDate(y, month, day)
	}

	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return calendarDate(y, month, day)
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func calendarDate(y, m, d int) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow like Feb 30 → Mar 1.
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SerialDays is the inverse of serial-date parsing: days since the
// spreadsheet epoch. Computed over Unix seconds; Sub saturates for spans
// past ~292 years.
func SerialDays(t time.Time) float64 {
	return float64(t.Unix()-serialEpoch.Unix()) / 86400
}

// Clock is a time of day in 24-hour form.
type Clock struct {
	Hour   int
	Minute int
}

// Decimal returns the clock as decimal hours (14:30 → 14.5).
func (c Clock) Decimal() float64 {
	return float64(c.Hour) + float64(c.Minute)/60
}

// ParseClock accepts "H:MM" optionally followed by AM/PM. 12 AM maps to
// hour 0; 12 PM stays 12. Returns false on no match.
func ParseClock(v string) (Clock, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return Clock{}, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return Clock{}, false
	}
	switch strings.ToUpper(m[3]) {
	case "PM":
		if hh < 12 {
			hh += 12
		}
	case "AM":
		if hh == 12 {
			hh = 0
		}
	}
	return Clock{Hour: hh, Minute: mm}, true
}

// ParseAmount strips everything but digits, '.' and '-' and parses the
// remainder as a decimal number. Unparseable or empty input yields 0, not
// an error: money fields default to zero so aggregation arithmetic never
// needs nil guards.
func ParseAmount(v string) float64 {
	s := amountStrip.ReplaceAllString(strings.TrimSpace(v), "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// CleanCategory trims and upper-cases a value used for grouping or filter
// equality.
func CleanCategory(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// CleanText trims a free-text value without changing its case.
func CleanText(v string) string {
	return strings.TrimSpace(v)
}

// StayDays is the whole-day span between two dates, clamped to zero.
// Either date missing (zero) means the stay is unknown.
func StayDays(dateIn, dateOut time.Time) (int, bool) {
	if dateIn.IsZero() || dateOut.IsZero() {
		return 0, false
	}
	days := int(math.Round(dateOut.Sub(dateIn).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days, true
}

// ServiceHours is the decimal-hour gap between the service clock and the
// time-out hour.
func ServiceHours(service, timeOut Clock) float64 {
	return service.Decimal() - float64(timeOut.Hour)
}

// Package timebucket provides the deterministic calendar buckets used by
// the aggregation engine. Buckets are identified by their underlying
// instant, never by a formatted label, so series sort correctly across
// year boundaries.
package timebucket

import "time"

// MonthStart returns the first day of t's calendar month at UTC midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ISOWeek returns the ISO-8601 week-year and week number for t, computed by
// shifting to the nearest Thursday: that day always lies inside the correct
// ISO week-year, which naive week-of-year math gets wrong for weeks that
// span January 1st.
func ISOWeek(t time.Time) (year, week int) {
	th := nearestThursday(t)
	return th.Year(), (th.YearDay()-1)/7 + 1
}

// ISOWeekMonday returns the Monday of the ISO week containing t, at UTC
// midnight.
func ISOWeekMonday(t time.Time) time.Time {
	return nearestThursday(t).AddDate(0, 0, -3)
}

func nearestThursday(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// Monday-indexed weekday: Mon=0 .. Sun=6.
	wd := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, 3-wd)
}

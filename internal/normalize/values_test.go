package normalize

import (
	"strconv"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"3/15/2024", date(2024, time.March, 15), true},
		{"15/03/2024", date(2024, time.March, 15), true}, // day-first, first group > 12
		{"2024-03-15", date(2024, time.March, 15), true},
		{"2024/3/5", date(2024, time.March, 5), true},
		{"45370", date(2024, time.March, 19), true},   // spreadsheet serial
		{"150000", date(2310, time.August, 28), true}, // large serial stays exact
		{"Jan 2, 2024", date(2024, time.January, 2), true},
		{"2024-03-15 13:45", date(2024, time.March, 15), true}, // time discarded
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"2/30/2024", time.Time{}, false},     // overflow rejected
		{"2024-03-15xyz", time.Time{}, false}, // trailing garbage rejected
		{"7", time.Time{}, false},             // too small for a serial
		{"20240315", time.Time{}, false},      // too large for a serial
	}
	for _, c := range cases {
		got, ok := ParseDate(c.in)
		if ok != c.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDateSerialRoundTrip(t *testing.T) {
	for _, serial := range []float64{1000, 45809, 106752, 150000, 200000} {
		in := strconv.FormatFloat(serial, 'f', -1, 64)
		got, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%s) not ok", in)
		}
		if days := SerialDays(got); days != serial {
			t.Errorf("SerialDays(ParseDate(%s)) = %v, want %v", in, days, serial)
		}
	}

	d := date(2025, time.June, 1)
	if got, ok := ParseDate("45809"); !ok || !got.Equal(d) {
		t.Errorf("serial 45809 = %v, %v; want %v", got, ok, d)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want Clock
		ok   bool
	}{
		{"9:30", Clock{9, 30}, true},
		{"9:30 AM", Clock{9, 30}, true},
		{"2:15 PM", Clock{14, 15}, true},
		{"12:00 AM", Clock{0, 0}, true},   // midnight
		{"12:30 PM", Clock{12, 30}, true}, // noon stays 12
		{"14:45", Clock{14, 45}, true},
		{"", Clock{}, false},
		{"25:00", Clock{}, false},
		{"9:75", Clock{}, false},
	}
	for _, c := range cases {
		got, ok := ParseClock(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseClock(%q) = %+v, %v; want %+v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestClockDecimal(t *testing.T) {
	if got := (Clock{14, 30}).Decimal(); got != 14.5 {
		t.Errorf("Decimal(14:30) = %v, want 14.5", got)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,500.00", 1500},
		{"R 2 300.50", 2300.5},
		{"$-45.25", -45.25},
		{"800", 800},
		{"", 0},
		{"N/A", 0},
		{"...", 0},
	}
	for _, c := range cases {
		if got := ParseAmount(c.in); got != c.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCleanCategory(t *testing.T) {
	if got := CleanCategory("  north branch "); got != "NORTH BRANCH" {
		t.Errorf("CleanCategory = %q", got)
	}
}

func TestStayDays(t *testing.T) {
	in := date(2024, time.March, 10)
	out := date(2024, time.March, 15)
	if days, ok := StayDays(in, out); !ok || days != 5 {
		t.Errorf("StayDays = %d, %v; want 5, true", days, ok)
	}
	// Reversed dates clamp to zero rather than going negative.
	if days, ok := StayDays(out, in); !ok || days != 0 {
		t.Errorf("StayDays reversed = %d, %v; want 0, true", days, ok)
	}
	// A missing date means unknown, not zero.
	if _, ok := StayDays(time.Time{}, out); ok {
		t.Error("StayDays with zero date-in reported known")
	}
}

func TestServiceHours(t *testing.T) {
	got := ServiceHours(Clock{14, 30}, Clock{9, 0})
	if got != 5.5 {
		t.Errorf("ServiceHours = %v, want 5.5", got)
	}
}

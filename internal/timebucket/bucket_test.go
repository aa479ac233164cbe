package timebucket

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2024, time.March, 19, 14, 30, 0, 0, time.UTC))
	if want := day(2024, time.March, 1); !got.Equal(want) {
		t.Errorf("MonthStart = %v, want %v", got, want)
	}
}

func TestISOWeekMonday(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		// A week spanning the year boundary buckets both sides together.
		{day(2024, time.December, 31), day(2024, time.December, 30)},
		{day(2025, time.January, 1), day(2024, time.December, 30)},
		{day(2025, time.January, 5), day(2024, time.December, 30)}, // Sunday
		{day(2025, time.January, 6), day(2025, time.January, 6)},   // next Monday
		{day(2024, time.March, 19), day(2024, time.March, 18)},
	}
	for _, c := range cases {
		if got := ISOWeekMonday(c.in); !got.Equal(c.want) {
			t.Errorf("ISOWeekMonday(%v) = %v, want %v", c.in.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestISOWeekMatchesStdlib(t *testing.T) {
	// Spot-check against time.Time.ISOWeek across tricky boundaries.
	dates := []time.Time{
		day(2024, time.December, 31),
		day(2025, time.January, 1),
		day(2021, time.January, 1), // week 53 of 2020
		day(2020, time.December, 31),
		day(2026, time.December, 28),
		day(2024, time.February, 29),
	}
	for _, d := range dates {
		wantYear, wantWeek := d.ISOWeek()
		gotYear, gotWeek := ISOWeek(d)
		if gotYear != wantYear || gotWeek != wantWeek {
			t.Errorf("ISOWeek(%v) = %d, %d; want %d, %d",
				d.Format("2006-01-02"), gotYear, gotWeek, wantYear, wantWeek)
		}
	}
}

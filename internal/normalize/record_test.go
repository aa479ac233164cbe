package normalize

import (
	"testing"
	"time"

	"github.com/tabdash/tabdash-cli/internal/ingest"
	"github.com/tabdash/tabdash-cli/internal/schema"
)

func batchOf(headers []string, rows ...[]string) ingest.Batch {
	b := ingest.Batch{Source: "test", Headers: headers}
	for _, row := range rows {
		rec := make(ingest.RawRecord, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		b.Records = append(b.Records, rec)
	}
	return b
}

func TestNormalizeBatchMixedRows(t *testing.T) {
	headers := []string{"Date Out", "Total Amount", "Branch"}
	b := batchOf(headers,
		[]string{"3/15/2024", "1,500.00", "North"},
		[]string{"15/03/2024", "", "North"},
		[]string{"", "800", "South"},
	)
	s := schema.Resolve(headers, nil)

	records, w := NormalizeBatch(b, s)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := date(2024, time.March, 15)
	if !records[0].Date.Equal(want) || !records[1].Date.Equal(want) {
		t.Errorf("dates = %v, %v; want both %v", records[0].Date, records[1].Date, want)
	}
	if !records[2].Date.IsZero() {
		t.Errorf("row 3 date = %v, want zero", records[2].Date)
	}

	sum := records[0].Amount + records[1].Amount + records[2].Amount
	if sum != 2300 {
		t.Errorf("amount sum = %v, want 2300", sum)
	}

	counts := map[string]int{}
	for _, r := range records {
		counts[r.Branch]++
	}
	if counts["NORTH"] != 2 || counts["SOUTH"] != 1 {
		t.Errorf("branch counts = %v", counts)
	}

	if w.MissingDate != 1 || w.MissingAmount != 1 {
		t.Errorf("warnings = %+v, want 1 missing date and 1 missing amount", w)
	}

	// No date-in column: stay must be unknown, not zero days.
	for i, r := range records {
		if r.HasStay {
			t.Errorf("row %d reported a known stay with no date-in column", i)
		}
	}
}

func TestNormalizeDerivedMetrics(t *testing.T) {
	headers := []string{"Date In", "Date Out", "Time Out", "Service Time"}
	b := batchOf(headers,
		[]string{"3/10/2024", "3/15/2024", "9:00 AM", "2:30 PM"},
	)
	s := schema.Resolve(headers, nil)

	records, _ := NormalizeBatch(b, s)
	r := records[0]
	if !r.HasStay || r.StayDays != 5 {
		t.Errorf("stay = %d, %v; want 5, true", r.StayDays, r.HasStay)
	}
	if !r.HasServiceHours || r.ServiceHours != 5.5 {
		t.Errorf("service hours = %v, %v; want 5.5, true", r.ServiceHours, r.HasServiceHours)
	}
}

func TestDimensionAndMeasure(t *testing.T) {
	r := Record{Branch: "NORTH", Name: "Jane", Amount: 12.5}
	if got := r.Dimension(schema.FieldBranch); got != "NORTH" {
		t.Errorf("Dimension(branch) = %q", got)
	}
	if got := r.Dimension(schema.FieldName); got != "Jane" {
		t.Errorf("Dimension(name) = %q", got)
	}
	if got := r.Measure(schema.FieldAmount); got != 12.5 {
		t.Errorf("Measure(amount) = %v", got)
	}
	if got := r.Measure(schema.FieldBranch); got != 0 {
		t.Errorf("Measure(branch) = %v, want 0", got)
	}
}

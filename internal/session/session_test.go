package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tabdash/tabdash-cli/internal/aggregate"
	"github.com/tabdash/tabdash-cli/internal/ingest"
	"github.com/tabdash/tabdash-cli/internal/schema"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var testHeaders = []string{"Date Out", "Total Amount", "Branch", "Claim Status"}

var testRows = [][]string{
	{"3/15/2024", "1,500.00", "North", "Active"},
	{"3/16/2024", "700", "North", "On Trial"},
	{"3/20/2024", "800", "South", "Active"},
	{"4/02/2024", "300", "South", "Cancelled"},
	{"", "250", "East", "Active"},
}

func testBatch() ingest.Batch {
	b := ingest.Batch{Source: "test.csv", Headers: testHeaders}
	for _, row := range testRows {
		rec := make(ingest.RawRecord, len(testHeaders))
		for i, h := range testHeaders {
			rec[h] = row[i]
		}
		b.Records = append(b.Records, rec)
	}
	return b
}

func loadedSession(t *testing.T) (*Session, Snapshot) {
	t.Helper()
	s := New(aggregate.DefaultOptions())
	snap, err := s.Load(testBatch(), nil)
	require.NoError(t, err)
	return s, snap
}

func TestLoadRejectsEmptyBatch(t *testing.T) {
	s, first := loadedSession(t)

	_, err := s.Load(ingest.Batch{Source: "empty"}, nil)
	require.Error(t, err)

	// Prior state survives a failed load.
	assert.True(t, s.Loaded())
	after := s.Refresh()
	assert.Equal(t, first.LoadID, after.LoadID)
	assert.Equal(t, first.TotalRecords, after.TotalRecords)
}

func TestLoadReplacesStateWholesale(t *testing.T) {
	s, first := loadedSession(t)
	s.ApplyPredicate(schema.FieldBranch, "NORTH")

	second, err := s.Load(testBatch(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.LoadID, second.LoadID)
	assert.True(t, second.Filter.Empty(), "filters reset on load")
	assert.Equal(t, len(testRows), second.VisibleRecords)
}

func TestDrillDownAndReset(t *testing.T) {
	s, first := loadedSession(t)

	snap := s.DrillDown(schema.FieldBranch, "NORTH")
	assert.Equal(t, 2, snap.VisibleRecords)
	assert.Equal(t, len(testRows), snap.TotalRecords)
	assert.Equal(t, 2, snap.Dashboard.KPIs.TotalRecords)

	// Clicking another group for the same field replaces the predicate.
	snap = s.DrillDown(schema.FieldBranch, "SOUTH")
	assert.Equal(t, 2, snap.VisibleRecords)
	require.Len(t, snap.Filter.Predicates, 1)
	assert.Equal(t, "SOUTH", snap.Filter.Predicates[0].Value)

	snap = s.Reset()
	assert.True(t, snap.Filter.Empty())
	assert.Equal(t, first.VisibleRecords, snap.VisibleRecords)
	assert.Equal(t, first.Dashboard.KPIs, snap.Dashboard.KPIs)
}

func TestPredicatesAreConjunctive(t *testing.T) {
	s, _ := loadedSession(t)
	s.ApplyPredicate(schema.FieldBranch, "SOUTH")
	snap := s.ApplyPredicate(schema.FieldStatus, "ACTIVE")
	assert.Equal(t, 1, snap.VisibleRecords)

	snap = s.ClearPredicate(schema.FieldStatus)
	assert.Equal(t, 2, snap.VisibleRecords)
}

func TestPredicateValueIsNormalized(t *testing.T) {
	s, _ := loadedSession(t)
	snap := s.ApplyPredicate(schema.FieldBranch, "  north ")
	assert.Equal(t, 2, snap.VisibleRecords)
}

func TestDateRangeInclusiveEndOfDay(t *testing.T) {
	s, _ := loadedSession(t)

	// End bound on 3/16 keeps the record dated exactly 3/16.
	snap := s.SetDateRange(
		time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, 2, snap.VisibleRecords)

	// Records with no parsed date never match a bounded range.
	snap = s.SetDateRange(time.Time{}, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 4, snap.VisibleRecords)

	// Clearing both bounds restores everything.
	snap = s.SetDateRange(time.Time{}, time.Time{})
	assert.Equal(t, len(testRows), snap.VisibleRecords)
}

func TestUnknownLabelDrillsToEmptyDimension(t *testing.T) {
	headers := []string{"Branch", "Region"}
	b := ingest.Batch{Source: "t", Headers: headers, Records: []ingest.RawRecord{
		{"Branch": "North", "Region": "A"},
		{"Branch": "North", "Region": ""},
	}}
	s := New(aggregate.DefaultOptions())
	_, err := s.Load(b, nil)
	require.NoError(t, err)

	snap := s.DrillDown(schema.FieldRegion, aggregate.UnknownLabel)
	assert.Equal(t, 1, snap.VisibleRecords)
}

func TestOptionsComeFromUnfilteredData(t *testing.T) {
	s, _ := loadedSession(t)
	s.ApplyPredicate(schema.FieldBranch, "NORTH")

	opts := s.Options()
	assert.Equal(t, []string{AllOption, "EAST", "NORTH", "SOUTH"}, opts[schema.FieldBranch])
	assert.Equal(t, []string{AllOption, "ACTIVE", "CANCELLED", "ON TRIAL"}, opts[schema.FieldStatus])

	// Unresolved category fields get no selector at all.
	_, ok := opts[schema.FieldRegion]
	assert.False(t, ok)
}

func TestPreviewCap(t *testing.T) {
	opt := aggregate.DefaultOptions()
	opt.PreviewRows = 2
	s := New(opt)
	snap, err := s.Load(testBatch(), nil)
	require.NoError(t, err)
	assert.Len(t, snap.Preview, 2)
	assert.Equal(t, len(testRows), snap.VisibleRecords)
}

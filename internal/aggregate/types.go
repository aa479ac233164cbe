package aggregate

import "github.com/tabdash/tabdash-cli/internal/schema"

// Op selects how a group's value is computed.
type Op string

const (
	OpCount Op = "count"
	OpSum   Op = "sum"
	OpAvg   Op = "avg"
)

// Sort selects the output ordering of grouped results.
type Sort string

const (
	// SortFirstSeen preserves first-seen order from the record stream.
	SortFirstSeen Sort = "first_seen"
	// SortLabelAsc orders groups lexically by label.
	SortLabelAsc Sort = "label_asc"
	// SortValueDesc orders groups by value, largest first, with stable
	// first-seen tie order (leaderboards).
	SortValueDesc Sort = "value_desc"
)

// Spec describes one grouping aggregation.
type Spec struct {
	GroupBy schema.Field
	Measure schema.Field // empty → record count
	Op      Op
	Sort    Sort
	TopN    int // 0 = no truncation
}

// Point is one (label, value) pair of an ordered series. Series reach the
// rendering collaborator already sorted and truncated; renderers must not
// re-sort or re-aggregate.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Result bundles a computed series with its untruncated form, kept for
// re-querying after a top-N cut.
type Result struct {
	Points []Point `json:"points"`
	Full   []Point `json:"-"`
}

// Chart is a named, render-ready series.
type Chart struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"` // "bar", "hbar", "pie", "line"
	Points []Point `json:"points"`
	Full   []Point `json:"-"`
}

// KPIs are the scalar outputs of one aggregation pass. Every ratio guards
// its denominator and reports 0 when it is empty.
type KPIs struct {
	TotalRecords   int `json:"totalRecords"`
	ActiveCount    int `json:"activeCount"`
	TrialCount     int `json:"trialCount"`
	CancelledCount int `json:"cancelledCount"`

	// ConversionRate is a percentage; Denominator names the count it was
	// divided by ("trial" or "total").
	ConversionRate        float64 `json:"conversionRate"`
	ConversionDenominator string  `json:"conversionDenominator"`

	TotalAmount  float64 `json:"totalAmount"`
	TotalPaid    float64 `json:"totalPaid"`
	TotalPreneed float64 `json:"totalPreneed"`
	TotalCash    float64 `json:"totalCash"`
	PaidPct      float64 `json:"paidPct"`
	AvgAmount    float64 `json:"avgAmount"`

	AvgStayDays    float64 `json:"avgStayDays"`
	MissingAmount  int     `json:"missingAmount"`
	TurnaroundDays int     `json:"turnaroundDays"`
	TurnaroundPct  float64 `json:"turnaroundPct"`
}

// Dashboard is the full recomputed output bundle for one visible record
// set.
type Dashboard struct {
	KPIs   KPIs    `json:"kpis"`
	Charts []Chart `json:"charts"`
}

// Options tune the dashboard pass.
type Options struct {
	TopN                  int
	TurnaroundDays        int
	ConversionDenominator string // "trial" or "total"
	PreviewRows           int
}

// DefaultOptions mirror the source dashboards: top-10 leaderboards and a
// 7-day turnaround window.
func DefaultOptions() Options {
	return Options{
		TopN:                  10,
		TurnaroundDays:        7,
		ConversionDenominator: "trial",
		PreviewRows:           500,
	}
}

// UnknownLabel stands in for an empty categorical value in grouped output.
const UnknownLabel = "Unknown"

package aggregate

import (
	"github.com/tabdash/tabdash-cli/internal/normalize"
	"github.com/tabdash/tabdash-cli/internal/schema"
)

// chartDef wires one canonical field to a chart name, shape, and ordering.
type chartDef struct {
	name  string
	kind  string
	field schema.Field
	op    Op
	sort  Sort
	topN  bool
}

// chartDefs is the fixed dashboard layout, one chart per resolved field.
// Leaderboards sort descending by count with first-seen tie order;
// distribution charts use ascending label order.
var chartDefs = []chartDef{
	{name: "Branch Leaderboard", kind: "bar", field: schema.FieldBranch, op: OpCount, sort: SortValueDesc, topN: true},
	{name: "Status Split", kind: "pie", field: schema.FieldStatus, op: OpCount, sort: SortLabelAsc},
	{name: "Region Distribution", kind: "hbar", field: schema.FieldRegion, op: OpCount, sort: SortValueDesc},
	{name: "Plan Distribution", kind: "bar", field: schema.FieldPlan, op: OpCount, sort: SortLabelAsc},
	{name: "Payment Mix", kind: "pie", field: schema.FieldPayment, op: OpCount, sort: SortLabelAsc},
	{name: "Top Products", kind: "hbar", field: schema.FieldProduct, op: OpCount, sort: SortValueDesc, topN: true},
	{name: "Agent Ranking", kind: "bar", field: schema.FieldAgent, op: OpCount, sort: SortValueDesc, topN: true},
	{name: "Gender Split", kind: "pie", field: schema.FieldGender, op: OpCount, sort: SortLabelAsc},
	{name: "Average Amount by Branch", kind: "bar", field: schema.FieldBranch, op: OpAvg, sort: SortValueDesc},
	{name: "Phase Breakdown", kind: "bar", field: schema.FieldPhase, op: OpCount, sort: SortLabelAsc},
	{name: "Action Breakdown", kind: "bar", field: schema.FieldAction, op: OpCount, sort: SortLabelAsc},
}

// BuildDashboard recomputes every KPI and chart for one visible record
// set. Charts for canonical fields the schema did not resolve are omitted
// rather than rendered as a single "Unknown" bar.
func BuildDashboard(records []normalize.Record, s schema.Schema, opt Options) Dashboard {
	dash := Dashboard{KPIs: ComputeKPIs(records, opt)}

	hasDate := false
	if _, ok := s.Key(schema.FieldDate); ok {
		hasDate = true
	}
	if hasDate {
		dash.Charts = append(dash.Charts,
			Chart{Name: "Daily Trend", Kind: "line", Points: DailyCounts(records)},
			Chart{Name: "Weekly Trend", Kind: "line", Points: WeeklyCounts(records)},
			Chart{Name: "Monthly Trend", Kind: "line", Points: MonthlyCounts(records)},
		)
		if _, ok := s.Key(schema.FieldAmount); ok {
			dash.Charts = append(dash.Charts, Chart{
				Name: "Revenue by Month", Kind: "bar",
				Points: MonthlySums(records, schema.FieldAmount),
			})
		}
	}

	for _, def := range chartDefs {
		if _, ok := s.Key(def.field); !ok {
			continue
		}
		spec := Spec{GroupBy: def.field, Op: def.op, Sort: def.sort}
		if def.op == OpAvg || def.op == OpSum {
			if _, ok := s.Key(schema.FieldAmount); !ok {
				continue
			}
			spec.Measure = schema.FieldAmount
		}
		if def.topN {
			spec.TopN = opt.TopN
		}
		res := Compute(records, spec)
		dash.Charts = append(dash.Charts, Chart{
			Name: def.name, Kind: def.kind,
			Points: res.Points, Full: res.Full,
		})
	}

	if _, ok := s.Key(schema.FieldBranch); ok {
		if _, okIn := s.Key(schema.FieldDateIn); okIn {
			dash.Charts = append(dash.Charts, Chart{
				Name: "Average Stay by Branch", Kind: "bar",
				Points: GroupAvgOver(records, schema.FieldBranch, func(r normalize.Record) (float64, bool) {
					return float64(r.StayDays), r.HasStay
				}),
			})
		}
	}

	if _, ok := s.Key(schema.FieldTimeOut); ok {
		dash.Charts = append(dash.Charts, Chart{
			Name: "Records by Hour", Kind: "bar", Points: HourlyCounts(records),
		})
	}

	return dash
}

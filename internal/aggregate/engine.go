package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/tabdash/tabdash-cli/internal/normalize"
	"github.com/tabdash/tabdash-cli/internal/schema"
	"github.com/tabdash/tabdash-cli/internal/timebucket"
)

// Compute runs one grouping aggregation over the records. It is a pure
// function of its arguments: identical input yields identical output, and
// each call is a single O(records) pass plus the final sort. Full
// recomputation per filter change is deliberate; datasets here are bounded
// in the thousands of rows.
func Compute(records []normalize.Record, spec Spec) Result {
	type acc struct {
		sum   float64
		count int
	}
	accs := make(map[string]*acc)
	var order []string

	for _, r := range records {
		label := r.Dimension(spec.GroupBy)
		if label == "" {
			label = UnknownLabel
		}
		a, ok := accs[label]
		if !ok {
			a = &acc{}
			accs[label] = a
			order = append(order, label)
		}
		a.count++
		if spec.Measure != "" {
			a.sum += r.Measure(spec.Measure)
		}
	}

	points := make([]Point, 0, len(order))
	for _, label := range order {
		a := accs[label]
		var v float64
		switch spec.Op {
		case OpSum:
			v = a.sum
		case OpAvg:
			// Average over the group's own members, never the whole set.
			v = a.sum / float64(a.count)
		default:
			v = float64(a.count)
		}
		points = append(points, Point{Label: label, Value: v})
	}

	switch spec.Sort {
	case SortLabelAsc:
		sort.SliceStable(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	case SortValueDesc:
		sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
	}

	res := Result{Points: points, Full: points}
	if spec.TopN > 0 && len(points) > spec.TopN {
		res.Points = points[:spec.TopN]
	}
	return res
}

// GroupAvgOver averages a per-record metric per group, counting only
// records for which the metric is present. Groups where no record carries
// the metric report 0.
func GroupAvgOver(records []normalize.Record, groupBy schema.Field, metric func(normalize.Record) (float64, bool)) []Point {
	type acc struct {
		sum   float64
		count int
	}
	accs := make(map[string]*acc)
	var order []string

	for _, r := range records {
		label := r.Dimension(groupBy)
		if label == "" {
			label = UnknownLabel
		}
		a, ok := accs[label]
		if !ok {
			a = &acc{}
			accs[label] = a
			order = append(order, label)
		}
		if v, ok := metric(r); ok {
			a.sum += v
			a.count++
		}
	}

	points := make([]Point, 0, len(order))
	for _, label := range order {
		a := accs[label]
		v := 0.0
		if a.count > 0 {
			v = round1(a.sum / float64(a.count))
		}
		points = append(points, Point{Label: label, Value: v})
	}
	return points
}

// bucketSeries accumulates per-bucket values keyed by instant, then sorts
// ascending by instant and formats labels last. Sorting formatted labels
// instead would order "2" after "10"; keying by instant avoids that bug
// class entirely.
func bucketSeries(records []normalize.Record, bucket func(time.Time) time.Time, layout string, value func(normalize.Record) float64) []Point {
	sums := make(map[int64]float64)
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		key := bucket(r.Date).Unix()
		sums[key] += value(r)
	}

	keys := make([]int64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		points = append(points, Point{
			Label: time.Unix(k, 0).UTC().Format(layout),
			Value: sums[k],
		})
	}
	return points
}

func one(normalize.Record) float64 { return 1 }

// DailyCounts is the record count per calendar day of the date field.
func DailyCounts(records []normalize.Record) []Point {
	day := func(t time.Time) time.Time { return t }
	return bucketSeries(records, day, "2006-01-02", one)
}

// WeeklyCounts is the record count per ISO week, labeled by the week's
// Monday.
func WeeklyCounts(records []normalize.Record) []Point {
	return bucketSeries(records, timebucket.ISOWeekMonday, "2006-01-02", one)
}

// MonthlyCounts is the record count per calendar month.
func MonthlyCounts(records []normalize.Record) []Point {
	return bucketSeries(records, timebucket.MonthStart, "2006-01", one)
}

// MonthlySums is a measure's sum per calendar month.
func MonthlySums(records []normalize.Record, measure schema.Field) []Point {
	return bucketSeries(records, timebucket.MonthStart, "2006-01", func(r normalize.Record) float64 {
		return r.Measure(measure)
	})
}

// HourlyCounts counts records per time-out hour across a fixed 0..23 axis.
func HourlyCounts(records []normalize.Record) []Point {
	var counts [24]int
	for _, r := range records {
		if r.HasTimeOut {
			counts[r.TimeOut.Hour]++
		}
	}
	points := make([]Point, 24)
	for h := 0; h < 24; h++ {
		points[h] = Point{Label: hourLabel(h), Value: float64(counts[h])}
	}
	return points
}

func hourLabel(h int) string {
	return time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("15:00")
}

// ComputeKPIs derives the scalar metrics for one visible record set.
func ComputeKPIs(records []normalize.Record, opt Options) KPIs {
	k := KPIs{
		TotalRecords:          len(records),
		TurnaroundDays:        opt.TurnaroundDays,
		ConversionDenominator: opt.ConversionDenominator,
	}

	staySum := 0
	stayCount := 0
	within := 0
	for _, r := range records {
		switch r.Status {
		case "ACTIVE":
			k.ActiveCount++
		case "ON TRIAL":
			k.TrialCount++
		case "CANCELLED":
			k.CancelledCount++
		}
		k.TotalAmount += r.Amount
		k.TotalPaid += r.Paid
		k.TotalPreneed += r.Preneed
		k.TotalCash += r.Cash
		if r.Amount == 0 {
			k.MissingAmount++
		}
		if r.HasStay {
			staySum += r.StayDays
			stayCount++
			if r.StayDays <= opt.TurnaroundDays {
				within++
			}
		}
	}

	denom := k.TrialCount
	if opt.ConversionDenominator == "total" {
		denom = k.TotalRecords
	}
	k.ConversionRate = ratioPct(float64(k.ActiveCount), float64(denom))
	k.PaidPct = ratioPct(k.TotalPaid, k.TotalAmount)
	if k.TotalRecords > 0 {
		k.AvgAmount = k.TotalAmount / float64(k.TotalRecords)
		k.TurnaroundPct = round1(100 * float64(within) / float64(k.TotalRecords))
	}
	if stayCount > 0 {
		k.AvgStayDays = round1(float64(staySum) / float64(stayCount))
	}
	return k
}

// ratioPct is a guarded percentage: zero denominator yields 0, never NaN.
func ratioPct(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return round1(100 * num / denom)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

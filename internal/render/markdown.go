// Package render turns finished dashboard snapshots into output. It
// consumes series in the order the engine computed them and never re-sorts
// or re-aggregates.
package render

import (
	"fmt"
	"strings"

	"github.com/tabdash/tabdash-cli/internal/normalize"
	"github.com/tabdash/tabdash-cli/internal/schema"
	"github.com/tabdash/tabdash-cli/internal/session"
)

// Markdown renders a compact dashboard report suitable for the terminal or
// a standalone doc.
func Markdown(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString("[DASHBOARD]\n")
	if snap.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", snap.Source))
	}
	b.WriteString(fmt.Sprintf("Load: %s\n", snap.LoadID))
	if snap.VisibleRecords == snap.TotalRecords {
		b.WriteString(fmt.Sprintf("Records: %d\n", snap.TotalRecords))
	} else {
		b.WriteString(fmt.Sprintf("Records: %d of %d (filtered)\n", snap.VisibleRecords, snap.TotalRecords))
	}
	writeFilter(&b, snap.Filter)

	k := snap.Dashboard.KPIs
	b.WriteString("\n[KPI]\n")
	b.WriteString(fmt.Sprintf("- Total records: %d\n", k.TotalRecords))
	if k.ActiveCount+k.TrialCount+k.CancelledCount > 0 {
		b.WriteString(fmt.Sprintf("- Active: %d, On trial: %d, Cancelled: %d\n", k.ActiveCount, k.TrialCount, k.CancelledCount))
		b.WriteString(fmt.Sprintf("- Conversion rate: %.1f%% (of %s)\n", k.ConversionRate, k.ConversionDenominator))
	}
	if k.TotalAmount != 0 || k.MissingAmount < k.TotalRecords {
		b.WriteString(fmt.Sprintf("- Total amount: %s\n", Money(k.TotalAmount)))
		b.WriteString(fmt.Sprintf("- Avg amount per record: %s\n", Money(k.AvgAmount)))
	}
	if k.TotalPaid != 0 {
		b.WriteString(fmt.Sprintf("- Total paid: %s (%.1f%% of amount)\n", Money(k.TotalPaid), k.PaidPct))
	}
	if k.TotalPreneed != 0 {
		b.WriteString(fmt.Sprintf("- Preneed total: %s\n", Money(k.TotalPreneed)))
	}
	if k.TotalCash != 0 {
		b.WriteString(fmt.Sprintf("- Cash total: %s\n", Money(k.TotalCash)))
	}
	if k.AvgStayDays > 0 {
		b.WriteString(fmt.Sprintf("- Average stay (days): %.1f\n", k.AvgStayDays))
		b.WriteString(fmt.Sprintf("- Turnaround within %d days: %.1f%%\n", k.TurnaroundDays, k.TurnaroundPct))
	}
	if k.MissingAmount > 0 {
		b.WriteString(fmt.Sprintf("- Records with missing amount: %d\n", k.MissingAmount))
	}

	for _, c := range snap.Dashboard.Charts {
		if len(c.Points) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n[%s]\n", strings.ToUpper(c.Name)))
		for _, p := range c.Points {
			b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(p.Label), trimFloat(p.Value)))
		}
		if len(c.Full) > len(c.Points) {
			b.WriteString(fmt.Sprintf("  (%d more groups not shown)\n", len(c.Full)-len(c.Points)))
		}
	}

	writePreview(&b, snap.Preview)

	if snap.Warnings.MissingDate > 0 || snap.Warnings.MissingAmount > 0 {
		b.WriteString("\n[NOTES]\n")
		if snap.Warnings.MissingDate > 0 {
			b.WriteString(fmt.Sprintf("- %d record(s) with unparseable or missing date\n", snap.Warnings.MissingDate))
		}
		if snap.Warnings.MissingAmount > 0 {
			b.WriteString(fmt.Sprintf("- %d record(s) with missing amount\n", snap.Warnings.MissingAmount))
		}
	}
	return b.String()
}

func writeFilter(b *strings.Builder, f session.FilterState) {
	if f.Empty() {
		return
	}
	var parts []string
	for _, p := range f.Predicates {
		parts = append(parts, fmt.Sprintf("%s=%s", p.Field, p.Value))
	}
	if !f.Start.IsZero() {
		parts = append(parts, "from "+f.Start.Format("2006-01-02"))
	}
	if !f.End.IsZero() {
		parts = append(parts, "to "+f.End.Format("2006-01-02"))
	}
	b.WriteString("Filter: " + strings.Join(parts, ", ") + "\n")
}

func writePreview(b *strings.Builder, preview []normalize.Record) {
	if len(preview) == 0 {
		return
	}
	b.WriteString("\n[PREVIEW]\n")
	b.WriteString("| Date | Branch | Status | Plan | Payment | Amount |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range preview {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			date, safeVal(r.Dimension(schema.FieldBranch)), safeVal(r.Status),
			safeVal(r.Plan), safeVal(r.Payment), trimFloat(r.Amount)))
	}
}

// Money formats an amount with two decimals and comma thousands separators.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	out := strings.Join(parts, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

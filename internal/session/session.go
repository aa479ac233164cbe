// Package session owns the retained dataset and filter state for one load.
// The controller is the only writer of that state; the aggregation engine
// only reads records and returns fresh output, so every snapshot is a pure
// function of (mainData, FilterState).
package session

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tabdash/tabdash-cli/internal/aggregate"
	"github.com/tabdash/tabdash-cli/internal/ingest"
	"github.com/tabdash/tabdash-cli/internal/normalize"
	"github.com/tabdash/tabdash-cli/internal/schema"
)

// AllOption is the selector sentinel meaning "no predicate for this field".
const AllOption = "All"

// Predicate is one exact-match constraint on a categorical field.
type Predicate struct {
	Field schema.Field
	Value string // normalized (trimmed, upper-cased)
}

// FilterState is the ordered set of active predicates plus optional date
// bounds. The zero value means "show all".
type FilterState struct {
	Predicates []Predicate
	Start      time.Time // zero = unbounded
	End        time.Time // zero = unbounded; already extended to end-of-day
}

// Empty reports whether no predicate or bound is active.
func (f FilterState) Empty() bool {
	return len(f.Predicates) == 0 && f.Start.IsZero() && f.End.IsZero()
}

// Snapshot is one published recomputation: the dashboard plus everything a
// renderer or selector needs alongside it.
type Snapshot struct {
	LoadID         uuid.UUID
	Source         string
	TotalRecords   int
	VisibleRecords int
	Filter         FilterState
	Warnings       normalize.Warnings
	Dashboard      aggregate.Dashboard
	Preview        []normalize.Record
}

// Session is the filter/drill-down controller. All mutation happens on the
// caller's single event cue; the session is not safe for concurrent use.
type Session struct {
	opt aggregate.Options

	loadID   uuid.UUID
	source   string
	schema   schema.Schema
	main     []normalize.Record
	warnings normalize.Warnings
	filter   FilterState
	options  map[schema.Field][]string
}

// New returns an empty session in the "no data" state.
func New(opt aggregate.Options) *Session {
	return &Session{opt: opt}
}

// Loaded reports whether a batch has been loaded.
func (s *Session) Loaded() bool { return s.main != nil }

// Schema returns the schema resolved at load time.
func (s *Session) Schema() schema.Schema { return s.schema }

// Load replaces the retained dataset wholesale: new LoadID, schema resolved
// once, records normalized once, filters reset. An empty batch is an import
// failure and leaves the prior state untouched.
func (s *Session) Load(b ingest.Batch, extraSynonyms map[schema.Field][]string) (Snapshot, error) {
	if b.Empty() {
		return Snapshot{}, eris.New("session: no data in batch")
	}

	sch := schema.Resolve(b.Headers, extraSynonyms)
	records, warnings := normalize.NormalizeBatch(b, sch)

	s.loadID = uuid.New()
	s.source = b.Source
	s.schema = sch
	s.main = records
	s.warnings = warnings
	s.filter = FilterState{}
	s.options = selectorOptions(records, sch)

	zap.L().Info("batch loaded",
		zap.String("load_id", s.loadID.String()),
		zap.String("source", b.Source),
		zap.Int("records", len(records)),
		zap.Int("resolved_fields", len(sch.Resolved())))

	return s.Refresh(), nil
}

// ApplyPredicate adds or replaces the predicate for a field and recomputes.
// Clicking a different group for the same field replaces rather than
// stacks.
func (s *Session) ApplyPredicate(field schema.Field, value string) Snapshot {
	norm := normalize.CleanCategory(value)
	for i, p := range s.filter.Predicates {
		if p.Field == field {
			s.filter.Predicates[i].Value = norm
			return s.Refresh()
		}
	}
	s.filter.Predicates = append(s.filter.Predicates, Predicate{Field: field, Value: norm})
	return s.Refresh()
}

// DrillDown narrows to the clicked aggregation group. The label comes from
// chart output, so "Unknown" maps back onto records whose field is empty.
func (s *Session) DrillDown(field schema.Field, label string) Snapshot {
	return s.ApplyPredicate(field, label)
}

// ClearPredicate removes the predicate for one field, if set.
func (s *Session) ClearPredicate(field schema.Field) Snapshot {
	out := s.filter.Predicates[:0]
	for _, p := range s.filter.Predicates {
		if p.Field != field {
			out = append(out, p)
		}
	}
	s.filter.Predicates = out
	return s.Refresh()
}

// SetDateRange sets or clears the date bounds; zero times clear. Both
// bounds are inclusive and the end bound covers its whole day.
func (s *Session) SetDateRange(start, end time.Time) Snapshot {
	s.filter.Start = start
	if end.IsZero() {
		s.filter.End = time.Time{}
	} else {
		s.filter.End = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	}
	return s.Refresh()
}

// Reset clears every predicate and bound, restoring the unfiltered view.
func (s *Session) Reset() Snapshot {
	s.filter = FilterState{}
	return s.Refresh()
}

// Refresh recomputes the visible subset and the full dashboard from it.
func (s *Session) Refresh() Snapshot {
	visible := s.visible()
	preview := visible
	if s.opt.PreviewRows > 0 && len(preview) > s.opt.PreviewRows {
		preview = preview[:s.opt.PreviewRows]
	}
	return Snapshot{
		LoadID:         s.loadID,
		Source:         s.source,
		TotalRecords:   len(s.main),
		VisibleRecords: len(visible),
		Filter:         s.filter,
		Warnings:       s.warnings,
		Dashboard:      aggregate.BuildDashboard(visible, s.schema, s.opt),
		Preview:        preview,
	}
}

// Options returns the distinct values per filterable field, computed from
// the unfiltered dataset so a user can always navigate back out of a
// filter. Lists are sorted lexically and prefixed with the All sentinel.
func (s *Session) Options() map[schema.Field][]string {
	out := make(map[schema.Field][]string, len(s.options))
	for f, vals := range s.options {
		out[f] = append([]string(nil), vals...)
	}
	return out
}

// visible applies every active predicate conjunctively over mainData.
func (s *Session) visible() []normalize.Record {
	if s.filter.Empty() {
		return s.main
	}
	out := make([]normalize.Record, 0, len(s.main))
	for _, r := range s.main {
		if s.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Session) matches(r normalize.Record) bool {
	if !s.filter.Start.IsZero() {
		if r.Date.IsZero() || r.Date.Before(s.filter.Start) {
			return false
		}
	}
	if !s.filter.End.IsZero() {
		if r.Date.IsZero() || r.Date.After(s.filter.End) {
			return false
		}
	}
	for _, p := range s.filter.Predicates {
		v := r.Dimension(p.Field)
		if p.Value == normalize.CleanCategory(aggregate.UnknownLabel) {
			if v != "" && v != p.Value {
				return false
			}
			continue
		}
		if v != p.Value {
			return false
		}
	}
	return true
}

func selectorOptions(records []normalize.Record, sch schema.Schema) map[schema.Field][]string {
	out := make(map[schema.Field][]string)
	for _, f := range schema.CategoryFields {
		if _, ok := sch.Key(f); !ok {
			continue
		}
		seen := make(map[string]bool)
		var vals []string
		for _, r := range records {
			v := r.Dimension(f)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			vals = append(vals, v)
		}
		sort.Strings(vals)
		out[f] = append([]string{AllOption}, vals...)
	}
	return out
}

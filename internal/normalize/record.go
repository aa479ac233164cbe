package normalize

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabdash/tabdash-cli/internal/ingest"
	"github.com/tabdash/tabdash-cli/internal/schema"
)

// Record is the typed, read-only view over one raw row. Every canonical
// field is either populated or carries its type's default (zero date, 0
// amount, empty category); there is no partially-normalized state visible
// to consumers. The original raw row rides along for traceability.
type Record struct {
	Date   time.Time // zero = unknown
	DateIn time.Time

	TimeOut        Clock
	HasTimeOut     bool
	ServiceTime    Clock
	HasServiceTime bool

	// Category fields, trimmed and upper-cased.
	Branch   string
	Region   string
	Status   string
	Phase    string
	Action   string
	Plan     string
	Payment  string
	Category string
	Product  string
	Agent    string
	Gender   string

	// Free text, trimmed only.
	Name string

	Amount  float64
	Paid    float64
	Preneed float64
	Cash    float64

	// Derived metrics.
	StayDays        int
	HasStay         bool
	ServiceHours    float64
	HasServiceHours bool

	Raw ingest.RawRecord
}

// Dimension returns the grouping value for a categorical field. Free-text
// and non-categorical fields return their string form; unknown fields
// return "".
func (r Record) Dimension(f schema.Field) string {
	switch f {
	case schema.FieldBranch:
		return r.Branch
	case schema.FieldRegion:
		return r.Region
	case schema.FieldStatus:
		return r.Status
	case schema.FieldPhase:
		return r.Phase
	case schema.FieldAction:
		return r.Action
	case schema.FieldPlan:
		return r.Plan
	case schema.FieldPayment:
		return r.Payment
	case schema.FieldCategory:
		return r.Category
	case schema.FieldProduct:
		return r.Product
	case schema.FieldAgent:
		return r.Agent
	case schema.FieldGender:
		return r.Gender
	case schema.FieldName:
		return r.Name
	}
	return ""
}

// Measure returns the numeric value for a measure field, 0 for anything
// else.
func (r Record) Measure(f schema.Field) float64 {
	switch f {
	case schema.FieldAmount:
		return r.Amount
	case schema.FieldPaid:
		return r.Paid
	case schema.FieldPreneed:
		return r.Preneed
	case schema.FieldCash:
		return r.Cash
	}
	return 0
}

// Warnings counts normalization fallbacks across a batch. Bad values never
// drop a record; they only tick a counter here.
type Warnings struct {
	MissingDate   int
	MissingAmount int
}

// NormalizeBatch maps each raw record through the value normalizer using
// the resolved schema keys. The output is a stable, order-preserving map
// of the input: output length always equals input length.
func NormalizeBatch(b ingest.Batch, s schema.Schema) ([]Record, Warnings) {
	var w Warnings
	out := make([]Record, 0, len(b.Records))
	for _, raw := range b.Records {
		rec := normalizeOne(raw, s)
		if rec.Date.IsZero() {
			w.MissingDate++
		}
		if rec.Amount == 0 {
			w.MissingAmount++
		}
		out = append(out, rec)
	}
	if w.MissingDate > 0 || w.MissingAmount > 0 {
		zap.L().Debug("normalized batch with fallbacks",
			zap.Int("records", len(out)),
			zap.Int("missing_date", w.MissingDate),
			zap.Int("missing_amount", w.MissingAmount))
	}
	return out, w
}

func normalizeOne(raw ingest.RawRecord, s schema.Schema) Record {
	cell := func(f schema.Field) string {
		key, ok := s.Key(f)
		if !ok {
			return ""
		}
		return raw[key]
	}

	rec := Record{Raw: raw}
	rec.Date, _ = ParseDate(cell(schema.FieldDate))
	rec.DateIn, _ = ParseDate(cell(schema.FieldDateIn))
	rec.TimeOut, rec.HasTimeOut = ParseClock(cell(schema.FieldTimeOut))
	rec.ServiceTime, rec.HasServiceTime = ParseClock(cell(schema.FieldServiceTime))

	rec.Branch = CleanCategory(cell(schema.FieldBranch))
	rec.Region = CleanCategory(cell(schema.FieldRegion))
	rec.Status = CleanCategory(cell(schema.FieldStatus))
	rec.Phase = CleanCategory(cell(schema.FieldPhase))
	rec.Action = CleanCategory(cell(schema.FieldAction))
	rec.Plan = CleanCategory(cell(schema.FieldPlan))
	rec.Payment = CleanCategory(cell(schema.FieldPayment))
	rec.Category = CleanCategory(cell(schema.FieldCategory))
	rec.Product = CleanCategory(cell(schema.FieldProduct))
	rec.Agent = CleanCategory(cell(schema.FieldAgent))
	rec.Gender = CleanCategory(cell(schema.FieldGender))
	rec.Name = CleanText(cell(schema.FieldName))

	rec.Amount = ParseAmount(cell(schema.FieldAmount))
	rec.Paid = ParseAmount(cell(schema.FieldPaid))
	rec.Preneed = ParseAmount(cell(schema.FieldPreneed))
	rec.Cash = ParseAmount(cell(schema.FieldCash))

	rec.StayDays, rec.HasStay = StayDays(rec.DateIn, rec.Date)
	if rec.HasTimeOut && rec.HasServiceTime {
		rec.ServiceHours = ServiceHours(rec.ServiceTime, rec.TimeOut)
		rec.HasServiceHours = true
	}
	return rec
}

package schema

import (
	"sort"
	"strings"
)

// Field is a canonical column identifier, stable across the many spellings
// a source header row may use for the same column.
type Field string

const (
	FieldDate        Field = "date"
	FieldDateIn      Field = "date_in"
	FieldTimeOut     Field = "time_out"
	FieldServiceTime Field = "service_time"
	FieldBranch      Field = "branch"
	FieldRegion      Field = "region"
	FieldStatus      Field = "status"
	FieldPhase       Field = "phase"
	FieldAction      Field = "action"
	FieldPlan        Field = "plan"
	FieldPayment     Field = "payment"
	FieldCategory    Field = "category"
	FieldProduct     Field = "product"
	FieldAgent       Field = "agent"
	FieldGender      Field = "gender"
	FieldName        Field = "name"
	FieldAmount      Field = "amount"
	FieldPaid        Field = "paid"
	FieldPreneed     Field = "preneed"
	FieldCash        Field = "cash"
)

// Fields lists every canonical field in a fixed, display-friendly order.
var Fields = []Field{
	FieldDate, FieldDateIn, FieldTimeOut, FieldServiceTime,
	FieldBranch, FieldRegion, FieldStatus, FieldPhase, FieldAction,
	FieldPlan, FieldPayment, FieldCategory, FieldProduct, FieldAgent,
	FieldGender, FieldName,
	FieldAmount, FieldPaid, FieldPreneed, FieldCash,
}

// CategoryFields are the fields whose values are upper-cased and used for
// grouping and filter equality.
var CategoryFields = []Field{
	FieldBranch, FieldRegion, FieldStatus, FieldPhase, FieldAction,
	FieldPlan, FieldPayment, FieldCategory, FieldProduct, FieldAgent,
	FieldGender,
}

// defaultSynonyms maps each canonical field to acceptable header spellings,
// most specific first. Comparison happens after trimming and upper-casing,
// so entries here are written the way real exports spell them.
var defaultSynonyms = map[Field][]string{
	FieldDate:        {"DATE OUT", "CLAIM DATE", "DATE OF DEATH", "DATE", "DATE_OUT", "CLAIM_DATE"},
	FieldDateIn:      {"DATE IN", "DATE_IN", "ADMISSION DATE"},
	FieldTimeOut:     {"TIME OUT", "TIME_OUT"},
	FieldServiceTime: {"SERVICE TIME", "SERVICE_TIME"},
	FieldBranch:      {"BRANCH", "BRANCH NAME"},
	FieldRegion:      {"REGION"},
	FieldStatus:      {"CLAIM STATUS", "STATUS"},
	FieldPhase:       {"CLAIM PHASE STATUS", "CLAIM PHASE", "PHASE"},
	FieldAction:      {"ACTION"},
	FieldPlan:        {"PLAN TYPE", "SERVICE TYPE", "COVER TYPE", "PLAN"},
	FieldPayment:     {"MODE OF PAYMENT", "PAYMENT MODE", "PAYMENT"},
	FieldCategory:    {"PAYMENT CATEGORY", "CATEGORY"},
	FieldProduct:     {"COFFIN CODE", "COFFIN USED", "COFFIN", "PRODUCT"},
	FieldAgent:       {"CAPTURED BY", "AGENT"},
	FieldGender:      {"GENDER", "SEX"},
	FieldName:        {"CORPSE NAME", "MEMBER NAME", "CLAIM NUMBER", "NAME"},
	FieldAmount:      {"TOTAL AMOUNT", "COVER AMOUNT", "TOTAL", "COVER", "AMOUNT"},
	FieldPaid:        {"PAID AMOUNT", "AMOUNT PAID", "PAID"},
	FieldPreneed:     {"PRENEED"},
	FieldCash:        {"CASH"},
}

// Schema maps canonical fields to the exact header key found in one batch.
// Built once per load and never mutated afterwards.
type Schema struct {
	keys map[Field]string
}

// NormalizeHeader prepares a header for synonym comparison.
func NormalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

// Resolve matches the given headers against the synonym table and returns
// the canonical-field → header-key mapping. Extra synonyms (e.g. from
// config) are consulted before the built-in list for their field.
// Unresolved fields are simply absent; downstream normalization supplies
// defaults, because real-world header sets vary per upload.
func Resolve(headers []string, extra map[Field][]string) Schema {
	byNorm := make(map[string]string, len(headers))
	for _, h := range headers {
		n := NormalizeHeader(h)
		if _, seen := byNorm[n]; !seen {
			byNorm[n] = h
		}
	}

	s := Schema{keys: make(map[Field]string)}
	for _, f := range Fields {
		candidates := append(append([]string{}, extra[f]...), defaultSynonyms[f]...)
		for _, c := range candidates {
			if orig, ok := byNorm[NormalizeHeader(c)]; ok {
				s.keys[f] = orig
				break
			}
		}
	}
	return s
}

// Key returns the header key resolved for a canonical field.
func (s Schema) Key(f Field) (string, bool) {
	k, ok := s.keys[f]
	return k, ok
}

// Resolved returns the canonical fields that matched a header, in the
// canonical display order.
func (s Schema) Resolved() []Field {
	out := make([]Field, 0, len(s.keys))
	for _, f := range Fields {
		if _, ok := s.keys[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Unresolved returns canonical fields with no matching header.
func (s Schema) Unresolved() []Field {
	var out []Field
	for _, f := range Fields {
		if _, ok := s.keys[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// Synonyms returns the built-in header spellings accepted for a field.
func Synonyms(f Field) []string {
	return append([]string{}, defaultSynonyms[f]...)
}

// ParseField converts a user-supplied field name ("branch", "PLAN") into a
// canonical Field.
func ParseField(name string) (Field, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Fields {
		if string(f) == n {
			return f, true
		}
	}
	return "", false
}

// FieldNames returns all canonical field names, sorted.
func FieldNames() []string {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = string(f)
	}
	sort.Strings(names)
	return names
}

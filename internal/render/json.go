package render

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/tabdash/tabdash-cli/internal/aggregate"
	"github.com/tabdash/tabdash-cli/internal/session"
)

// payload is the stable JSON shape handed to external renderers. Series
// arrive already sorted and truncated.
type payload struct {
	LoadID         string            `json:"loadId"`
	Source         string            `json:"source,omitempty"`
	TotalRecords   int               `json:"totalRecords"`
	VisibleRecords int               `json:"visibleRecords"`
	Filters        []filterJSON      `json:"filters,omitempty"`
	DateStart      string            `json:"dateStart,omitempty"`
	DateEnd        string            `json:"dateEnd,omitempty"`
	KPIs           aggregate.KPIs    `json:"kpis"`
	Charts         []aggregate.Chart `json:"charts"`
}

type filterJSON struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// JSON encodes a snapshot for an external rendering collaborator.
func JSON(snap session.Snapshot) ([]byte, error) {
	p := payload{
		LoadID:         snap.LoadID.String(),
		Source:         snap.Source,
		TotalRecords:   snap.TotalRecords,
		VisibleRecords: snap.VisibleRecords,
		KPIs:           snap.Dashboard.KPIs,
		Charts:         snap.Dashboard.Charts,
	}
	for _, pr := range snap.Filter.Predicates {
		p.Filters = append(p.Filters, filterJSON{Field: string(pr.Field), Value: pr.Value})
	}
	p.DateStart = formatDate(snap.Filter.Start)
	p.DateEnd = formatDate(snap.Filter.End)

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "render: marshal dashboard")
	}
	return b, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

package ingest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// remotePayload matches the values-array shape of a Google-Sheets-style
// endpoint: first row is the header row, the rest are data rows.
type remotePayload struct {
	Values [][]string `json:"values"`
}

// RemoteOptions configures the remote sheet fetcher.
type RemoteOptions struct {
	Key     string        // optional API key, sent as ?key=
	Timeout time.Duration // default 20s
}

// FetchRemote downloads a remote tabular source and returns it as a Batch.
// Any failure leaves the caller's state untouched; the core is never
// invoked with a partial batch.
func FetchRemote(ctx context.Context, rawURL string, opt RemoteOptions) (Batch, error) {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Batch{}, eris.Wrap(err, "remote: parse url")
	}
	if opt.Key != "" {
		q := u.Query()
		q.Set("key", opt.Key)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Batch{}, eris.Wrap(err, "remote: build request")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return Batch{}, eris.Wrap(err, "remote: fetch")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return Batch{}, eris.Errorf("remote: unexpected status %s: %s", resp.Status, string(b))
	}

	var payload remotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Batch{}, eris.Wrap(err, "remote: decode")
	}
	if len(payload.Values) == 0 {
		return Batch{}, eris.New("remote: no values returned")
	}

	b := Batch{Source: u.Host, Headers: cleanHeaders(payload.Values[0])}
	for _, row := range payload.Values[1:] {
		b.Records = append(b.Records, rowToRecord(b.Headers, row))
	}
	zap.L().Debug("remote sheet fetched",
		zap.String("host", u.Host),
		zap.Int("rows", len(b.Records)),
		zap.Int("columns", len(b.Headers)))
	return b, nil
}

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestFetchRemote(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"values":[["Date Out","Branch"],["3/15/2024","North"],["3/16/2024"]]}`))
	}))
	defer srv.Close()

	b, err := FetchRemote(context.Background(), srv.URL, RemoteOptions{Key: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, "s3cret", gotKey)
	assert.Equal(t, []string{"Date Out", "Branch"}, b.Headers)
	require.Len(t, b.Records, 2)
	assert.Equal(t, "North", b.Records[0]["Branch"])
	// Short rows pad like the file readers do.
	assert.Equal(t, "", b.Records[1]["Branch"])
}

func TestFetchRemoteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := FetchRemote(context.Background(), srv.URL, RemoteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchRemoteEmptyValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"values":[]}`))
	}))
	defer srv.Close()

	_, err := FetchRemote(context.Background(), srv.URL, RemoteOptions{})
	assert.Error(t, err)
}

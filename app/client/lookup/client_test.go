package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"statebot/app/config"

	"github.com/stretchr/testify/require"
)

func testClient(endpoint string) *Client {
	cfg := &config.Config{}
	cfg.Lookup.Endpoint = endpoint

	return &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
	}
}

func TestLookup_DecodesResponse(t *testing.T) {
	var gotParams map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotParams))
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "NY has 27 representatives."})
	}))
	defer server.Close()

	client := testClient(server.URL)

	result, err := client.Lookup(context.Background(), map[string]any{"state": "NY"})
	require.NoError(t, err)
	require.Equal(t, "NY", gotParams["state"])
	require.Equal(t, "NY has 27 representatives.", result["message"])
}

func TestLookup_Non200IsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Lookup(context.Background(), map[string]any{"state": "NY"})
	require.ErrorContains(t, err, "status 502")
}

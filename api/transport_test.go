package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T, handler http.HandlerFunc) (*Transport, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr, err := NewTransport(TransportConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return tr, srv
}

func TestDoSuccessReturnsBodyVerbatim(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tasks/task_123", r.URL.Path)
		w.Write([]byte(`{"task_id":"task_123","status":"pending","extra":"kept"}`))
	})

	resp, err := tr.Do(context.Background(), http.MethodGet, "/tasks/task_123", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "task_123", resp.Get("task_id").String())
	// Unknown fields survive; no schema validation is applied.
	assert.Equal(t, "kept", resp.Get("extra").String())
}

func TestDoSignsEveryRequest(t *testing.T) {
	var seen *http.Request
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Write([]byte(`{}`))
	})

	_, err := tr.Do(context.Background(), http.MethodPost, "/tasks", map[string]string{"name": "t"}, nil)
	require.NoError(t, err)
	require.NotNil(t, seen)

	assert.Equal(t, "Bearer test-key", seen.Header.Get("Authorization"))
	assert.Equal(t, "application/json", seen.Header.Get("Content-Type"))
	assert.NotEmpty(t, seen.Header.Get("X-Request-ID"))

	// The default signer encodes method+path+timestamp; reconstruct it from
	// the timestamp header the server received.
	ts := seen.Header.Get("X-Timestamp")
	require.NotEmpty(t, ts)
	want := base64.StdEncoding.EncodeToString([]byte("POST/tasks" + ts))
	assert.Equal(t, want, seen.Header.Get("X-Wallet-Signature"))
}

func TestDoQueryParameters(t *testing.T) {
	var gotQuery url.Values
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"tasks":[]}`))
	})

	query := url.Values{}
	query.Set("status", "running")
	query.Set("limit", "10")

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks", nil, query)
	require.NoError(t, err)
	assert.Equal(t, "running", gotQuery.Get("status"))
	assert.Equal(t, "10", gotQuery.Get("limit"))
}

func TestDoMapsKnownErrorCode(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"code":"INSUFFICIENT_FUNDS","message":"Insufficient funds",` +
			`"details":{"required":"10.00","available":"5.50","currency":"USDC"}}}`))
	})

	_, err := tr.Do(context.Background(), http.MethodPost, "/tasks", nil, nil)
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindInsufficientFunds, apiErr.Kind)
	assert.Equal(t, "INSUFFICIENT_FUNDS", apiErr.Code)
	assert.Equal(t, "Insufficient funds", apiErr.Message)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	// Details pass through unchanged.
	assert.Equal(t, map[string]any{
		"required":  "10.00",
		"available": "5.50",
		"currency":  "USDC",
	}, apiErr.Details)
}

func TestDoUnknownCodeIsGeneric(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"SOME_NEW_CODE","message":"novel failure","details":{"hint":"upgrade"}}}`))
	})

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks/x", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindAPI, apiErr.Kind)
	assert.Equal(t, "SOME_NEW_CODE", apiErr.Code)
	assert.Equal(t, map[string]any{"hint": "upgrade"}, apiErr.Details)
}

func TestDoRateLimitHeaderWins(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`not even json`))
	})

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, apiErr.Kind)
	assert.Equal(t, 5*time.Second, apiErr.RetryAfter)
}

func TestDoRateLimitDefaultsTo60s(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, apiErr.Kind)
	assert.Equal(t, 60*time.Second, apiErr.RetryAfter)
}

func TestDoRateLimitCodeInBodyUsesDetails(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"RATE_LIMIT_EXCEEDED","message":"slow down","details":{"retry_after":30}}}`))
	})

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, apiErr.Kind)
	assert.Equal(t, 30*time.Second, apiErr.RetryAfter)
}

func TestDoValidJSONWithoutErrorObjectIsGeneric(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"oops"}`))
	})

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindAPI, apiErr.Kind)
	assert.Equal(t, "UNKNOWN_ERROR", apiErr.Code)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestDoUnparseableBodyDegradesToNetworkError(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := tr.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestDoConnectionFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	tr, err := NewTransport(TransportConfig{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = tr.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.StatusCode)
}

func TestNewTransportRequiresAPIKey(t *testing.T) {
	_, err := NewTransport(TransportConfig{})
	assert.Error(t, err)
}

func TestWebSocketURL(t *testing.T) {
	tr, err := NewTransport(TransportConfig{BaseURL: "https://robocompute.xyz/api", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "wss://robocompute.xyz/api/v1/tasks/t1/stream", tr.WebSocketURL("/tasks/t1/stream"))

	tr, err = NewTransport(TransportConfig{BaseURL: "http://127.0.0.1:9000", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9000/v1/tasks/t1/stream", tr.WebSocketURL("/tasks/t1/stream"))
}

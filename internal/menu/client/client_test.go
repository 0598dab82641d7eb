// internal/menu/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	opts = append([]Option{WithRetryDelay(time.Millisecond)}, opts...)
	return New(baseURL, logger.NewTestLogger(t), opts...)
}

type menuResponse struct {
	Items []map[string]interface{} `json:"items"`
}

// ==========================
// Success Path Tests
// ==========================

func TestGet_DecodesJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(menuResponse{
			Items: []map[string]interface{}{{"nome": "Moqueca"}},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var out menuResponse
	err := c.Get(context.Background(), "/menu", nil, &out)

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Moqueca", out.Items[0]["nome"])
}

func TestGet_EncodesQueryParams(t *testing.T) {
	var gotOffset string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOffset = r.URL.Query().Get("weekOffset")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	params := url.Values{}
	params.Set("weekOffset", "-2")

	var out map[string]interface{}
	require.NoError(t, c.Get(context.Background(), "/menu/weekly", params, &out))
	assert.Equal(t, "-2", gotOffset)
}

func TestPost_SendsJSONBody(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	err := c.Post(context.Background(), "/admin/menu", map[string]interface{}{"nome": "Acarajé"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Acarajé", gotBody["nome"])
}

// ==========================
// Retry Behavior Tests
// ==========================

func TestDo_RetriesServerErrorsThenSucceeds(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var out map[string]interface{}
	err := c.Get(context.Background(), "/menu", nil, &out)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "two failures and one success")
	assert.Equal(t, true, out["ok"])
}

func TestDo_ExhaustedRetriesCarryLastStatusAndBody(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "db down"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	err := c.Get(context.Background(), "/menu", nil, nil)

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))

	apiErr, ok := errors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMenuFetchFailed, apiErr.Code)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	body, ok := apiErr.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "db down", body["error"])
}

func TestDo_ClientErrorsAreNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no such menu"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	err := c.Get(context.Background(), "/menu/nope", nil, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "4xx surfaces immediately")

	apiErr, ok := errors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeClientRequest, apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.False(t, apiErr.Retryable)
}

func TestDo_NetworkErrorsAreRetried(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(t, server.URL, WithRetries(2))

	err := c.Get(context.Background(), "/menu", nil, nil)

	require.Error(t, err)
	apiErr, ok := errors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMenuFetchFailed, apiErr.Code)
	assert.Zero(t, apiErr.StatusCode)
}

func TestDo_ContextCancellationStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, WithRetryDelay(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := c.Get(ctx, "/menu", nil, nil)

	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "cancelled context short-circuits the backoff")
}

// ==========================
// Health Check Tests
// ==========================

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{name: "healthy", status: http.StatusOK, expected: true},
		{name: "degraded", status: http.StatusServiceUnavailable, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := newTestClient(t, server.URL)
			assert.Equal(t, tt.expected, c.HealthCheck(context.Background()))
		})
	}
}

func TestHealthCheck_UnreachableNeverErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(t, server.URL)

	assert.False(t, c.HealthCheck(context.Background()))
}

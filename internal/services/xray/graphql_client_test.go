package xray

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

// fakeTokenProvider hands out canned tokens and records invalidations.
type fakeTokenProvider struct {
	tokens      []string
	calls       int64
	invalidated int64
}

func (f *fakeTokenProvider) GetValidToken(ctx context.Context) (string, error) {
	n := atomic.AddInt64(&f.calls, 1)
	idx := int(n) - 1
	if idx >= len(f.tokens) {
		idx = len(f.tokens) - 1
	}
	return f.tokens[idx], nil
}

func (f *fakeTokenProvider) Invalidate() {
	atomic.AddInt64(&f.invalidated, 1)
}

func TestExecuteReturnsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/graphql", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "query Q { getTests(limit: 1) { total } }", body["query"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"getTests": map[string]any{"total": float64(7)}},
		})
	}))
	defer server.Close()

	auth := &fakeTokenProvider{tokens: []string{"token-1"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	data, err := client.Execute(context.Background(), "query Q { getTests(limit: 1) { total } }", nil)
	require.NoError(t, err)

	page, ok := data["getTests"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), page["total"])
}

func TestExecuteGraphQLErrorsArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{
				{"message": "Field does not exist"},
				{"message": "Unknown argument"},
			},
		})
	}))
	defer server.Close()

	auth := &fakeTokenProvider{tokens: []string{"token-1"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	_, err := client.Execute(context.Background(), "query Q { nope }", nil)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindGraphQL, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "Field does not exist")
	assert.Contains(t, err.Error(), "Unknown argument")
}

func TestExecuteNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream maintenance"))
	}))
	defer server.Close()

	auth := &fakeTokenProvider{tokens: []string{"token-1"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	_, err := client.Execute(context.Background(), "query Q { x }", nil)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindGraphQL, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream maintenance")
}

func TestExecuteRetriesOnceAfter401(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&requests, 1)
		if n == 1 {
			require.Equal(t, "Bearer stale-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"getTest": map[string]any{"issueId": "1162822"}},
		})
	}))
	defer server.Close()

	auth := &fakeTokenProvider{tokens: []string{"stale-token", "fresh-token"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	data, err := client.Execute(context.Background(), "query Q { getTest }", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
	assert.Equal(t, int64(1), atomic.LoadInt64(&auth.invalidated), "401 must invalidate the cached token")
	assert.NotNil(t, data["getTest"])
}

func TestExecuteSecond401IsAuthenticationError(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	auth := &fakeTokenProvider{tokens: []string{"revoked-token"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	_, err := client.Execute(context.Background(), "query Q { x }", nil)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindAuthentication, xrayerrors.KindOf(err))
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests), "exactly one retry after the first 401")
}

func TestExecuteNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	auth := &fakeTokenProvider{tokens: []string{"token-1"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	_, err := client.Execute(context.Background(), "query Q { x }", nil)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindNetwork, xrayerrors.KindOf(err))
}

func TestExecuteHonorsCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	auth := &fakeTokenProvider{tokens: []string{"token-1"}}
	client := NewGraphQLClient(server.URL, auth, common.GetLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Execute(ctx, "query Q { x }", nil)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindNetwork, xrayerrors.KindOf(err))
}

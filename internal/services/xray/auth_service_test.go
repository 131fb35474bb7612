package xray

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestAuthManager(baseURL string) *AuthManager {
	return NewAuthManager(common.XrayConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		BaseURL:      baseURL,
	}, common.GetLogger())
}

func TestGetValidTokenSingleFlight(t *testing.T) {
	var authCalls int64
	tokenValue := signedToken(t, time.Now().Add(2*time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		require.Equal(t, "/api/v2/authenticate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "test-client", body["client_id"])

		// Slow response so every concurrent caller arrives while the
		// refresh is still in flight.
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(tokenValue)
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	const callers = 10
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = manager.GetValidToken(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&authCalls), "exactly one authenticate RPC must be issued")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, tokenValue, tokens[i])
	}
}

func TestGetValidTokenReusesFreshToken(t *testing.T) {
	var authCalls int64
	tokenValue := signedToken(t, time.Now().Add(2*time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(tokenValue)
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	for i := 0; i < 5; i++ {
		token, err := manager.GetValidToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tokenValue, token)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&authCalls))
}

func TestGetValidTokenRefreshesNearExpiry(t *testing.T) {
	var authCalls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		// Token that is already inside the 5-minute skew window.
		json.NewEncoder(w).Encode(signedToken(t, time.Now().Add(3*time.Minute)))
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	_, err := manager.GetValidToken(context.Background())
	require.NoError(t, err)
	_, err = manager.GetValidToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&authCalls), "tokens within the skew window must be refreshed")
}

func TestGetValidTokenAcceptsObjectBody(t *testing.T) {
	tokenValue := signedToken(t, time.Now().Add(2*time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": tokenValue})
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	token, err := manager.GetValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokenValue, token)
}

func TestGetValidTokenFallbackExpiryForOpaqueToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("not-a-jwt-token-at-all")
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	before := time.Now()
	_, err := manager.GetValidToken(context.Background())
	require.NoError(t, err)

	manager.mu.Lock()
	expiresAt := manager.token.ExpiresAt
	manager.mu.Unlock()

	assert.WithinDuration(t, before.Add(fallbackTokenTTL), expiresAt, 10*time.Second)
}

func TestGetValidTokenCredentialsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	_, err := manager.GetValidToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindAuthentication, xrayerrors.KindOf(err))

	// No partial state is retained after a failed refresh.
	manager.mu.Lock()
	assert.Empty(t, manager.token.Value)
	manager.mu.Unlock()
}

func TestGetValidTokenMissingTokenInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	_, err := manager.GetValidToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindAuthentication, xrayerrors.KindOf(err))
}

func TestGetValidTokenNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	manager := newTestAuthManager(server.URL)

	_, err := manager.GetValidToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindAuthentication, xrayerrors.KindOf(err))
}

func TestGetValidTokenCancelledWaiterDoesNotAbortRefresh(t *testing.T) {
	var authCalls int64
	tokenValue := signedToken(t, time.Now().Add(2*time.Hour))
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		<-release
		json.NewEncoder(w).Encode(tokenValue)
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.GetValidToken(cancelled)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindNetwork, xrayerrors.KindOf(err))

	// The refresh started by the cancelled caller still completes and its
	// token is shared with the next caller.
	close(release)
	token, err := manager.GetValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokenValue, token)
	assert.Equal(t, int64(1), atomic.LoadInt64(&authCalls))
}

func TestInvalidateForcesRefresh(t *testing.T) {
	var authCalls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(signedToken(t, time.Now().Add(2*time.Hour)))
	}))
	defer server.Close()

	manager := newTestAuthManager(server.URL)

	_, err := manager.GetValidToken(context.Background())
	require.NoError(t, err)

	manager.Invalidate()

	_, err = manager.GetValidToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&authCalls))
}

func TestTokenValidSkew(t *testing.T) {
	now := time.Now()

	fresh := models.Token{Value: "t", ExpiresAt: now.Add(time.Hour)}
	assert.True(t, fresh.Valid(now, expirySkew))

	nearExpiry := models.Token{Value: "t", ExpiresAt: now.Add(4 * time.Minute)}
	assert.False(t, nearExpiry.Valid(now, expirySkew))

	empty := models.Token{}
	assert.False(t, empty.Valid(now, expirySkew))
}

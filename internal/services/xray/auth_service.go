package xray

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ternarybob/arbor"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/httpclient"
	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const (
	authPath = "/api/v2/authenticate"

	// Tokens are treated as expired this long before their exp claim to
	// avoid boundary races with long-running requests.
	expirySkew = 5 * time.Minute

	// Fallback validity when the token carries no decodable exp claim.
	fallbackTokenTTL = time.Hour

	authRequestTimeout = 30 * time.Second
)

// authCall is one in-flight authenticate request. Waiters park on done and
// read token/err afterwards; the refresh itself is detached from any single
// caller's context so a cancelled waiter never aborts it for the others.
type authCall struct {
	done  chan struct{}
	token models.Token
	err   error
}

// AuthManager owns the bearer token lifecycle for the Xray API: acquire,
// cache, refresh before expiry, and share a single refresh across concurrent
// callers.
type AuthManager struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client
	logger       arbor.ILogger

	mu       sync.Mutex
	token    models.Token
	inflight *authCall

	now func() time.Time
}

// NewAuthManager creates an auth manager for the given credentials. The
// credential strings are held privately and never logged.
func NewAuthManager(cfg common.XrayConfig, logger arbor.ILogger) *AuthManager {
	return &AuthManager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       httpclient.NewDefaultHTTPClient(authRequestTimeout),
		logger:       logger,
		now:          time.Now,
	}
}

// GetValidToken returns a token good for at least the expiry skew window,
// refreshing if needed. Exactly one authenticate request is in flight at any
// time; concurrent callers share its result.
func (m *AuthManager) GetValidToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.token.Valid(m.now(), expirySkew) {
		value := m.token.Value
		m.mu.Unlock()
		return value, nil
	}

	if m.inflight == nil {
		call := &authCall{done: make(chan struct{})}
		m.inflight = call
		common.SafeGo(m.logger, "authRefresh", func() {
			m.refresh(call)
		})
	}
	call := m.inflight
	m.mu.Unlock()

	select {
	case <-call.done:
		if call.err != nil {
			return "", call.err
		}
		return call.token.Value, nil
	case <-ctx.Done():
		// The refresh keeps running for other waiters; only this caller
		// observes the cancellation.
		return "", xrayerrors.Wrap(xrayerrors.KindNetwork, ctx.Err(), "authentication wait cancelled: %v", ctx.Err())
	}
}

// Invalidate drops the cached token so the next GetValidToken refreshes.
// Called by the GraphQL client after an upstream 401.
func (m *AuthManager) Invalidate() {
	m.mu.Lock()
	m.token = models.Token{}
	m.mu.Unlock()
}

func (m *AuthManager) refresh(call *authCall) {
	ctx, cancel := context.WithTimeout(context.Background(), authRequestTimeout)
	defer cancel()

	token, err := m.authenticate(ctx)

	m.mu.Lock()
	if err == nil {
		m.token = token
	}
	m.inflight = nil
	m.mu.Unlock()

	call.token = token
	call.err = err
	close(call.done)
}

// authenticate performs the credentials-for-token exchange against
// /api/v2/authenticate and decodes the token's exp claim.
func (m *AuthManager) authenticate(ctx context.Context) (models.Token, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     m.clientID,
		"client_secret": m.clientSecret,
	})
	if err != nil {
		return models.Token{}, xrayerrors.Wrap(xrayerrors.KindAuthentication, err, "failed to encode credentials: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+authPath, bytes.NewReader(payload))
	if err != nil {
		return models.Token{}, xrayerrors.Wrap(xrayerrors.KindAuthentication, err, "failed to build authenticate request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return models.Token{}, xrayerrors.Wrap(xrayerrors.KindAuthentication, err, "network error during authentication: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Token{}, xrayerrors.Wrap(xrayerrors.KindAuthentication, err, "failed to read authenticate response: %v", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to token parsing below.
	case http.StatusBadRequest:
		return models.Token{}, xrayerrors.New(xrayerrors.KindAuthentication, "bad request: wrong authenticate request syntax")
	case http.StatusUnauthorized:
		return models.Token{}, xrayerrors.New(xrayerrors.KindAuthentication, "unauthorized: invalid Xray license or credentials")
	case http.StatusInternalServerError:
		return models.Token{}, xrayerrors.New(xrayerrors.KindAuthentication, "internal server error during authentication")
	default:
		return models.Token{}, xrayerrors.New(xrayerrors.KindAuthentication, "authentication failed with status %d", resp.StatusCode)
	}

	value, err := parseTokenBody(body)
	if err != nil {
		return models.Token{}, err
	}

	token := models.Token{Value: value, ExpiresAt: m.decodeExpiry(value)}

	m.logger.Debug().
		Str("expiresAt", token.ExpiresAt.Format(time.RFC3339)).
		Msg("Obtained Xray API token")

	return token, nil
}

// parseTokenBody accepts both documented authenticate response shapes: a
// bare JSON string holding the token, or an object with a "token" field.
func parseTokenBody(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", xrayerrors.New(xrayerrors.KindAuthentication, "empty authenticate response body")
	}

	var raw string
	if err := json.Unmarshal(trimmed, &raw); err == nil {
		if raw == "" {
			return "", xrayerrors.New(xrayerrors.KindAuthentication, "authenticate response contained an empty token")
		}
		return raw, nil
	}

	var wrapped struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Token != "" {
		return wrapped.Token, nil
	}

	// Some deployments return the raw token without JSON quoting.
	candidate := strings.Trim(string(trimmed), `"`)
	if strings.Count(candidate, ".") == 2 {
		return candidate, nil
	}

	return "", xrayerrors.New(xrayerrors.KindAuthentication, "authenticate response did not contain a token")
}

// decodeExpiry reads the exp claim from the token without verifying the
// signature (we have no signing key; exp schedules refresh, it is not a
// security boundary). Undecodable tokens get a conservative one-hour TTL.
func (m *AuthManager) decodeExpiry(value string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(value, claims); err != nil {
		return m.now().Add(fallbackTokenTTL)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return m.now().Add(fallbackTokenTTL)
	}

	return time.Unix(int64(exp), 0)
}

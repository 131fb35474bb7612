package xray

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/bikeracer4487/xray-mcp/internal/httpclient"
	"github.com/bikeracer4487/xray-mcp/internal/interfaces"
	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const (
	graphqlPath = "/api/v2/graphql"

	// Per-request deadline applied when the caller's context has none.
	defaultRequestTimeout = 30 * time.Second

	// Upstream response bodies included in error text are truncated to this
	// many bytes.
	errorBodyPrefix = 512
)

// GraphQLClient executes GraphQL operations against the Xray API with a
// pooled HTTP client, bearer auth, and a single re-authentication retry on
// 401 responses.
type GraphQLClient struct {
	endpoint string
	auth     interfaces.TokenProvider
	client   *http.Client
	logger   arbor.ILogger
}

// NewGraphQLClient creates a client for the given base URL. One client (and
// its connection pool) is shared for the process lifetime; sessions are not
// created per request.
func NewGraphQLClient(baseURL string, auth interfaces.TokenProvider, logger arbor.ILogger) *GraphQLClient {
	return &GraphQLClient{
		endpoint: strings.TrimRight(baseURL, "/") + graphqlPath,
		auth:     auth,
		client:   httpclient.NewPooledHTTPClient(),
		logger:   logger,
	}
}

// Execute runs a GraphQL query or mutation and returns the response data
// object. A 401 triggers token invalidation and exactly one retry; a second
// 401 surfaces as AuthenticationError.
func (c *GraphQLClient) Execute(ctx context.Context, operation string, variables map[string]any) (map[string]any, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
	}

	status, data, err := c.dispatch(ctx, operation, variables)
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized {
		return data, nil
	}

	// Token rejected server-side: force a refresh and retry once.
	c.auth.Invalidate()
	c.logger.Debug().Msg("Received 401 from GraphQL endpoint, re-authenticating")

	status, data, err = c.dispatch(ctx, operation, variables)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, xrayerrors.New(xrayerrors.KindAuthentication, "GraphQL request rejected twice with 401 after re-authentication")
	}
	return data, nil
}

// dispatch performs one POST. A 401 status is returned to the caller for the
// retry decision; every other outcome is either data or a terminal error.
func (c *GraphQLClient) dispatch(ctx context.Context, operation string, variables map[string]any) (int, map[string]any, error) {
	token, err := c.auth.GetValidToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	payload, err := json.Marshal(models.GraphQLRequest{Query: operation, Variables: variables})
	if err != nil {
		return 0, nil, xrayerrors.Wrap(xrayerrors.KindValidation, err, "failed to encode GraphQL request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, xrayerrors.Wrap(xrayerrors.KindNetwork, err, "failed to build GraphQL request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, xrayerrors.Wrap(xrayerrors.KindNetwork, err, "GraphQL request cancelled: %v", err)
		}
		return 0, nil, xrayerrors.Wrap(xrayerrors.KindNetwork, err, "network error during GraphQL request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, xrayerrors.Wrap(xrayerrors.KindNetwork, err, "failed to read GraphQL response: %v", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return http.StatusUnauthorized, nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, xrayerrors.New(xrayerrors.KindGraphQL,
			"GraphQL request failed with status %d: %s", resp.StatusCode, bodyPrefix(body))
	}

	var parsed models.GraphQLResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return resp.StatusCode, nil, xrayerrors.Wrap(xrayerrors.KindGraphQL, err,
			"GraphQL response was not valid JSON: %v", err)
	}

	if len(parsed.Errors) > 0 {
		return resp.StatusCode, nil, xrayerrors.New(xrayerrors.KindGraphQL,
			"GraphQL error: %s", joinErrorMessages(parsed.Errors))
	}

	return resp.StatusCode, parsed.Data, nil
}

func joinErrorMessages(entries []models.GraphQLErrorEntry) string {
	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

func bodyPrefix(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > errorBodyPrefix {
		return s[:errorBodyPrefix] + "..."
	}
	return s
}

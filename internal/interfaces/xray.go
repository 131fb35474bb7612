package interfaces

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
)

// TokenProvider supplies valid bearer tokens for the Xray API and lets the
// GraphQL client force a refresh after an upstream 401.
type TokenProvider interface {
	// GetValidToken returns a token that is good for at least the skew
	// window, refreshing if necessary. Concurrent callers share a single
	// in-flight refresh.
	GetValidToken(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next GetValidToken refreshes.
	Invalidate()
}

// GraphQLExecutor executes GraphQL operations against the Xray API.
type GraphQLExecutor interface {
	// Execute runs the operation with the given variables and returns the
	// response "data" object. Upstream errors arrive as typed errors from
	// the xrayerrors taxonomy.
	Execute(ctx context.Context, operation string, variables map[string]any) (map[string]any, error)
}

// IssueResolver maps user-facing resource keys (PROJ-123) to the numeric
// issue IDs the GraphQL schema requires.
type IssueResolver interface {
	// Resolve returns the numeric ID for key, trying the hinted kind first
	// and then the remaining kinds in the fixed fallback order. Numeric
	// keys pass through untouched.
	Resolve(ctx context.Context, key string, hint models.ResourceKind) (string, error)

	// ResolveAll resolves each key in order, failing on the first key that
	// cannot be resolved.
	ResolveAll(ctx context.Context, keys []string, hint models.ResourceKind) ([]string, error)
}

package xray

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

// fakeExecutor answers key-lookup queries from a canned kind table and
// records which entrypoints were queried, in order.
type fakeExecutor struct {
	// found maps GraphQL entrypoint (getTests, ...) to the issueId it
	// returns; entrypoints not present return an empty result page.
	found   map[string]string
	queried []string
	errOn   map[string]error
}

func (f *fakeExecutor) Execute(ctx context.Context, operation string, variables map[string]any) (map[string]any, error) {
	entrypoint := ""
	for name := range kindLookupQueries {
		candidate := kindLookupQueries[name]
		if strings.Contains(operation, candidate+"(") {
			entrypoint = candidate
			break
		}
	}
	f.queried = append(f.queried, entrypoint)

	if err, ok := f.errOn[entrypoint]; ok {
		return nil, err
	}

	results := []any{}
	if id, ok := f.found[entrypoint]; ok {
		results = append(results, map[string]any{"issueId": id})
	}
	return map[string]any{
		entrypoint: map[string]any{"results": results},
	}, nil
}

func newTestResolver(executor *fakeExecutor) *IssueResolver {
	return NewIssueResolver(executor, common.GetLogger())
}

func TestResolveNumericPassthrough(t *testing.T) {
	executor := &fakeExecutor{}
	resolver := newTestResolver(executor)

	id, err := resolver.Resolve(context.Background(), "1162822", models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, "1162822", id)
	assert.Empty(t, executor.queried, "numeric keys must not hit the upstream")
	assert.Empty(t, resolver.cache, "numeric keys must not be cached")
}

func TestResolveInvalidKeyShape(t *testing.T) {
	resolver := newTestResolver(&fakeExecutor{})

	_, err := resolver.Resolve(context.Background(), "not a key", models.KindAny)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindValidation, xrayerrors.KindOf(err))
}

func TestResolveTestKeyViaDefaultOrder(t *testing.T) {
	executor := &fakeExecutor{found: map[string]string{"getTests": "1162822"}}
	resolver := newTestResolver(executor)

	id, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, "1162822", id)
	assert.Equal(t, []string{"getTests"}, executor.queried, "first kind in the fallback order wins")
}

func TestResolveHintedKindQueriedFirst(t *testing.T) {
	// FRAMED-1670 is a TestExecution: with the hint, one lookup suffices. A
	// Test-only resolver would have failed this case outright.
	executor := &fakeExecutor{found: map[string]string{"getTestExecutions": "2201456"}}
	resolver := newTestResolver(executor)

	id, err := resolver.Resolve(context.Background(), "FRAMED-1670", models.KindTestExecution)
	require.NoError(t, err)
	assert.Equal(t, "2201456", id)
	assert.Equal(t, []string{"getTestExecutions"}, executor.queried)
}

func TestResolveFallsBackAcrossKinds(t *testing.T) {
	// No hint and the key is a TestPlan: the resolver must walk Test,
	// TestSet, TestExecution before hitting TestPlan.
	executor := &fakeExecutor{found: map[string]string{"getTestPlans": "3304991"}}
	resolver := newTestResolver(executor)

	id, err := resolver.Resolve(context.Background(), "PROJ-77", models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, "3304991", id)
	assert.Equal(t, []string{"getTests", "getTestSets", "getTestExecutions", "getTestPlans"}, executor.queried)
}

func TestResolveCachesSuccessfulLookup(t *testing.T) {
	executor := &fakeExecutor{found: map[string]string{"getTests": "1162822"}}
	resolver := newTestResolver(executor)

	_, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindAny)
	require.NoError(t, err)
	queriesAfterFirst := len(executor.queried)

	id, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, "1162822", id)
	assert.Equal(t, queriesAfterFirst, len(executor.queried), "second resolve must be served from cache")
}

func TestResolveCacheSharedAcrossHints(t *testing.T) {
	executor := &fakeExecutor{found: map[string]string{"getTests": "1162822"}}
	resolver := newTestResolver(executor)

	_, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindTest)
	require.NoError(t, err)
	queriesAfterFirst := len(executor.queried)

	// A hintless resolve of the same key hits the wildcard cache entry.
	id, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, "1162822", id)
	assert.Equal(t, queriesAfterFirst, len(executor.queried))
}

func TestResolveIsIdempotent(t *testing.T) {
	executor := &fakeExecutor{found: map[string]string{"getTests": "1162822"}}
	resolver := newTestResolver(executor)

	once, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindAny)
	require.NoError(t, err)

	// Resolved IDs are numeric, so resolving the result is a fixed point.
	twice, err := resolver.Resolve(context.Background(), once, models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestResolveExhaustionIsResolutionError(t *testing.T) {
	executor := &fakeExecutor{}
	resolver := newTestResolver(executor)

	_, err := resolver.Resolve(context.Background(), "PROJ-404", models.KindAny)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindResolution, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "PROJ-404")
	assert.Len(t, executor.queried, len(models.FallbackOrder), "every kind must be tried before giving up")
}

func TestResolveGraphQLErrorCountsAsMiss(t *testing.T) {
	executor := &fakeExecutor{
		found: map[string]string{"getTestSets": "4400123"},
		errOn: map[string]error{
			"getTests": xrayerrors.New(xrayerrors.KindGraphQL, "field not available"),
		},
	}
	resolver := newTestResolver(executor)

	id, err := resolver.Resolve(context.Background(), "PROJ-55", models.KindAny)
	require.NoError(t, err)
	assert.Equal(t, "4400123", id)
}

func TestResolveTransportErrorAbortsChain(t *testing.T) {
	executor := &fakeExecutor{
		errOn: map[string]error{
			"getTests": xrayerrors.New(xrayerrors.KindNetwork, "connection refused"),
		},
	}
	resolver := newTestResolver(executor)

	_, err := resolver.Resolve(context.Background(), "PROJ-55", models.KindAny)
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindNetwork, xrayerrors.KindOf(err))
	assert.Len(t, executor.queried, 1, "transport failures must not trigger further lookups")
}

func TestResolveAllFailsFast(t *testing.T) {
	executor := &fakeExecutor{found: map[string]string{"getTests": "1162822"}}
	resolver := newTestResolver(executor)

	ids, err := resolver.ResolveAll(context.Background(), []string{"1000", "PROJ-123"}, models.KindTest)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "1162822"}, ids)

	_, err = resolver.ResolveAll(context.Background(), []string{"??"}, models.KindTest)
	require.Error(t, err)
}

func TestResolveKeyInterpolationIsQuoted(t *testing.T) {
	var capturedJQL string
	executor := &fakeExecutor{found: map[string]string{"getTests": "1"}}
	resolver := NewIssueResolver(executorFunc(func(ctx context.Context, operation string, variables map[string]any) (map[string]any, error) {
		capturedJQL, _ = variables["jql"].(string)
		return executor.Execute(ctx, operation, variables)
	}), common.GetLogger())

	_, err := resolver.Resolve(context.Background(), "PROJ-123", models.KindTest)
	require.NoError(t, err)
	assert.Equal(t, `key = "PROJ-123"`, capturedJQL)
}

// executorFunc adapts a function to the GraphQLExecutor interface.
type executorFunc func(ctx context.Context, operation string, variables map[string]any) (map[string]any, error)

func (f executorFunc) Execute(ctx context.Context, operation string, variables map[string]any) (map[string]any, error) {
	return f(ctx, operation, variables)
}

package xray

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/bikeracer4487/xray-mcp/internal/interfaces"
	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

var (
	numericIDPattern   = regexp.MustCompile(`^\d+$`)
	resourceKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-\d+$`)
)

// kindLookupQueries maps each resource kind to the GraphQL entrypoint used
// to convert a Jira key into the numeric issue ID the schema requires.
var kindLookupQueries = map[models.ResourceKind]string{
	models.KindTest:           "getTests",
	models.KindTestSet:        "getTestSets",
	models.KindTestExecution:  "getTestExecutions",
	models.KindTestPlan:       "getTestPlans",
	models.KindCoverableIssue: "getCoverableIssues",
}

// IssueResolver maps user-facing keys (PROJ-123) to numeric issue IDs. A key
// does not reveal which kind of entity it names, and each kind has its own
// lookup entrypoint, so resolution walks a fallback chain: hinted kind first,
// then the fixed order Test, TestSet, TestExecution, TestPlan,
// CoverableIssue. Successful resolutions are cached for the process lifetime
// (upstream IDs are stable).
type IssueResolver struct {
	client interfaces.GraphQLExecutor
	logger arbor.ILogger

	mu    sync.RWMutex
	cache map[string]models.ResolvedID
}

// NewIssueResolver creates a resolver backed by the given GraphQL executor.
func NewIssueResolver(client interfaces.GraphQLExecutor, logger arbor.ILogger) *IssueResolver {
	return &IssueResolver{
		client: client,
		logger: logger,
		cache:  make(map[string]models.ResolvedID),
	}
}

// Resolve returns the numeric issue ID for key. Numeric keys pass through
// unchanged with no upstream call and no cache write.
func (r *IssueResolver) Resolve(ctx context.Context, key string, hint models.ResourceKind) (string, error) {
	if numericIDPattern.MatchString(key) {
		return key, nil
	}

	if !resourceKeyPattern.MatchString(key) {
		return "", xrayerrors.New(xrayerrors.KindValidation, "invalid resource key: %q", key)
	}

	if resolved, ok := r.lookupCache(key, hint); ok {
		return resolved.ID, nil
	}

	for _, kind := range kindOrder(hint) {
		id, err := r.lookupUpstream(ctx, key, kind)
		if err != nil {
			// Application-level errors on one kind count as a miss for that
			// kind; transport and auth failures abort the chain.
			if xrayerrors.KindOf(err) == xrayerrors.KindGraphQL {
				r.logger.Debug().
					Str("key", key).
					Str("kind", string(kind)).
					Str("error", err.Error()).
					Msg("Key lookup failed for kind, trying next")
				continue
			}
			return "", err
		}
		if id == "" {
			continue
		}

		r.storeCache(key, hint, models.ResolvedID{ID: id, Kind: kind})
		return id, nil
	}

	return "", xrayerrors.New(xrayerrors.KindResolution, "could not resolve key %q to an issue ID in any resource kind", key)
}

// ResolveAll resolves each key in order, failing on the first unresolvable
// key.
func (r *IssueResolver) ResolveAll(ctx context.Context, keys []string, hint models.ResourceKind) ([]string, error) {
	resolved := make([]string, 0, len(keys))
	for _, key := range keys {
		id, err := r.Resolve(ctx, key, hint)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}

func cacheKey(key string, kind models.ResourceKind) string {
	if kind == models.KindAny {
		return key + "|*"
	}
	return key + "|" + string(kind)
}

func (r *IssueResolver) lookupCache(key string, hint models.ResourceKind) (models.ResolvedID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if resolved, ok := r.cache[cacheKey(key, hint)]; ok {
		return resolved, true
	}
	if resolved, ok := r.cache[cacheKey(key, models.KindAny)]; ok {
		return resolved, true
	}
	return models.ResolvedID{}, false
}

// storeCache records the resolution under the hint used, the resolved kind,
// and the wildcard entry. Concurrent writers of the same key are idempotent;
// last write wins.
func (r *IssueResolver) storeCache(key string, hint models.ResourceKind, resolved models.ResolvedID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[cacheKey(key, hint)] = resolved
	r.cache[cacheKey(key, resolved.Kind)] = resolved
	r.cache[cacheKey(key, models.KindAny)] = resolved
}

// kindOrder returns the lookup order: the hinted kind first, then the fixed
// fallback chain minus the hint.
func kindOrder(hint models.ResourceKind) []models.ResourceKind {
	if hint == models.KindAny {
		return models.FallbackOrder
	}

	order := make([]models.ResourceKind, 0, len(models.FallbackOrder))
	order = append(order, hint)
	for _, kind := range models.FallbackOrder {
		if kind != hint {
			order = append(order, kind)
		}
	}
	return order
}

// lookupUpstream issues one kind's key lookup. The key is interpolated into
// the JQL only after matching the resource key pattern; no other user input
// enters the query string.
func (r *IssueResolver) lookupUpstream(ctx context.Context, key string, kind models.ResourceKind) (string, error) {
	entrypoint, ok := kindLookupQueries[kind]
	if !ok {
		return "", xrayerrors.New(xrayerrors.KindResolution, "no lookup query for resource kind %q", kind)
	}

	query := fmt.Sprintf(`
	query ResolveIssueKey($jql: String!, $limit: Int!) {
		%s(jql: $jql, limit: $limit) {
			results {
				issueId
			}
		}
	}`, entrypoint)

	variables := map[string]any{
		"jql":   fmt.Sprintf("key = %q", key),
		"limit": 1,
	}

	data, err := r.client.Execute(ctx, query, variables)
	if err != nil {
		return "", err
	}

	page, _ := data[entrypoint].(map[string]any)
	results, _ := page["results"].([]any)
	if len(results) == 0 {
		return "", nil
	}
	first, _ := results[0].(map[string]any)
	id, _ := first["issueId"].(string)
	return id, nil
}

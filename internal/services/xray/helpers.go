package xray

import (
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

// dataObject extracts a named object from a GraphQL data payload. A missing
// or null subtree on a single-entity lookup means the entity does not exist
// upstream, which is distinct from an empty search page.
func dataObject(data map[string]any, field, description string) (map[string]any, error) {
	value, present := data[field]
	if !present || value == nil {
		return nil, xrayerrors.New(xrayerrors.KindNotFound, "%s not found", description)
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, xrayerrors.New(xrayerrors.KindGraphQL, "unexpected shape for %s in GraphQL response", field)
	}
	return object, nil
}

// dataPage extracts a paginated result object; a null page comes back as an
// empty object so empty search results pass through unchanged.
func dataPage(data map[string]any, field string) (map[string]any, error) {
	value, present := data[field]
	if !present || value == nil {
		return map[string]any{}, nil
	}
	page, ok := value.(map[string]any)
	if !ok {
		return nil, xrayerrors.New(xrayerrors.KindGraphQL, "unexpected shape for %s in GraphQL response", field)
	}
	return page, nil
}

// dataValue extracts any value for a field, nil included (several mutations
// return null on success).
func dataValue(data map[string]any, field string) any {
	return data[field]
}

// clampLimit bounds a page-size argument to the upstream window of
// [1, 100]. The upstream rejects pages over 100, so larger values are
// clamped to 100 rather than rejected, and values <= 0 take the fallback;
// the choice is uniform across all tools.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 100 {
		return 100
	}
	return limit
}

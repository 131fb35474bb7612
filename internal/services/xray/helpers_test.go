package xray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		fallback int
		want     int
	}{
		{"zero uses fallback", 0, 100, 100},
		{"negative uses fallback", -5, 50, 50},
		{"within range", 25, 100, 25},
		{"upper bound", 100, 100, 100},
		{"over upper bound clamps", 500, 100, 100},
		{"one is valid", 1, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampLimit(tt.limit, tt.fallback))
		})
	}
}

func TestDataObjectNullSubtreeIsNotFound(t *testing.T) {
	_, err := dataObject(map[string]any{"getTest": nil}, "getTest", "test PROJ-404")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindNotFound, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "PROJ-404")
}

func TestDataObjectReturnsSubtree(t *testing.T) {
	object, err := dataObject(map[string]any{
		"getTest": map[string]any{"issueId": "1"},
	}, "getTest", "test")
	require.NoError(t, err)
	assert.Equal(t, "1", object["issueId"])
}

func TestDataPageNullIsEmptyNotError(t *testing.T) {
	page, err := dataPage(map[string]any{"getTests": nil}, "getTests")
	require.NoError(t, err)
	assert.Empty(t, page)
}

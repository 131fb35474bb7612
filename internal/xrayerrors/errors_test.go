package xrayerrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(New(KindValidation, "bad input")))
	assert.Equal(t, KindAuthentication, KindOf(Wrap(KindAuthentication, errors.New("401"), "rejected")))

	// Wrapped taxonomy errors keep their kind through %w chains.
	inner := New(KindResolution, "no match")
	outer := fmt.Errorf("while resolving: %w", inner)
	assert.Equal(t, KindResolution, KindOf(outer))

	// Foreign errors fall back to the upstream catch-all.
	assert.Equal(t, KindGraphQL, KindOf(errors.New("mystery")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(KindNetwork, cause, "network error: %v", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "network error: dial tcp: refused", err.Error())
}

func TestToEnvelopeShape(t *testing.T) {
	envelope := ToEnvelope(New(KindValidation, "jql rejected"))

	encoded, err := json.Marshal(envelope)
	require.NoError(t, err)

	// The wire shape is exactly two fields.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "jql rejected", decoded["error"])
	assert.Equal(t, "ValidationError", decoded["type"])
}

func TestEnvelopeTypesAreClosedSet(t *testing.T) {
	kinds := []Kind{
		KindConfig, KindAuthentication, KindNetwork, KindGraphQL,
		KindValidation, KindResolution, KindNotFound,
	}
	expected := []string{
		"ConfigError", "AuthenticationError", "NetworkError", "GraphQLError",
		"ValidationError", "ResolutionError", "NotFoundError",
	}
	for i, kind := range kinds {
		assert.Equal(t, expected[i], string(kind))
	}
}

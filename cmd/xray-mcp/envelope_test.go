package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func requestWithArgs(args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleSuccessSerializesData(t *testing.T) {
	handler := handle(common.GetLogger(), "demo", func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return map[string]any{"issueId": "1162822"}, nil
	})

	result, err := handler(context.Background(), requestWithArgs(nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, "1162822", decoded["issueId"])
}

func TestHandleFailureIsTwoFieldEnvelope(t *testing.T) {
	handler := handle(common.GetLogger(), "demo", func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return nil, xrayerrors.New(xrayerrors.KindResolution, "could not resolve key \"PROJ-404\"")
	})

	result, err := handler(context.Background(), requestWithArgs(nil))
	require.NoError(t, err, "tool failures must not surface as protocol errors")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Len(t, decoded, 2, "failure envelope has exactly the error and type fields")
	assert.Equal(t, "ResolutionError", decoded["type"])
	assert.Contains(t, decoded["error"], "PROJ-404")
}

func TestHandleForeignErrorMapsToUpstreamKind(t *testing.T) {
	handler := handle(common.GetLogger(), "demo", func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return nil, errors.New("unexpected")
	})

	result, err := handler(context.Background(), requestWithArgs(nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, "GraphQLError", decoded["type"])
}

func TestStructuredArgAcceptsObjectAndString(t *testing.T) {
	fromObject, err := structuredArg(requestWithArgs(map[string]any{
		"jira_fields": map[string]any{"summary": "x"},
	}), "jira_fields")
	require.NoError(t, err)

	fromString, err := structuredArg(requestWithArgs(map[string]any{
		"jira_fields": `{"summary":"x"}`,
	}), "jira_fields")
	require.NoError(t, err)

	// Both argument forms produce identical parsed values.
	assert.Equal(t, fromObject, fromString)
	assert.Equal(t, "x", fromString["summary"])
}

func TestStructuredArgAbsent(t *testing.T) {
	value, err := structuredArg(requestWithArgs(map[string]any{}), "jira_fields")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestStructuredArgMalformedString(t *testing.T) {
	_, err := structuredArg(requestWithArgs(map[string]any{
		"jira_fields": `{"summary": `,
	}), "jira_fields")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindValidation, xrayerrors.KindOf(err))
}

func TestStructuredArgWrongType(t *testing.T) {
	_, err := structuredArg(requestWithArgs(map[string]any{
		"jira_fields": 42,
	}), "jira_fields")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindValidation, xrayerrors.KindOf(err))
}

func TestStepsArgBothForms(t *testing.T) {
	fromList, err := stepsArg(requestWithArgs(map[string]any{
		"steps": []any{
			map[string]any{"action": "Login", "result": "Logged in"},
		},
	}), "steps")
	require.NoError(t, err)

	fromString, err := stepsArg(requestWithArgs(map[string]any{
		"steps": `[{"action":"Login","result":"Logged in"}]`,
	}), "steps")
	require.NoError(t, err)

	assert.Equal(t, fromList, fromString)
	require.Len(t, fromList, 1)
	assert.Equal(t, "Login", fromList[0].Action)
}

func TestStepsArgMalformed(t *testing.T) {
	_, err := stepsArg(requestWithArgs(map[string]any{
		"steps": `[{"action":`,
	}), "steps")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindValidation, xrayerrors.KindOf(err))
}

func TestOptStringDistinguishesAbsent(t *testing.T) {
	present := optString(requestWithArgs(map[string]any{"comment": ""}), "comment")
	require.NotNil(t, present)
	assert.Equal(t, "", *present)

	absent := optString(requestWithArgs(map[string]any{}), "comment")
	assert.Nil(t, absent)
}

package main

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

// toolFunc is the shape every tool body has: parse arguments, call the
// service, return the success payload or an error from the taxonomy.
type toolFunc func(ctx context.Context, request mcp.CallToolRequest) (any, error)

// handle wraps a tool body once with the uniform result/error envelope. No
// error escapes past here: failures become the two-field {error, type}
// object, successes are serialized as JSON text content.
func handle(logger arbor.ILogger, tool string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := common.NewCallID()

		result, err := fn(ctx, request)
		if err != nil {
			logger.Warn().
				Str("tool", tool).
				Str("call", callID).
				Str("type", string(xrayerrors.KindOf(err))).
				Str("error", err.Error()).
				Msg("Tool call failed")
			return textJSON(xrayerrors.ToEnvelope(err)), nil
		}

		logger.Debug().
			Str("tool", tool).
			Str("call", callID).
			Msg("Tool call succeeded")
		return textJSON(result), nil
	}
}

func textJSON(v any) *mcp.CallToolResult {
	encoded, err := json.Marshal(v)
	if err != nil {
		envelope, _ := json.Marshal(xrayerrors.Envelope{
			ErrorMessage: "failed to encode tool result: " + err.Error(),
			Type:         string(xrayerrors.KindGraphQL),
		})
		encoded = envelope
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(encoded)),
		},
	}
}

// structuredArg reads an argument that may arrive either as a parsed JSON
// object or as a JSON-encoded string (some clients stringify complex
// arguments). Absent arguments return nil; malformed strings are a
// ValidationError.
func structuredArg(request mcp.CallToolRequest, key string) (map[string]any, error) {
	value, present := request.GetArguments()[key]
	if !present || value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "%s is not valid JSON: %v", key, err)
		}
		return parsed, nil
	}

	return nil, xrayerrors.New(xrayerrors.KindValidation, "%s must be a JSON object or a JSON-encoded string", key)
}

// stepsArg reads a test-step list in either parsed or JSON-string form.
func stepsArg(request mcp.CallToolRequest, key string) ([]xray.TestStep, error) {
	value, present := request.GetArguments()[key]
	if !present || value == nil {
		return nil, nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		raw = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "%s must be a list of step objects", key)
		}
		raw = encoded
	}

	var steps []xray.TestStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "%s is not a valid step list: %v", key, err)
	}
	return steps, nil
}

// optString returns a pointer for an argument only when the caller supplied
// it, so handlers can distinguish "absent" from "empty".
func optString(request mcp.CallToolRequest, key string) *string {
	value, present := request.GetArguments()[key]
	if !present {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func handleGetTest(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetTest(ctx, issueID)
	}
}

func handleGetTests(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		jql := request.GetString("jql", "")
		limit := request.GetInt("limit", 100)
		return service.GetTests(ctx, jql, limit)
	}
}

func handleGetExpandedTest(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		versionID := request.GetInt("version_id", 0)
		return service.GetExpandedTest(ctx, issueID, versionID)
	}
}

func handleCreateTest(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil || projectKey == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key parameter is required")
		}
		summary, err := request.RequireString("summary")
		if err != nil || summary == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "summary parameter is required")
		}

		steps, err := stepsArg(request, "steps")
		if err != nil {
			return nil, err
		}

		return service.CreateTest(ctx,
			projectKey,
			summary,
			request.GetString("test_type", ""),
			request.GetString("description", ""),
			steps,
			request.GetString("gherkin", ""),
			request.GetString("unstructured", ""),
		)
	}
}

func handleUpdateTest(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}

		steps, err := stepsArg(request, "steps")
		if err != nil {
			return nil, err
		}
		jiraFields, err := structuredArg(request, "jira_fields")
		if err != nil {
			return nil, err
		}

		update := xray.TestUpdate{
			TestType:     optString(request, "test_type"),
			Gherkin:      optString(request, "gherkin"),
			Unstructured: optString(request, "unstructured"),
			Steps:        steps,
			JiraFields:   jiraFields,
			VersionID:    request.GetInt("version_id", 0),
		}
		return service.UpdateTest(ctx, issueID, update)
	}
}

func handleDeleteTest(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.DeleteTest(ctx, issueID)
	}
}

func handleUpdateTestType(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		testType, err := request.RequireString("test_type")
		if err != nil || testType == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "test_type parameter is required")
		}
		return service.UpdateTestType(ctx, issueID, testType)
	}
}

func handleUpdateGherkinDefinition(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		gherkinText, err := request.RequireString("gherkin_text")
		if err != nil || gherkinText == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "gherkin_text parameter is required")
		}
		return service.UpdateGherkinDefinition(ctx, issueID, gherkinText)
	}
}

package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func handleGetTestExecution(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetTestExecution(ctx, issueID)
	}
}

func handleGetTestExecutions(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		jql := request.GetString("jql", "")
		limit := request.GetInt("limit", 100)
		return service.GetTestExecutions(ctx, jql, limit)
	}
}

func handleCreateTestExecution(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil || projectKey == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key parameter is required")
		}
		summary, err := request.RequireString("summary")
		if err != nil || summary == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "summary parameter is required")
		}
		return service.CreateTestExecution(ctx,
			projectKey,
			summary,
			request.GetString("description", ""),
			request.GetStringSlice("test_issue_ids", nil),
			request.GetStringSlice("test_environments", nil),
		)
	}
}

func handleDeleteTestExecution(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.DeleteTestExecution(ctx, issueID)
	}
}

func handleAddTestsToExecution(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		executionID, err := request.RequireString("execution_issue_id")
		if err != nil || executionID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "execution_issue_id parameter is required")
		}
		return service.AddTestsToExecution(ctx, executionID, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleRemoveTestsFromExecution(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		executionID, err := request.RequireString("execution_issue_id")
		if err != nil || executionID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "execution_issue_id parameter is required")
		}
		return service.RemoveTestsFromExecution(ctx, executionID, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleAddTestEnvironments(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		executionID, err := request.RequireString("execution_issue_id")
		if err != nil || executionID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "execution_issue_id parameter is required")
		}
		return service.AddTestEnvironments(ctx, executionID, request.GetStringSlice("test_environments", nil))
	}
}

func handleRemoveTestEnvironments(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		executionID, err := request.RequireString("execution_issue_id")
		if err != nil || executionID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "execution_issue_id parameter is required")
		}
		return service.RemoveTestEnvironments(ctx, executionID, request.GetStringSlice("test_environments", nil))
	}
}

func handleGetTestRun(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		testRunID, err := request.RequireString("test_run_id")
		if err != nil || testRunID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id parameter is required")
		}
		return service.GetTestRun(ctx, testRunID)
	}
}

func handleGetTestRuns(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return service.GetTestRuns(ctx,
			request.GetStringSlice("test_issue_ids", nil),
			request.GetStringSlice("test_exec_issue_ids", nil),
			request.GetInt("limit", 100),
		)
	}
}

func handleUpdateTestRunStatus(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		testRunID, err := request.RequireString("test_run_id")
		if err != nil || testRunID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id parameter is required")
		}
		status, err := request.RequireString("status")
		if err != nil || status == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "status parameter is required")
		}
		return service.UpdateTestRunStatus(ctx, testRunID, status)
	}
}

func handleUpdateTestRun(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		testRunID, err := request.RequireString("test_run_id")
		if err != nil || testRunID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id parameter is required")
		}
		update := xray.TestRunUpdate{
			Comment:      optString(request, "comment"),
			StartedOn:    optString(request, "started_on"),
			FinishedOn:   optString(request, "finished_on"),
			AssigneeID:   optString(request, "assignee_id"),
			ExecutedByID: optString(request, "executed_by_id"),
		}
		return service.UpdateTestRun(ctx, testRunID, update)
	}
}

func handleResetTestRun(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		testRunID, err := request.RequireString("test_run_id")
		if err != nil || testRunID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id parameter is required")
		}
		return service.ResetTestRun(ctx, testRunID)
	}
}

package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func handleGetTestPlan(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetTestPlan(ctx, issueID)
	}
}

func handleGetTestPlans(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return service.GetTestPlans(ctx, request.GetString("jql", ""), request.GetInt("limit", 100))
	}
}

func handleCreateTestPlan(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil || projectKey == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key parameter is required")
		}
		summary, err := request.RequireString("summary")
		if err != nil || summary == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "summary parameter is required")
		}
		return service.CreateTestPlan(ctx,
			projectKey,
			summary,
			request.GetString("description", ""),
			request.GetStringSlice("test_issue_ids", nil),
		)
	}
}

func handleDeleteTestPlan(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.DeleteTestPlan(ctx, issueID)
	}
}

func handleAddTestsToPlan(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		planID, err := request.RequireString("plan_issue_id")
		if err != nil || planID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "plan_issue_id parameter is required")
		}
		return service.AddTestsToPlan(ctx, planID, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleRemoveTestsFromPlan(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		planID, err := request.RequireString("plan_issue_id")
		if err != nil || planID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "plan_issue_id parameter is required")
		}
		return service.RemoveTestsFromPlan(ctx, planID, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleGetTestSet(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetTestSet(ctx, issueID)
	}
}

func handleGetTestSets(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return service.GetTestSets(ctx, request.GetString("jql", ""), request.GetInt("limit", 100))
	}
}

func handleCreateTestSet(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil || projectKey == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key parameter is required")
		}
		summary, err := request.RequireString("summary")
		if err != nil || summary == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "summary parameter is required")
		}
		return service.CreateTestSet(ctx,
			projectKey,
			summary,
			request.GetString("description", ""),
			request.GetStringSlice("test_issue_ids", nil),
		)
	}
}

func handleDeleteTestSet(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.DeleteTestSet(ctx, issueID)
	}
}

func handleAddTestsToSet(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		setID, err := request.RequireString("set_issue_id")
		if err != nil || setID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "set_issue_id parameter is required")
		}
		return service.AddTestsToSet(ctx, setID, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleRemoveTestsFromSet(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		setID, err := request.RequireString("set_issue_id")
		if err != nil || setID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "set_issue_id parameter is required")
		}
		return service.RemoveTestsFromSet(ctx, setID, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleGetPreconditions(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetPreconditions(ctx, issueID, request.GetInt("start", 0), request.GetInt("limit", 100))
	}
}

func handleCreatePrecondition(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil || projectKey == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key parameter is required")
		}
		summary, err := request.RequireString("summary")
		if err != nil || summary == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "summary parameter is required")
		}
		definition, err := request.RequireString("definition")
		if err != nil || definition == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "definition parameter is required")
		}
		return service.CreatePrecondition(ctx,
			projectKey,
			summary,
			request.GetString("precondition_type", ""),
			definition,
			request.GetString("test_issue_id", ""),
		)
	}
}

func handleUpdatePrecondition(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		preconditionID, err := request.RequireString("precondition_id")
		if err != nil || preconditionID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "precondition_id parameter is required")
		}
		updates, err := structuredArg(request, "updates")
		if err != nil {
			return nil, err
		}
		return service.UpdatePrecondition(ctx, preconditionID, updates)
	}
}

func handleDeletePrecondition(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		preconditionID, err := request.RequireString("precondition_id")
		if err != nil || preconditionID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "precondition_id parameter is required")
		}
		return service.DeletePrecondition(ctx, preconditionID)
	}
}

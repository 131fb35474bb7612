package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func handleGetTestStatus(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetTestStatus(ctx,
			issueID,
			request.GetString("environment", ""),
			request.GetString("version", ""),
			request.GetString("test_plan", ""),
		)
	}
}

func handleGetCoverableIssues(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return service.GetCoverableIssues(ctx, request.GetString("jql", ""), request.GetInt("limit", 100))
	}
}

func handleGetXrayHistory(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetXrayHistory(ctx,
			issueID,
			request.GetString("test_plan_id", ""),
			request.GetString("test_env_id", ""),
			request.GetInt("start", 0),
			request.GetInt("limit", 100),
		)
	}
}

func handleGetFolderContents(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		projectID, err := request.RequireString("project_id")
		if err != nil || projectID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "project_id parameter is required")
		}
		return service.GetFolderContents(ctx, projectID, request.GetString("folder_path", "/"))
	}
}

func handleMoveTestToFolder(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		folderPath, err := request.RequireString("folder_path")
		if err != nil || folderPath == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "folder_path parameter is required")
		}
		return service.MoveTestToFolder(ctx, issueID, folderPath)
	}
}

func handleGetDataset(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		testIssueID, err := request.RequireString("test_issue_id")
		if err != nil || testIssueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_id parameter is required")
		}
		return service.GetDataset(ctx, testIssueID)
	}
}

func handleGetDatasets(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return service.GetDatasets(ctx, request.GetStringSlice("test_issue_ids", nil))
	}
}

func handleGetTestVersions(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.GetTestVersions(ctx, issueID)
	}
}

func handleArchiveTestVersion(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.ArchiveTestVersion(ctx, issueID, request.GetInt("version_id", 0))
	}
}

func handleRestoreTestVersion(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.RestoreTestVersion(ctx, issueID, request.GetInt("version_id", 0))
	}
}

func handleCreateTestVersionFrom(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		issueID, err := request.RequireString("issue_id")
		if err != nil || issueID == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "issue_id parameter is required")
		}
		return service.CreateTestVersionFrom(ctx, issueID, request.GetInt("source_version_id", 0))
	}
}

func handleExecuteJQLQuery(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		jql, err := request.RequireString("jql")
		if err != nil || jql == "" {
			return nil, xrayerrors.New(xrayerrors.KindValidation, "jql parameter is required")
		}
		return service.ExecuteJQLQuery(ctx,
			jql,
			request.GetString("entity_type", "test"),
			request.GetInt("limit", 100),
		)
	}
}

func handleValidateConnection(service *xray.Service) toolFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (any, error) {
		return service.ValidateConnection(ctx)
	}
}

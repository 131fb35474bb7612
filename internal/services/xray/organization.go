package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getFolderQuery = `
query GetFolder($projectId: String!, $path: String!) {
	getFolder(projectId: $projectId, path: $path) {
		name
		path
		testsCount
		issuesCount
		preconditionsCount
		folders
	}
}`

const updateTestFolderMutation = `
mutation UpdateTestFolder($issueId: String!, $folderPath: String!) {
	updateTestFolder(issueId: $issueId, folderPath: $folderPath)
}`

const getDatasetQuery = `
query GetDataset($testIssueId: String!) {
	getDataset(testIssueId: $testIssueId) {
		id
		testIssueId
		testExecIssueId
		testPlanIssueId
		parameters {
			name
			type
			listValues
		}
		rows {
			order
			Values
		}
	}
}`

const getDatasetsQuery = `
query GetDatasets($testIssueIds: [String!]!) {
	getDatasets(testIssueIds: $testIssueIds) {
		id
		testIssueId
		testExecIssueId
		testPlanIssueId
		parameters {
			name
			type
			listValues
		}
		rows {
			order
			Values
		}
	}
}`

// GetFolderContents retrieves a test repository folder and its counters.
func (s *Service) GetFolderContents(ctx context.Context, projectID, folderPath string) (map[string]any, error) {
	if projectID == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "project_id is required")
	}
	if folderPath == "" {
		folderPath = "/"
	}

	variables := map[string]any{"projectId": projectID, "path": folderPath}

	data, err := s.client.Execute(ctx, getFolderQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getFolder", "folder "+folderPath)
}

// MoveTestToFolder moves a test to a different test repository folder.
func (s *Service) MoveTestToFolder(ctx context.Context, issueID, folderPath string) (map[string]any, error) {
	if folderPath == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "folder_path is required")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved, "folderPath": folderPath}

	if _, err := s.client.Execute(ctx, updateTestFolderMutation, variables); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "movedTestId": issueID, "newFolderPath": folderPath}, nil
}

// GetDataset retrieves the data-driven dataset attached to a test.
func (s *Service) GetDataset(ctx context.Context, testIssueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, testIssueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getDatasetQuery, map[string]any{"testIssueId": resolved})
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getDataset", "dataset for test "+testIssueID)
}

// GetDatasets retrieves datasets for multiple tests at once.
func (s *Service) GetDatasets(ctx context.Context, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolved, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getDatasetsQuery, map[string]any{"testIssueIds": resolved})
	if err != nil {
		return nil, err
	}

	return map[string]any{"datasets": dataValue(data, "getDatasets")}, nil
}

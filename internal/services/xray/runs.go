package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getTestRunQuery = `
query GetTestRunById($id: String!) {
	getTestRunById(id: $id) {
		id
		status {
			name
			color
			description
		}
		gherkin
		scenarioType
		comment
		startedOn
		finishedOn
		executedById
		assigneeId
		evidence
		defects
		unstructured
		testType {
			name
		}
		steps {
			id
			action
			data
			result
			status {
				name
				color
			}
			comment
			actualResult
		}
		test {
			issueId
			jira(fields: ["key", "summary"])
		}
		testExecution {
			issueId
			jira(fields: ["key", "summary"])
		}
	}
}`

const getTestRunsQuery = `
query GetTestRuns($testIssueIds: [String], $testExecIssueIds: [String], $limit: Int!) {
	getTestRuns(testIssueIds: $testIssueIds, testExecIssueIds: $testExecIssueIds, limit: $limit) {
		total
		start
		limit
		results {
			id
			status {
				name
				color
				description
			}
			gherkin
			scenarioType
			comment
			startedOn
			finishedOn
			executedById
			assigneeId
			test {
				issueId
				jira(fields: ["key", "summary"])
			}
			testExecution {
				issueId
				jira(fields: ["key", "summary"])
			}
		}
	}
}`

const updateTestRunStatusMutation = `
mutation UpdateTestRunStatus($id: String!, $status: String!) {
	updateTestRunStatus(id: $id, status: $status)
}`

const updateTestRunMutation = `
mutation UpdateTestRun(
	$id: String!,
	$comment: String,
	$startedOn: String,
	$finishedOn: String,
	$assigneeId: String,
	$executedById: String
) {
	updateTestRun(
		id: $id,
		comment: $comment,
		startedOn: $startedOn,
		finishedOn: $finishedOn,
		assigneeId: $assigneeId,
		executedById: $executedById
	) {
		warnings
	}
}`

const resetTestRunMutation = `
mutation ResetTestRun($id: String!) {
	resetTestRun(id: $id)
}`

// TestRunUpdate carries the optional fields of UpdateTestRun. Nil pointers
// are omitted from the mutation variables so the upstream leaves those
// fields untouched.
type TestRunUpdate struct {
	Comment      *string
	StartedOn    *string
	FinishedOn   *string
	AssigneeID   *string
	ExecutedByID *string
}

// GetTestRun retrieves a test run by its internal run ID.
func (s *Service) GetTestRun(ctx context.Context, testRunID string) (map[string]any, error) {
	if testRunID == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id is required")
	}

	data, err := s.client.Execute(ctx, getTestRunQuery, map[string]any{"id": testRunID})
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTestRunById", "test run "+testRunID)
}

// GetTestRuns retrieves runs filtered by test and/or execution issue IDs.
func (s *Service) GetTestRuns(ctx context.Context, testIssueIDs, testExecIssueIDs []string, limit int) (map[string]any, error) {
	if len(testIssueIDs) == 0 && len(testExecIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "at least one of test_issue_ids or test_exec_issue_ids is required")
	}

	variables := map[string]any{"limit": clampLimit(limit, 100)}
	if len(testIssueIDs) > 0 {
		resolved, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
		if err != nil {
			return nil, err
		}
		variables["testIssueIds"] = resolved
	}
	if len(testExecIssueIDs) > 0 {
		resolved, err := s.resolver.ResolveAll(ctx, testExecIssueIDs, models.KindTestExecution)
		if err != nil {
			return nil, err
		}
		variables["testExecIssueIds"] = resolved
	}

	data, err := s.client.Execute(ctx, getTestRunsQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataPage(data, "getTestRuns")
}

// UpdateTestRunStatus sets the status of a test run (e.g. PASSED, FAILED).
func (s *Service) UpdateTestRunStatus(ctx context.Context, testRunID, status string) (map[string]any, error) {
	if testRunID == "" || status == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id and status are required")
	}

	variables := map[string]any{"id": testRunID, "status": status}

	if _, err := s.client.Execute(ctx, updateTestRunStatusMutation, variables); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "testRunId": testRunID, "status": status}, nil
}

// UpdateTestRun updates execution metadata of a test run.
func (s *Service) UpdateTestRun(ctx context.Context, testRunID string, update TestRunUpdate) (map[string]any, error) {
	if testRunID == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id is required")
	}

	variables := map[string]any{"id": testRunID}
	if update.Comment != nil {
		variables["comment"] = *update.Comment
	}
	if update.StartedOn != nil {
		variables["startedOn"] = *update.StartedOn
	}
	if update.FinishedOn != nil {
		variables["finishedOn"] = *update.FinishedOn
	}
	if update.AssigneeID != nil {
		variables["assigneeId"] = *update.AssigneeID
	}
	if update.ExecutedByID != nil {
		variables["executedById"] = *update.ExecutedByID
	}

	data, err := s.client.Execute(ctx, updateTestRunMutation, variables)
	if err != nil {
		return nil, err
	}

	result := map[string]any{"success": true, "testRunId": testRunID}
	if updated, ok := data["updateTestRun"].(map[string]any); ok {
		result["warnings"] = updated["warnings"]
	}
	return result, nil
}

// ResetTestRun clears a run back to its unexecuted state.
func (s *Service) ResetTestRun(ctx context.Context, testRunID string) (map[string]any, error) {
	if testRunID == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_run_id is required")
	}

	if _, err := s.client.Execute(ctx, resetTestRunMutation, map[string]any{"id": testRunID}); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "testRunId": testRunID}, nil
}

package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getTestExecutionQuery = `
query GetTestExecution($issueId: String!) {
	getTestExecution(issueId: $issueId) {
		issueId
		tests(limit: 100) {
			total
			start
			limit
			results {
				issueId
				testType {
					name
				}
			}
		}
		jira(fields: ["key", "summary", "assignee", "reporter", "status", "priority"])
	}
}`

const getTestExecutionsQuery = `
query GetTestExecutions($jql: String, $limit: Int!) {
	getTestExecutions(jql: $jql, limit: $limit) {
		total
		start
		limit
		results {
			issueId
			tests(limit: 10) {
				total
				start
				limit
				results {
					issueId
					testType {
						name
					}
				}
			}
			jira(fields: ["key", "summary", "assignee", "status"])
		}
	}
}`

const createTestExecutionMutation = `
mutation CreateTestExecution($testIssueIds: [String!], $testEnvironments: [String!], $jira: JSON!) {
	createTestExecution(testIssueIds: $testIssueIds, testEnvironments: $testEnvironments, jira: $jira) {
		testExecution {
			issueId
			jira(fields: ["key", "summary"])
		}
		warnings
		createdTestEnvironments
	}
}`

const deleteTestExecutionMutation = `
mutation DeleteTestExecution($issueId: String!) {
	deleteTestExecution(issueId: $issueId)
}`

const addTestsToExecutionMutation = `
mutation AddTestsToTestExecution($issueId: String!, $testIssueIds: [String!]!) {
	addTestsToTestExecution(issueId: $issueId, testIssueIds: $testIssueIds) {
		addedTests
		warning
	}
}`

const removeTestsFromExecutionMutation = `
mutation RemoveTestsFromTestExecution($issueId: String!, $testIssueIds: [String!]!) {
	removeTestsFromTestExecution(issueId: $issueId, testIssueIds: $testIssueIds)
}`

const addTestEnvironmentsMutation = `
mutation AddTestEnvironmentsToTestExecution($issueId: String!, $testEnvironments: [String!]!) {
	addTestEnvironmentsToTestExecution(issueId: $issueId, testEnvironments: $testEnvironments) {
		associatedTestEnvironments
		createdTestEnvironments
	}
}`

const removeTestEnvironmentsMutation = `
mutation RemoveTestEnvironmentsFromTestExecution($issueId: String!, $testEnvironments: [String!]!) {
	removeTestEnvironmentsFromTestExecution(issueId: $issueId, testEnvironments: $testEnvironments)
}`

// GetTestExecution retrieves a single test execution with its tests.
func (s *Service) GetTestExecution(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTestExecution)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getTestExecutionQuery, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTestExecution", "test execution "+issueID)
}

// GetTestExecutions retrieves executions, optionally filtered by JQL.
func (s *Service) GetTestExecutions(ctx context.Context, jql string, limit int) (map[string]any, error) {
	variables := map[string]any{"limit": clampLimit(limit, 100)}
	if jql != "" {
		validated, err := ValidateJQL(jql)
		if err != nil {
			return nil, err
		}
		variables["jql"] = validated
	}

	data, err := s.client.Execute(ctx, getTestExecutionsQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataPage(data, "getTestExecutions")
}

// CreateTestExecution creates an execution, optionally pre-populated with
// tests and environments.
func (s *Service) CreateTestExecution(ctx context.Context, projectKey, summary, description string, testIssueIDs, testEnvironments []string) (map[string]any, error) {
	if projectKey == "" || summary == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key and summary are required to create a test execution")
	}

	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":   map[string]any{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]any{"name": "Test Execution"},
	}
	if description != "" {
		fields["description"] = description
	}

	variables := map[string]any{
		"testIssueIds":     resolvedTests,
		"testEnvironments": emptyIfNil(testEnvironments),
		"jira":             map[string]any{"fields": fields},
	}

	data, err := s.client.Execute(ctx, createTestExecutionMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "createTestExecution", "created test execution")
}

// DeleteTestExecution permanently deletes a test execution.
func (s *Service) DeleteTestExecution(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTestExecution)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, deleteTestExecutionMutation, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return map[string]any{"success": dataValue(data, "deleteTestExecution"), "issueId": issueID}, nil
}

// AddTestsToExecution adds tests to an existing execution. The execution key
// resolves with a TestExecution hint so non-Test keys resolve on the first
// lookup.
func (s *Service) AddTestsToExecution(ctx context.Context, executionIssueID string, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolvedExecution, err := s.resolver.Resolve(ctx, executionIssueID, models.KindTestExecution)
	if err != nil {
		return nil, err
	}
	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedExecution, "testIssueIds": resolvedTests}

	data, err := s.client.Execute(ctx, addTestsToExecutionMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "addTestsToTestExecution", "test execution "+executionIssueID)
}

// RemoveTestsFromExecution removes tests from an execution.
func (s *Service) RemoveTestsFromExecution(ctx context.Context, executionIssueID string, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolvedExecution, err := s.resolver.Resolve(ctx, executionIssueID, models.KindTestExecution)
	if err != nil {
		return nil, err
	}
	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedExecution, "testIssueIds": resolvedTests}

	if _, err := s.client.Execute(ctx, removeTestsFromExecutionMutation, variables); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "executionId": executionIssueID, "removedTestIds": testIssueIDs}, nil
}

// AddTestEnvironments associates environments with an execution.
func (s *Service) AddTestEnvironments(ctx context.Context, executionIssueID string, testEnvironments []string) (map[string]any, error) {
	if len(testEnvironments) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_environments cannot be empty")
	}

	resolvedExecution, err := s.resolver.Resolve(ctx, executionIssueID, models.KindTestExecution)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedExecution, "testEnvironments": testEnvironments}

	data, err := s.client.Execute(ctx, addTestEnvironmentsMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "addTestEnvironmentsToTestExecution", "test execution "+executionIssueID)
}

// RemoveTestEnvironments removes environment associations from an execution.
func (s *Service) RemoveTestEnvironments(ctx context.Context, executionIssueID string, testEnvironments []string) (map[string]any, error) {
	if len(testEnvironments) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_environments cannot be empty")
	}

	resolvedExecution, err := s.resolver.Resolve(ctx, executionIssueID, models.KindTestExecution)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedExecution, "testEnvironments": testEnvironments}

	if _, err := s.client.Execute(ctx, removeTestEnvironmentsMutation, variables); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "executionId": executionIssueID, "removedEnvironments": testEnvironments}, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

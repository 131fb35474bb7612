package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getTestSetQuery = `
query GetTestSet($issueId: String!) {
	getTestSet(issueId: $issueId) {
		issueId
		projectId
		jira(fields: ["key", "summary", "description", "status", "priority", "labels", "created", "updated"])
		tests(limit: 100) {
			total
			results {
				issueId
				testType {
					name
				}
				jira(fields: ["key", "summary"])
			}
		}
	}
}`

const getTestSetsQuery = `
query GetTestSets($jql: String, $limit: Int!) {
	getTestSets(jql: $jql, limit: $limit) {
		total
		start
		limit
		results {
			issueId
			projectId
			jira(fields: ["key", "summary", "description", "status", "priority", "labels", "created", "updated"])
		}
	}
}`

const createTestSetMutation = `
mutation CreateTestSet($jira: JSON!, $testIssueIds: [String]) {
	createTestSet(jira: $jira, testIssueIds: $testIssueIds) {
		testSet {
			issueId
			jira(fields: ["key", "summary"])
		}
		warnings
	}
}`

const deleteTestSetMutation = `
mutation DeleteTestSet($issueId: String!) {
	deleteTestSet(issueId: $issueId)
}`

const addTestsToSetMutation = `
mutation AddTestsToTestSet($issueId: String!, $testIssueIds: [String!]!) {
	addTestsToTestSet(issueId: $issueId, testIssueIds: $testIssueIds) {
		addedTests
		warning
	}
}`

const removeTestsFromSetMutation = `
mutation RemoveTestsFromTestSet($issueId: String!, $testIssueIds: [String!]!) {
	removeTestsFromTestSet(issueId: $issueId, testIssueIds: $testIssueIds)
}`

// GetTestSet retrieves a single test set with its tests.
func (s *Service) GetTestSet(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTestSet)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getTestSetQuery, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTestSet", "test set "+issueID)
}

// GetTestSets retrieves test sets, optionally filtered by JQL.
func (s *Service) GetTestSets(ctx context.Context, jql string, limit int) (map[string]any, error) {
	variables := map[string]any{"limit": clampLimit(limit, 100)}
	if jql != "" {
		validated, err := ValidateJQL(jql)
		if err != nil {
			return nil, err
		}
		variables["jql"] = validated
	}

	data, err := s.client.Execute(ctx, getTestSetsQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataPage(data, "getTestSets")
}

// CreateTestSet creates a test set, optionally pre-populated with tests.
func (s *Service) CreateTestSet(ctx context.Context, projectKey, summary, description string, testIssueIDs []string) (map[string]any, error) {
	if projectKey == "" || summary == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key and summary are required to create a test set")
	}

	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":   map[string]any{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]any{"name": "Test Set"},
	}
	if description != "" {
		fields["description"] = description
	}

	variables := map[string]any{
		"jira":         map[string]any{"fields": fields},
		"testIssueIds": resolvedTests,
	}

	data, err := s.client.Execute(ctx, createTestSetMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "createTestSet", "created test set")
}

// DeleteTestSet deletes a test set; its tests are unaffected.
func (s *Service) DeleteTestSet(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTestSet)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, deleteTestSetMutation, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return map[string]any{"success": dataValue(data, "deleteTestSet"), "deletedTestSetId": issueID}, nil
}

// AddTestsToSet associates tests with a test set.
func (s *Service) AddTestsToSet(ctx context.Context, setIssueID string, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolvedSet, err := s.resolver.Resolve(ctx, setIssueID, models.KindTestSet)
	if err != nil {
		return nil, err
	}
	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedSet, "testIssueIds": resolvedTests}

	data, err := s.client.Execute(ctx, addTestsToSetMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "addTestsToTestSet", "test set "+setIssueID)
}

// RemoveTestsFromSet disassociates tests from a test set.
func (s *Service) RemoveTestsFromSet(ctx context.Context, setIssueID string, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolvedSet, err := s.resolver.Resolve(ctx, setIssueID, models.KindTestSet)
	if err != nil {
		return nil, err
	}
	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedSet, "testIssueIds": resolvedTests}

	if _, err := s.client.Execute(ctx, removeTestsFromSetMutation, variables); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "removedTestIds": testIssueIDs}, nil
}

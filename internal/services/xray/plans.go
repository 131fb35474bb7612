package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getTestPlanQuery = `
query GetTestPlan($issueId: String!) {
	getTestPlan(issueId: $issueId) {
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

const getTestPlansQuery = `
query GetTestPlans($jql: String, $limit: Int!) {
	getTestPlans(jql: $jql, limit: $limit) {
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

const createTestPlanMutation = `
mutation CreateTestPlan($jira: JSON!, $testIssueIds: [String]) {
	createTestPlan(jira: $jira, testIssueIds: $testIssueIds) {
		testPlan {
			issueId
			jira(fields: ["key", "summary"])
		}
		warnings
	}
}`

const deleteTestPlanMutation = `
mutation DeleteTestPlan($issueId: String!) {
	deleteTestPlan(issueId: $issueId)
}`

const addTestsToPlanMutation = `
mutation AddTestsToTestPlan($issueId: String!, $testIssueIds: [String!]!) {
	addTestsToTestPlan(issueId: $issueId, testIssueIds: $testIssueIds) {
		addedTests
		warning
	}
}`

const removeTestsFromPlanMutation = `
mutation RemoveTestsFromTestPlan($issueId: String!, $testIssueIds: [String!]!) {
	removeTestsFromTestPlan(issueId: $issueId, testIssueIds: $testIssueIds)
}`

// GetTestPlan retrieves a single test plan with its tests.
func (s *Service) GetTestPlan(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTestPlan)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getTestPlanQuery, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTestPlan", "test plan "+issueID)
}

// GetTestPlans retrieves test plans, optionally filtered by JQL.
func (s *Service) GetTestPlans(ctx context.Context, jql string, limit int) (map[string]any, error) {
	variables := map[string]any{"limit": clampLimit(limit, 100)}
	if jql != "" {
		validated, err := ValidateJQL(jql)
		if err != nil {
			return nil, err
		}
		variables["jql"] = validated
	}

	data, err := s.client.Execute(ctx, getTestPlansQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataPage(data, "getTestPlans")
}

// CreateTestPlan creates a test plan, optionally pre-populated with tests.
func (s *Service) CreateTestPlan(ctx context.Context, projectKey, summary, description string, testIssueIDs []string) (map[string]any, error) {
	if projectKey == "" || summary == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key and summary are required to create a test plan")
	}

	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":   map[string]any{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]any{"name": "Test Plan"},
	}
	if description != "" {
		fields["description"] = description
	}

	variables := map[string]any{
		"jira":         map[string]any{"fields": fields},
		"testIssueIds": resolvedTests,
	}

	data, err := s.client.Execute(ctx, createTestPlanMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "createTestPlan", "created test plan")
}

// DeleteTestPlan deletes a test plan; the tests it contained are unaffected.
func (s *Service) DeleteTestPlan(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTestPlan)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, deleteTestPlanMutation, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return map[string]any{"success": dataValue(data, "deleteTestPlan"), "deletedTestPlanId": issueID}, nil
}

// AddTestsToPlan associates tests with a test plan.
func (s *Service) AddTestsToPlan(ctx context.Context, planIssueID string, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolvedPlan, err := s.resolver.Resolve(ctx, planIssueID, models.KindTestPlan)
	if err != nil {
		return nil, err
	}
	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedPlan, "testIssueIds": resolvedTests}

	data, err := s.client.Execute(ctx, addTestsToPlanMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "addTestsToTestPlan", "test plan "+planIssueID)
}

// RemoveTestsFromPlan disassociates tests from a test plan.
func (s *Service) RemoveTestsFromPlan(ctx context.Context, planIssueID string, testIssueIDs []string) (map[string]any, error) {
	if len(testIssueIDs) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_issue_ids cannot be empty")
	}

	resolvedPlan, err := s.resolver.Resolve(ctx, planIssueID, models.KindTestPlan)
	if err != nil {
		return nil, err
	}
	resolvedTests, err := s.resolver.ResolveAll(ctx, testIssueIDs, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolvedPlan, "testIssueIds": resolvedTests}

	if _, err := s.client.Execute(ctx, removeTestsFromPlanMutation, variables); err != nil {
		return nil, err
	}

	return map[string]any{"success": true, "removedTestIds": testIssueIDs}, nil
}

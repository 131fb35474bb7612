package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
)

const getTestStatusQuery = `
query GetTestStatus(
	$issueId: String!,
	$environment: String,
	$version: String,
	$testPlan: String
) {
	getTest(issueId: $issueId) {
		issueId
		status(
			environment: $environment,
			version: $version,
			testPlan: $testPlan
		) {
			name
			color
		}
		testType {
			name
		}
		jira(fields: ["key", "summary"])
	}
}`

const getCoverableIssuesQuery = `
query GetCoverableIssues($jql: String, $limit: Int!) {
	getCoverableIssues(jql: $jql, limit: $limit) {
		total
		start
		limit
		results {
			issueId
			jira(fields: ["key", "summary", "issuetype", "priority", "assignee", "reporter", "status"])
		}
	}
}`

// GetTestStatus retrieves a test's execution status, optionally scoped to an
// environment, version or test plan.
func (s *Service) GetTestStatus(ctx context.Context, issueID, environment, version, testPlan string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved}
	if environment != "" {
		variables["environment"] = environment
	}
	if version != "" {
		variables["version"] = version
	}
	if testPlan != "" {
		resolvedPlan, err := s.resolver.Resolve(ctx, testPlan, models.KindTestPlan)
		if err != nil {
			return nil, err
		}
		variables["testPlan"] = resolvedPlan
	}

	data, err := s.client.Execute(ctx, getTestStatusQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTest", "test "+issueID)
}

// GetCoverableIssues retrieves requirement-like issues that tests can cover.
func (s *Service) GetCoverableIssues(ctx context.Context, jql string, limit int) (map[string]any, error) {
	variables := map[string]any{"limit": clampLimit(limit, 100)}
	if jql != "" {
		validated, err := ValidateJQL(jql)
		if err != nil {
			return nil, err
		}
		variables["jql"] = validated
	}

	data, err := s.client.Execute(ctx, getCoverableIssuesQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataPage(data, "getCoverableIssues")
}

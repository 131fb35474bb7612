package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
)

const getXrayHistoryQuery = `
query GetXrayHistory(
	$issueId: String!,
	$testPlanId: String,
	$testEnvId: String,
	$start: Int!,
	$limit: Int!
) {
	getTest(issueId: $issueId) {
		history(
			testPlanId: $testPlanId,
			testEnvironmentId: $testEnvId,
			start: $start,
			limit: $limit
		) {
			total
			start
			limit
			results {
				executionId
				testRunId
				status {
					name
					color
				}
				executedBy {
					displayName
				}
				startedOn
				finishedOn
				comment
				testEnvironments
				version
			}
		}
	}
}`

// GetXrayHistory retrieves a test's execution history, optionally scoped to
// a test plan and/or environment.
func (s *Service) GetXrayHistory(ctx context.Context, issueID, testPlanID, testEnvironmentID string, start, limit int) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{
		"issueId": resolved,
		"start":   max(start, 0),
		"limit":   clampLimit(limit, 100),
	}
	if testPlanID != "" {
		resolvedPlan, err := s.resolver.Resolve(ctx, testPlanID, models.KindTestPlan)
		if err != nil {
			return nil, err
		}
		variables["testPlanId"] = resolvedPlan
	}
	if testEnvironmentID != "" {
		variables["testEnvId"] = testEnvironmentID
	}

	data, err := s.client.Execute(ctx, getXrayHistoryQuery, variables)
	if err != nil {
		return nil, err
	}

	test, err := dataObject(data, "getTest", "test "+issueID)
	if err != nil {
		return nil, err
	}
	return dataPage(test, "history")
}

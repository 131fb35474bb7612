package xray

import (
	"context"
	"strings"
	"time"

	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const executeTestJQLQuery = `
query ExecuteTestJQL($jql: String!, $limit: Int!) {
	getTests(jql: $jql, limit: $limit) {
		total
		start
		limit
		results {
			issueId
			testType {
				name
			}
			jira(fields: ["key", "summary", "status", "assignee"])
		}
	}
}`

const executeTestExecutionJQLQuery = `
query ExecuteTestExecutionJQL($jql: String!, $limit: Int!) {
	getTestExecutions(jql: $jql, limit: $limit) {
		total
		start
		limit
		results {
			issueId
			jira(fields: ["key", "summary", "status", "assignee"])
		}
	}
}`

const validateConnectionQuery = `
query ValidateConnection {
	getTests(limit: 1) {
		total
	}
}`

// ExecuteJQLQuery runs a validated ad-hoc JQL query against the given entity
// type ("test" or "testexecution").
func (s *Service) ExecuteJQLQuery(ctx context.Context, jql, entityType string, limit int) (map[string]any, error) {
	if jql == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "jql is required")
	}

	validated, err := ValidateJQL(jql)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"jql": validated, "limit": clampLimit(limit, 100)}

	switch strings.ToLower(entityType) {
	case "", "test":
		data, err := s.client.Execute(ctx, executeTestJQLQuery, variables)
		if err != nil {
			return nil, err
		}
		return dataPage(data, "getTests")

	case "testexecution":
		data, err := s.client.Execute(ctx, executeTestExecutionJQLQuery, variables)
		if err != nil {
			return nil, err
		}
		return dataPage(data, "getTestExecutions")
	}

	return nil, xrayerrors.New(xrayerrors.KindValidation, "unsupported entity type: %s", entityType)
}

// ValidateConnection issues a minimal query to confirm credentials and
// connectivity.
func (s *Service) ValidateConnection(ctx context.Context) (map[string]any, error) {
	start := time.Now()

	if _, err := s.client.Execute(ctx, validateConnectionQuery, nil); err != nil {
		return nil, err
	}

	return map[string]any{
		"status":         "connected",
		"responseTimeMs": time.Since(start).Milliseconds(),
	}, nil
}

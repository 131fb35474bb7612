package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getPreconditionsQuery = `
query GetPreconditions($issueId: String!, $start: Int!, $limit: Int!) {
	getTest(issueId: $issueId) {
		preconditions(start: $start, limit: $limit) {
			total
			start
			limit
			results {
				issueId
				projectId
				definition
				preconditionType {
					name
					kind
				}
				jira(fields: ["key", "summary", "status", "priority", "labels", "created", "updated"])
			}
		}
	}
}`

const createPreconditionMutation = `
mutation CreatePrecondition($preconditionType: PreconditionTypeInput!, $definition: String!, $jira: JSON!) {
	createPrecondition(preconditionType: $preconditionType, definition: $definition, jira: $jira) {
		precondition {
			issueId
			preconditionType {
				name
				kind
			}
			definition
			jira(fields: ["key", "summary"])
		}
		warnings
	}
}`

const addPreconditionsToTestMutation = `
mutation AddPreconditionsToTest($issueId: String!, $preconditionIssueIds: [String!]!) {
	addPreconditionsToTest(issueId: $issueId, preconditionIssueIds: $preconditionIssueIds) {
		addedPreconditions
		warning
	}
}`

const updatePreconditionMutation = `
mutation UpdatePrecondition($issueId: String!, $data: UpdatePreconditionInput!) {
	updatePrecondition(issueId: $issueId, data: $data) {
		issueId
		preconditionType {
			name
			kind
		}
		definition
		jira(fields: ["key", "summary", "updated"])
	}
}`

const deletePreconditionMutation = `
mutation DeletePrecondition($preconditionId: String!) {
	deletePrecondition(issueId: $preconditionId)
}`

// GetPreconditions retrieves the preconditions attached to a test.
func (s *Service) GetPreconditions(ctx context.Context, testIssueID string, start, limit int) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, testIssueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{
		"issueId": resolved,
		"start":   max(start, 0),
		"limit":   clampLimit(limit, 100),
	}

	data, err := s.client.Execute(ctx, getPreconditionsQuery, variables)
	if err != nil {
		return nil, err
	}

	test, err := dataObject(data, "getTest", "test "+testIssueID)
	if err != nil {
		return nil, err
	}
	return dataPage(test, "preconditions")
}

// CreatePrecondition creates a precondition and optionally attaches it to a
// test in the same call.
func (s *Service) CreatePrecondition(ctx context.Context, projectKey, summary, preconditionType, definition, testIssueID string) (map[string]any, error) {
	if projectKey == "" || summary == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key and summary are required to create a precondition")
	}
	if definition == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "definition is required to create a precondition")
	}
	if preconditionType == "" {
		preconditionType = "Manual"
	}

	fields := map[string]any{
		"project":   map[string]any{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]any{"name": "Precondition"},
	}

	variables := map[string]any{
		"preconditionType": map[string]any{"name": preconditionType},
		"definition":       definition,
		"jira":             map[string]any{"fields": fields},
	}

	data, err := s.client.Execute(ctx, createPreconditionMutation, variables)
	if err != nil {
		return nil, err
	}

	created, err := dataObject(data, "createPrecondition", "created precondition")
	if err != nil {
		return nil, err
	}

	if testIssueID == "" {
		return created, nil
	}

	// Attach the new precondition to the requested test.
	precondition, _ := created["precondition"].(map[string]any)
	preconditionID, _ := precondition["issueId"].(string)
	if preconditionID == "" {
		return created, nil
	}

	resolvedTest, err := s.resolver.Resolve(ctx, testIssueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	addVariables := map[string]any{
		"issueId":              resolvedTest,
		"preconditionIssueIds": []string{preconditionID},
	}
	addData, err := s.client.Execute(ctx, addPreconditionsToTestMutation, addVariables)
	if err != nil {
		return nil, err
	}

	created["addedToTest"] = dataValue(addData, "addPreconditionsToTest")
	return created, nil
}

// UpdatePrecondition updates a precondition's type and/or definition.
func (s *Service) UpdatePrecondition(ctx context.Context, preconditionID string, updates map[string]any) (map[string]any, error) {
	if len(updates) == 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "updates cannot be empty")
	}

	resolved, err := s.resolver.Resolve(ctx, preconditionID, models.KindAny)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved, "data": updates}

	data, err := s.client.Execute(ctx, updatePreconditionMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "updatePrecondition", "precondition "+preconditionID)
}

// DeletePrecondition permanently deletes a precondition.
func (s *Service) DeletePrecondition(ctx context.Context, preconditionID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, preconditionID, models.KindAny)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, deletePreconditionMutation, map[string]any{"preconditionId": resolved})
	if err != nil {
		return nil, err
	}

	return map[string]any{"success": dataValue(data, "deletePrecondition"), "preconditionId": preconditionID}, nil
}

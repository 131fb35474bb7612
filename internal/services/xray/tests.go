package xray

import (
	"context"
	"strings"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getTestQuery = `
query GetTest($issueId: String!) {
	getTest(issueId: $issueId) {
		issueId
		testType {
			name
		}
		steps {
			id
			action
			data
			result
			attachments {
				id
				filename
			}
		}
		gherkin
		unstructured
		jira(fields: ["key", "summary", "assignee", "reporter", "status", "priority"])
	}
}`

const getTestsQuery = `
query GetTests($jql: String, $limit: Int!) {
	getTests(jql: $jql, limit: $limit) {
		total
		start
		limit
		results {
			issueId
			testType {
				name
			}
			steps {
				id
				action
				data
				result
				attachments {
					id
					filename
				}
			}
			gherkin
			unstructured
			jira(fields: ["key", "summary", "assignee", "status"])
		}
	}
}`

const getExpandedTestQuery = `
query GetExpandedTest($issueId: String!, $versionId: Int) {
	getTest(issueId: $issueId) {
		issueId
		testType {
			name
			kind
		}
		steps {
			id
			action
			data
			result
			attachments {
				id
				filename
			}
		}
		gherkin
		unstructured
		scenarioType
		folder {
			name
			path
		}
		preconditions(limit: 10) {
			total
			results {
				issueId
				definition
			}
		}
		testVersions(limit: 10) {
			results {
				id
				name
				default
				archived
			}
		}
		jira(fields: ["key", "summary", "description", "assignee", "reporter", "status", "priority", "labels", "created", "updated"])
	}
}`

const deleteTestMutation = `
mutation DeleteTest($issueId: String!) {
	deleteTest(issueId: $issueId)
}`

const updateTestTypeMutation = `
mutation UpdateTestType($issueId: String!, $testType: UpdateTestTypeInput!) {
	updateTestType(issueId: $issueId, testType: $testType) {
		issueId
		testType {
			name
			kind
		}
	}
}`

const updateUnstructuredDefinitionMutation = `
mutation UpdateUnstructuredTestDefinition($issueId: String!, $unstructured: String!, $versionId: Int) {
	updateUnstructuredTestDefinition(issueId: $issueId, unstructured: $unstructured, versionId: $versionId) {
		issueId
		unstructured
	}
}`

const updateGherkinDefinitionMutation = `
mutation UpdateGherkinTestDefinition($issueId: String!, $gherkin: String!) {
	updateGherkinTestDefinition(issueId: $issueId, gherkin: $gherkin) {
		issueId
		gherkin
	}
}`

// TestStep is one manual test step supplied to CreateTest.
type TestStep struct {
	Action string `json:"action"`
	Data   string `json:"data,omitempty"`
	Result string `json:"result"`
}

// GetTest retrieves a single test by issue ID or Jira key.
func (s *Service) GetTest(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getTestQuery, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTest", "test "+issueID)
}

// GetTests retrieves tests, optionally filtered by a validated JQL query.
func (s *Service) GetTests(ctx context.Context, jql string, limit int) (map[string]any, error) {
	variables := map[string]any{"limit": clampLimit(limit, 100)}
	if jql != "" {
		validated, err := ValidateJQL(jql)
		if err != nil {
			return nil, err
		}
		variables["jql"] = validated
	}

	data, err := s.client.Execute(ctx, getTestsQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataPage(data, "getTests")
}

// GetExpandedTest retrieves a test with version detail, folder placement,
// preconditions and the full Jira field projection.
func (s *Service) GetExpandedTest(ctx context.Context, issueID string, versionID int) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved}
	if versionID > 0 {
		variables["versionId"] = versionID
	}

	data, err := s.client.Execute(ctx, getExpandedTestQuery, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "getTest", "test "+issueID)
}

// CreateTest creates a Manual, Cucumber or Generic test. The mutation shape
// depends on the test type: Manual tests carry steps, Cucumber tests carry a
// gherkin scenario, everything else goes through the unstructured field.
func (s *Service) CreateTest(ctx context.Context, projectKey, summary, testType, description string, steps []TestStep, gherkin, unstructured string) (map[string]any, error) {
	if projectKey == "" || summary == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "project_key and summary are required to create a test")
	}
	if testType == "" {
		testType = "Generic"
	}

	fields := map[string]any{
		"project":   map[string]any{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]any{"name": "Test"},
	}
	if description != "" {
		fields["description"] = description
	}

	var mutation string
	variables := map[string]any{
		"testType": map[string]any{"name": testType},
		"fields":   fields,
	}

	switch {
	case strings.EqualFold(testType, "Manual") && len(steps) > 0:
		stepInputs := make([]map[string]any, 0, len(steps))
		for _, step := range steps {
			if step.Action == "" || step.Result == "" {
				return nil, xrayerrors.New(xrayerrors.KindValidation, "each test step must have 'action' and 'result' fields")
			}
			input := map[string]any{"action": step.Action, "result": step.Result}
			if step.Data != "" {
				input["data"] = step.Data
			}
			stepInputs = append(stepInputs, input)
		}
		variables["steps"] = stepInputs
		mutation = `
		mutation CreateTest($testType: UpdateTestTypeInput!, $steps: [CreateStepInput!], $fields: JSON!) {
			createTest(testType: $testType, steps: $steps, jira: { fields: $fields }) {
				test {
					issueId
					testType {
						name
					}
					steps {
						action
						data
						result
					}
					jira(fields: ["key", "summary"])
				}
				warnings
			}
		}`

	case strings.EqualFold(testType, "Manual"):
		mutation = `
		mutation CreateTest($testType: UpdateTestTypeInput!, $fields: JSON!) {
			createTest(testType: $testType, jira: { fields: $fields }) {
				test {
					issueId
					testType {
						name
					}
					steps {
						id
						action
						data
						result
					}
					jira(fields: ["key", "summary"])
				}
				warnings
			}
		}`

	case strings.EqualFold(testType, "Cucumber") && gherkin != "":
		variables["gherkin"] = gherkin
		mutation = `
		mutation CreateTest($testType: UpdateTestTypeInput!, $gherkin: String!, $fields: JSON!) {
			createTest(testType: $testType, gherkin: $gherkin, jira: { fields: $fields }) {
				test {
					issueId
					testType {
						name
					}
					gherkin
					jira(fields: ["key", "summary"])
				}
				warnings
			}
		}`

	default:
		variables["unstructured"] = unstructured
		mutation = `
		mutation CreateTest($testType: UpdateTestTypeInput!, $unstructured: String, $fields: JSON!) {
			createTest(testType: $testType, unstructured: $unstructured, jira: { fields: $fields }) {
				test {
					issueId
					testType {
						name
					}
					unstructured
					jira(fields: ["key", "summary"])
				}
				warnings
			}
		}`
	}

	data, err := s.client.Execute(ctx, mutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "createTest", "created test")
}

// DeleteTest permanently deletes a test issue.
func (s *Service) DeleteTest(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, deleteTestMutation, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	return map[string]any{"success": dataValue(data, "deleteTest"), "issueId": issueID}, nil
}

// UpdateTestType changes a test's type (Manual, Cucumber, Generic).
func (s *Service) UpdateTestType(ctx context.Context, issueID, testType string) (map[string]any, error) {
	if testType == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "test_type is required")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{
		"issueId":  resolved,
		"testType": map[string]any{"name": testType},
	}

	data, err := s.client.Execute(ctx, updateTestTypeMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "updateTestType", "test "+issueID)
}

// TestUpdate carries the optional pieces of UpdateTest. Nil means "leave
// unchanged".
type TestUpdate struct {
	TestType     *string
	Gherkin      *string
	Unstructured *string
	Steps        []TestStep
	JiraFields   map[string]any
	VersionID    int
}

// UpdateTest applies the requested updates in sequence (type first, then
// content) and returns the combined outcome together with the final test
// state. Partial failures are collected rather than aborting the remaining
// updates.
func (s *Service) UpdateTest(ctx context.Context, issueID string, update TestUpdate) (map[string]any, error) {
	if update.TestType == nil && update.Gherkin == nil && update.Unstructured == nil && update.Steps == nil && update.JiraFields == nil {
		return nil, xrayerrors.New(xrayerrors.KindValidation,
			"at least one update parameter must be provided: test_type, gherkin, unstructured, steps, or jira_fields")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	updatedFields := []string{}
	warnings := []string{}
	updateErrors := []string{}

	if update.TestType != nil {
		if _, err := s.UpdateTestType(ctx, resolved, *update.TestType); err != nil {
			updateErrors = append(updateErrors, "test type update failed: "+err.Error())
		} else {
			updatedFields = append(updatedFields, "test_type")
		}
	}

	currentType := ""
	if update.TestType != nil {
		currentType = strings.ToLower(*update.TestType)
	} else if update.Gherkin != nil || update.Unstructured != nil || update.Steps != nil {
		if current, err := s.GetTest(ctx, resolved); err == nil {
			if testType, ok := current["testType"].(map[string]any); ok {
				name, _ := testType["name"].(string)
				currentType = strings.ToLower(name)
			}
		} else {
			updateErrors = append(updateErrors, "could not determine current test type: "+err.Error())
		}
	}

	if update.Gherkin != nil {
		if currentType != "" && currentType != "cucumber" {
			warnings = append(warnings, "gherkin update requested but test type is '"+currentType+"', not Cucumber")
		}
		if _, err := s.UpdateGherkinDefinition(ctx, resolved, *update.Gherkin); err != nil {
			updateErrors = append(updateErrors, "gherkin update failed: "+err.Error())
		} else {
			updatedFields = append(updatedFields, "gherkin")
		}
	}

	if update.Unstructured != nil {
		if currentType != "" && currentType != "generic" {
			warnings = append(warnings, "unstructured update requested but test type is '"+currentType+"', not Generic")
		}
		variables := map[string]any{"issueId": resolved, "unstructured": *update.Unstructured}
		if update.VersionID > 0 {
			variables["versionId"] = update.VersionID
		}
		if _, err := s.client.Execute(ctx, updateUnstructuredDefinitionMutation, variables); err != nil {
			updateErrors = append(updateErrors, "unstructured content update failed: "+err.Error())
		} else {
			updatedFields = append(updatedFields, "unstructured")
		}
	}

	if update.Steps != nil {
		// Step replacement needs per-step mutations against the step IDs of
		// the current version; not supported through this tool.
		warnings = append(warnings, "step updates require individual step management and are not applied by update_test")
	}

	if update.JiraFields != nil {
		// The Xray GraphQL schema has no mutation for Jira fields on an
		// existing test; those go through the Jira REST API.
		warnings = append(warnings, "jira field updates are not supported via the Xray GraphQL API")
	}

	var finalState map[string]any
	if current, err := s.GetTest(ctx, resolved); err == nil {
		finalState = current
	} else {
		warnings = append(warnings, "could not retrieve updated test state: "+err.Error())
	}

	return map[string]any{
		"success":        len(updateErrors) == 0,
		"updated_fields": updatedFields,
		"test":           finalState,
		"warnings":       warnings,
		"errors":         updateErrors,
	}, nil
}

// UpdateGherkinDefinition replaces the Gherkin scenario of a Cucumber test.
func (s *Service) UpdateGherkinDefinition(ctx context.Context, issueID, gherkin string) (map[string]any, error) {
	if strings.TrimSpace(gherkin) == "" {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "gherkin_text cannot be empty")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved, "gherkin": gherkin}

	data, err := s.client.Execute(ctx, updateGherkinDefinitionMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "updateGherkinTestDefinition", "test "+issueID)
}

package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetTestTool returns the get_test tool definition
func createGetTestTool() mcp.Tool {
	return mcp.NewTool("get_test",
		mcp.WithDescription("Retrieve a single Xray test by Jira key or numeric issue ID"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createGetTestsTool returns the get_tests tool definition
func createGetTestsTool() mcp.Tool {
	return mcp.NewTool("get_tests",
		mcp.WithDescription("Retrieve multiple tests, optionally filtered by a JQL query"),
		mcp.WithString("jql",
			mcp.Description("JQL filter (validated against a whitelist before dispatch)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createGetExpandedTestTool returns the get_expanded_test tool definition
func createGetExpandedTestTool() mcp.Tool {
	return mcp.NewTool("get_expanded_test",
		mcp.WithDescription("Retrieve a test with versions, folder, preconditions and full Jira fields"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithNumber("version_id",
			mcp.Description("Specific test version to expand"),
		),
	)
}

// createCreateTestTool returns the create_test tool definition
func createCreateTestTool() mcp.Tool {
	return mcp.NewTool("create_test",
		mcp.WithDescription("Create a new test (Manual, Cucumber or Generic)"),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key, e.g. PROJ"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Test summary"),
		),
		mcp.WithString("test_type",
			mcp.Description("Test type: Manual, Cucumber or Generic (default: Generic)"),
		),
		mcp.WithString("description",
			mcp.Description("Test description"),
		),
		mcp.WithArray("steps",
			mcp.Description("Manual test steps: [{action, result, data?}] (object list or JSON string)"),
		),
		mcp.WithString("gherkin",
			mcp.Description("Gherkin scenario text (Cucumber tests)"),
		),
		mcp.WithString("unstructured",
			mcp.Description("Free-form content (Generic tests)"),
		),
	)
}

// createUpdateTestTool returns the update_test tool definition
func createUpdateTestTool() mcp.Tool {
	return mcp.NewTool("update_test",
		mcp.WithDescription("Update a test's type and gherkin/unstructured content in one call; steps and jira_fields are accepted but not applied (each returns a warning)"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithString("test_type",
			mcp.Description("New test type: Manual, Cucumber or Generic"),
		),
		mcp.WithString("gherkin",
			mcp.Description("New Gherkin scenario (Cucumber tests)"),
		),
		mcp.WithString("unstructured",
			mcp.Description("New unstructured content (Generic tests)"),
		),
		mcp.WithArray("steps",
			mcp.Description("Manual steps (object list or JSON string); not applied, a warning is returned"),
		),
		mcp.WithObject("jira_fields",
			mcp.Description("Jira fields (object or JSON-encoded string); not applied, a warning is returned"),
		),
		mcp.WithNumber("version_id",
			mcp.Description("Specific test version to update"),
		),
	)
}

// createDeleteTestTool returns the delete_test tool definition
func createDeleteTestTool() mcp.Tool {
	return mcp.NewTool("delete_test",
		mcp.WithDescription("Permanently delete a test issue"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createUpdateTestTypeTool returns the update_test_type tool definition
func createUpdateTestTypeTool() mcp.Tool {
	return mcp.NewTool("update_test_type",
		mcp.WithDescription("Change a test's type (Manual, Cucumber, Generic)"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithString("test_type",
			mcp.Required(),
			mcp.Description("New test type name"),
		),
	)
}

// createUpdateGherkinDefinitionTool returns the update_gherkin_definition tool definition
func createUpdateGherkinDefinitionTool() mcp.Tool {
	return mcp.NewTool("update_gherkin_definition",
		mcp.WithDescription("Replace the Gherkin scenario of a Cucumber test"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithString("gherkin_text",
			mcp.Required(),
			mcp.Description("New Gherkin scenario text"),
		),
	)
}

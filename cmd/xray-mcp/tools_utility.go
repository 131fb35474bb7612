package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetTestStatusTool returns the get_test_status tool definition
func createGetTestStatusTool() mcp.Tool {
	return mcp.NewTool("get_test_status",
		mcp.WithDescription("Retrieve a test's execution status, optionally scoped to environment, version or plan"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithString("environment",
			mcp.Description("Test environment name"),
		),
		mcp.WithString("version",
			mcp.Description("Fix version"),
		),
		mcp.WithString("test_plan",
			mcp.Description("Test plan key or issue ID"),
		),
	)
}

// createGetCoverableIssuesTool returns the get_coverable_issues tool definition
func createGetCoverableIssuesTool() mcp.Tool {
	return mcp.NewTool("get_coverable_issues",
		mcp.WithDescription("Retrieve requirement-like issues that tests can cover"),
		mcp.WithString("jql",
			mcp.Description("JQL filter (validated against a whitelist before dispatch)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createGetXrayHistoryTool returns the get_xray_history tool definition
func createGetXrayHistoryTool() mcp.Tool {
	return mcp.NewTool("get_xray_history",
		mcp.WithDescription("Retrieve a test's execution history"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithString("test_plan_id",
			mcp.Description("Restrict history to one test plan"),
		),
		mcp.WithString("test_env_id",
			mcp.Description("Restrict history to one test environment"),
		),
		mcp.WithNumber("start",
			mcp.Description("Starting index (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createGetFolderContentsTool returns the get_folder_contents tool definition
func createGetFolderContentsTool() mcp.Tool {
	return mcp.NewTool("get_folder_contents",
		mcp.WithDescription("Retrieve a test repository folder and its counters"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Numeric project ID"),
		),
		mcp.WithString("folder_path",
			mcp.Description("Folder path (default: \"/\")"),
		),
	)
}

// createMoveTestToFolderTool returns the move_test_to_folder tool definition
func createMoveTestToFolderTool() mcp.Tool {
	return mcp.NewTool("move_test_to_folder",
		mcp.WithDescription("Move a test to a different test repository folder"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithString("folder_path",
			mcp.Required(),
			mcp.Description("Destination folder path, e.g. /Regression/Login"),
		),
	)
}

// createGetDatasetTool returns the get_dataset tool definition
func createGetDatasetTool() mcp.Tool {
	return mcp.NewTool("get_dataset",
		mcp.WithDescription("Retrieve the data-driven dataset attached to a test"),
		mcp.WithString("test_issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createGetDatasetsTool returns the get_datasets tool definition
func createGetDatasetsTool() mcp.Tool {
	return mcp.NewTool("get_datasets",
		mcp.WithDescription("Retrieve datasets for multiple tests"),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Test Jira keys or numeric issue IDs"),
		),
	)
}

// createGetTestVersionsTool returns the get_test_versions tool definition
func createGetTestVersionsTool() mcp.Tool {
	return mcp.NewTool("get_test_versions",
		mcp.WithDescription("List every version of a test, archived versions included"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createArchiveTestVersionTool returns the archive_test_version tool definition
func createArchiveTestVersionTool() mcp.Tool {
	return mcp.NewTool("archive_test_version",
		mcp.WithDescription("Archive one version of a test"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithNumber("version_id",
			mcp.Required(),
			mcp.Description("Version ID to archive"),
		),
	)
}

// createRestoreTestVersionTool returns the restore_test_version tool definition
func createRestoreTestVersionTool() mcp.Tool {
	return mcp.NewTool("restore_test_version",
		mcp.WithDescription("Restore an archived version of a test"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithNumber("version_id",
			mcp.Required(),
			mcp.Description("Version ID to restore"),
		),
	)
}

// createCreateTestVersionFromTool returns the create_test_version_from tool definition
func createCreateTestVersionFromTool() mcp.Tool {
	return mcp.NewTool("create_test_version_from",
		mcp.WithDescription("Create a new test version copied from an existing one"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithNumber("source_version_id",
			mcp.Required(),
			mcp.Description("Version ID to copy from"),
		),
	)
}

// createExecuteJQLQueryTool returns the execute_jql_query tool definition
func createExecuteJQLQueryTool() mcp.Tool {
	return mcp.NewTool("execute_jql_query",
		mcp.WithDescription("Run a validated ad-hoc JQL query against tests or test executions"),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query (validated against a whitelist before dispatch)"),
		),
		mcp.WithString("entity_type",
			mcp.Description("Entity type to query: test (default) or testexecution"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createValidateConnectionTool returns the validate_connection tool definition
func createValidateConnectionTool() mcp.Tool {
	return mcp.NewTool("validate_connection",
		mcp.WithDescription("Check Xray API connectivity and credentials"),
	)
}

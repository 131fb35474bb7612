package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetTestExecutionTool returns the get_test_execution tool definition
func createGetTestExecutionTool() mcp.Tool {
	return mcp.NewTool("get_test_execution",
		mcp.WithDescription("Retrieve a single test execution with its tests"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createGetTestExecutionsTool returns the get_test_executions tool definition
func createGetTestExecutionsTool() mcp.Tool {
	return mcp.NewTool("get_test_executions",
		mcp.WithDescription("Retrieve multiple test executions, optionally filtered by a JQL query"),
		mcp.WithString("jql",
			mcp.Description("JQL filter (validated against a whitelist before dispatch)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createCreateTestExecutionTool returns the create_test_execution tool definition
func createCreateTestExecutionTool() mcp.Tool {
	return mcp.NewTool("create_test_execution",
		mcp.WithDescription("Create a test execution, optionally pre-populated with tests and environments"),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key, e.g. PROJ"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Execution summary"),
		),
		mcp.WithString("description",
			mcp.Description("Execution description"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Description("Tests to include (Jira keys or numeric IDs)"),
		),
		mcp.WithArray("test_environments",
			mcp.WithStringItems(),
			mcp.Description("Environment names, e.g. Chrome, Staging"),
		),
	)
}

// createDeleteTestExecutionTool returns the delete_test_execution tool definition
func createDeleteTestExecutionTool() mcp.Tool {
	return mcp.NewTool("delete_test_execution",
		mcp.WithDescription("Permanently delete a test execution"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createAddTestsToExecutionTool returns the add_tests_to_execution tool definition
func createAddTestsToExecutionTool() mcp.Tool {
	return mcp.NewTool("add_tests_to_execution",
		mcp.WithDescription("Add tests to an existing test execution"),
		mcp.WithString("execution_issue_id",
			mcp.Required(),
			mcp.Description("Execution Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Tests to add (Jira keys or numeric IDs)"),
		),
	)
}

// createRemoveTestsFromExecutionTool returns the remove_tests_from_execution tool definition
func createRemoveTestsFromExecutionTool() mcp.Tool {
	return mcp.NewTool("remove_tests_from_execution",
		mcp.WithDescription("Remove tests from an existing test execution"),
		mcp.WithString("execution_issue_id",
			mcp.Required(),
			mcp.Description("Execution Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Tests to remove (Jira keys or numeric IDs)"),
		),
	)
}

// createAddTestEnvironmentsTool returns the add_test_environments tool definition
func createAddTestEnvironmentsTool() mcp.Tool {
	return mcp.NewTool("add_test_environments",
		mcp.WithDescription("Associate test environments with an execution"),
		mcp.WithString("execution_issue_id",
			mcp.Required(),
			mcp.Description("Execution Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_environments",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Environment names to add"),
		),
	)
}

// createRemoveTestEnvironmentsTool returns the remove_test_environments tool definition
func createRemoveTestEnvironmentsTool() mcp.Tool {
	return mcp.NewTool("remove_test_environments",
		mcp.WithDescription("Remove test environment associations from an execution"),
		mcp.WithString("execution_issue_id",
			mcp.Required(),
			mcp.Description("Execution Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_environments",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Environment names to remove"),
		),
	)
}

// createGetTestRunTool returns the get_test_run tool definition
func createGetTestRunTool() mcp.Tool {
	return mcp.NewTool("get_test_run",
		mcp.WithDescription("Retrieve a test run by its internal run ID"),
		mcp.WithString("test_run_id",
			mcp.Required(),
			mcp.Description("Internal test run ID"),
		),
	)
}

// createGetTestRunsTool returns the get_test_runs tool definition
func createGetTestRunsTool() mcp.Tool {
	return mcp.NewTool("get_test_runs",
		mcp.WithDescription("Retrieve test runs filtered by test and/or execution issue IDs"),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Description("Test issue IDs or Jira keys"),
		),
		mcp.WithArray("test_exec_issue_ids",
			mcp.WithStringItems(),
			mcp.Description("Test execution issue IDs or Jira keys"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createUpdateTestRunStatusTool returns the update_test_run_status tool definition
func createUpdateTestRunStatusTool() mcp.Tool {
	return mcp.NewTool("update_test_run_status",
		mcp.WithDescription("Set the status of a test run (e.g. PASSED, FAILED, EXECUTING)"),
		mcp.WithString("test_run_id",
			mcp.Required(),
			mcp.Description("Internal test run ID"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status name"),
		),
	)
}

// createUpdateTestRunTool returns the update_test_run tool definition
func createUpdateTestRunTool() mcp.Tool {
	return mcp.NewTool("update_test_run",
		mcp.WithDescription("Update execution metadata of a test run"),
		mcp.WithString("test_run_id",
			mcp.Required(),
			mcp.Description("Internal test run ID"),
		),
		mcp.WithString("comment",
			mcp.Description("Execution comment"),
		),
		mcp.WithString("started_on",
			mcp.Description("Execution start time (ISO format)"),
		),
		mcp.WithString("finished_on",
			mcp.Description("Execution end time (ISO format)"),
		),
		mcp.WithString("assignee_id",
			mcp.Description("User ID to assign"),
		),
		mcp.WithString("executed_by_id",
			mcp.Description("User ID who executed the test"),
		),
	)
}

// createResetTestRunTool returns the reset_test_run tool definition
func createResetTestRunTool() mcp.Tool {
	return mcp.NewTool("reset_test_run",
		mcp.WithDescription("Reset a test run back to its unexecuted state"),
		mcp.WithString("test_run_id",
			mcp.Required(),
			mcp.Description("Internal test run ID"),
		),
	)
}

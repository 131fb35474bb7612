package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetTestPlanTool returns the get_test_plan tool definition
func createGetTestPlanTool() mcp.Tool {
	return mcp.NewTool("get_test_plan",
		mcp.WithDescription("Retrieve a single test plan with its tests"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createGetTestPlansTool returns the get_test_plans tool definition
func createGetTestPlansTool() mcp.Tool {
	return mcp.NewTool("get_test_plans",
		mcp.WithDescription("Retrieve multiple test plans, optionally filtered by a JQL query"),
		mcp.WithString("jql",
			mcp.Description("JQL filter (validated against a whitelist before dispatch)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createCreateTestPlanTool returns the create_test_plan tool definition
func createCreateTestPlanTool() mcp.Tool {
	return mcp.NewTool("create_test_plan",
		mcp.WithDescription("Create a test plan, optionally pre-populated with tests"),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key, e.g. PROJ"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Test plan summary"),
		),
		mcp.WithString("description",
			mcp.Description("Test plan description"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Description("Tests to include (Jira keys or numeric IDs)"),
		),
	)
}

// createDeleteTestPlanTool returns the delete_test_plan tool definition
func createDeleteTestPlanTool() mcp.Tool {
	return mcp.NewTool("delete_test_plan",
		mcp.WithDescription("Delete a test plan (tests it contained are unaffected)"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createAddTestsToPlanTool returns the add_tests_to_plan tool definition
func createAddTestsToPlanTool() mcp.Tool {
	return mcp.NewTool("add_tests_to_plan",
		mcp.WithDescription("Associate tests with a test plan"),
		mcp.WithString("plan_issue_id",
			mcp.Required(),
			mcp.Description("Test plan Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Tests to add (Jira keys or numeric IDs)"),
		),
	)
}

// createRemoveTestsFromPlanTool returns the remove_tests_from_plan tool definition
func createRemoveTestsFromPlanTool() mcp.Tool {
	return mcp.NewTool("remove_tests_from_plan",
		mcp.WithDescription("Disassociate tests from a test plan"),
		mcp.WithString("plan_issue_id",
			mcp.Required(),
			mcp.Description("Test plan Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Tests to remove (Jira keys or numeric IDs)"),
		),
	)
}

// createGetTestSetTool returns the get_test_set tool definition
func createGetTestSetTool() mcp.Tool {
	return mcp.NewTool("get_test_set",
		mcp.WithDescription("Retrieve a single test set with its tests"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createGetTestSetsTool returns the get_test_sets tool definition
func createGetTestSetsTool() mcp.Tool {
	return mcp.NewTool("get_test_sets",
		mcp.WithDescription("Retrieve multiple test sets, optionally filtered by a JQL query"),
		mcp.WithString("jql",
			mcp.Description("JQL filter (validated against a whitelist before dispatch)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createCreateTestSetTool returns the create_test_set tool definition
func createCreateTestSetTool() mcp.Tool {
	return mcp.NewTool("create_test_set",
		mcp.WithDescription("Create a test set, optionally pre-populated with tests"),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key, e.g. PROJ"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Test set summary"),
		),
		mcp.WithString("description",
			mcp.Description("Test set description"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Description("Tests to include (Jira keys or numeric IDs)"),
		),
	)
}

// createDeleteTestSetTool returns the delete_test_set tool definition
func createDeleteTestSetTool() mcp.Tool {
	return mcp.NewTool("delete_test_set",
		mcp.WithDescription("Delete a test set (its tests are unaffected)"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

// createAddTestsToSetTool returns the add_tests_to_set tool definition
func createAddTestsToSetTool() mcp.Tool {
	return mcp.NewTool("add_tests_to_set",
		mcp.WithDescription("Associate tests with a test set"),
		mcp.WithString("set_issue_id",
			mcp.Required(),
			mcp.Description("Test set Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Tests to add (Jira keys or numeric IDs)"),
		),
	)
}

// createRemoveTestsFromSetTool returns the remove_tests_from_set tool definition
func createRemoveTestsFromSetTool() mcp.Tool {
	return mcp.NewTool("remove_tests_from_set",
		mcp.WithDescription("Disassociate tests from a test set"),
		mcp.WithString("set_issue_id",
			mcp.Required(),
			mcp.Description("Test set Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithArray("test_issue_ids",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Tests to remove (Jira keys or numeric IDs)"),
		),
	)
}

// createGetPreconditionsTool returns the get_preconditions tool definition
func createGetPreconditionsTool() mcp.Tool {
	return mcp.NewTool("get_preconditions",
		mcp.WithDescription("Retrieve the preconditions attached to a test"),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Test Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithNumber("start",
			mcp.Description("Starting index (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 100, max: 100)"),
		),
	)
}

// createCreatePreconditionTool returns the create_precondition tool definition
func createCreatePreconditionTool() mcp.Tool {
	return mcp.NewTool("create_precondition",
		mcp.WithDescription("Create a precondition and optionally attach it to a test"),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key, e.g. PROJ"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Precondition summary"),
		),
		mcp.WithString("precondition_type",
			mcp.Description("Precondition type: Manual, Cucumber or Generic (default: Manual)"),
		),
		mcp.WithString("definition",
			mcp.Required(),
			mcp.Description("Precondition definition text"),
		),
		mcp.WithString("test_issue_id",
			mcp.Description("Test to attach the new precondition to"),
		),
	)
}

// createUpdatePreconditionTool returns the update_precondition tool definition
func createUpdatePreconditionTool() mcp.Tool {
	return mcp.NewTool("update_precondition",
		mcp.WithDescription("Update a precondition's type and/or definition"),
		mcp.WithString("precondition_id",
			mcp.Required(),
			mcp.Description("Precondition Jira key (PROJ-123) or numeric issue ID"),
		),
		mcp.WithObject("updates",
			mcp.Required(),
			mcp.Description("UpdatePreconditionInput fields (object or JSON-encoded string)"),
		),
	)
}

// createDeletePreconditionTool returns the delete_precondition tool definition
func createDeletePreconditionTool() mcp.Tool {
	return mcp.NewTool("delete_precondition",
		mcp.WithDescription("Permanently delete a precondition"),
		mcp.WithString("precondition_id",
			mcp.Required(),
			mcp.Description("Precondition Jira key (PROJ-123) or numeric issue ID"),
		),
	)
}

package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
)

// registerTools wires every tool definition to its handler through the
// uniform envelope wrapper.
func registerTools(mcpServer *server.MCPServer, service *xray.Service, logger arbor.ILogger) {
	register := func(tool mcp.Tool, fn toolFunc) {
		mcpServer.AddTool(tool, handle(logger, tool.Name, fn))
	}

	// Test management tools
	register(createGetTestTool(), handleGetTest(service))
	register(createGetTestsTool(), handleGetTests(service))
	register(createGetExpandedTestTool(), handleGetExpandedTest(service))
	register(createCreateTestTool(), handleCreateTest(service))
	register(createUpdateTestTool(), handleUpdateTest(service))
	register(createDeleteTestTool(), handleDeleteTest(service))
	register(createUpdateTestTypeTool(), handleUpdateTestType(service))
	register(createUpdateGherkinDefinitionTool(), handleUpdateGherkinDefinition(service))

	// Test execution tools
	register(createGetTestExecutionTool(), handleGetTestExecution(service))
	register(createGetTestExecutionsTool(), handleGetTestExecutions(service))
	register(createCreateTestExecutionTool(), handleCreateTestExecution(service))
	register(createDeleteTestExecutionTool(), handleDeleteTestExecution(service))
	register(createAddTestsToExecutionTool(), handleAddTestsToExecution(service))
	register(createRemoveTestsFromExecutionTool(), handleRemoveTestsFromExecution(service))
	register(createAddTestEnvironmentsTool(), handleAddTestEnvironments(service))
	register(createRemoveTestEnvironmentsTool(), handleRemoveTestEnvironments(service))

	// Test run tools
	register(createGetTestRunTool(), handleGetTestRun(service))
	register(createGetTestRunsTool(), handleGetTestRuns(service))
	register(createUpdateTestRunStatusTool(), handleUpdateTestRunStatus(service))
	register(createUpdateTestRunTool(), handleUpdateTestRun(service))
	register(createResetTestRunTool(), handleResetTestRun(service))

	// Test plan tools
	register(createGetTestPlanTool(), handleGetTestPlan(service))
	register(createGetTestPlansTool(), handleGetTestPlans(service))
	register(createCreateTestPlanTool(), handleCreateTestPlan(service))
	register(createDeleteTestPlanTool(), handleDeleteTestPlan(service))
	register(createAddTestsToPlanTool(), handleAddTestsToPlan(service))
	register(createRemoveTestsFromPlanTool(), handleRemoveTestsFromPlan(service))

	// Test set tools
	register(createGetTestSetTool(), handleGetTestSet(service))
	register(createGetTestSetsTool(), handleGetTestSets(service))
	register(createCreateTestSetTool(), handleCreateTestSet(service))
	register(createDeleteTestSetTool(), handleDeleteTestSet(service))
	register(createAddTestsToSetTool(), handleAddTestsToSet(service))
	register(createRemoveTestsFromSetTool(), handleRemoveTestsFromSet(service))

	// Precondition tools
	register(createGetPreconditionsTool(), handleGetPreconditions(service))
	register(createCreatePreconditionTool(), handleCreatePrecondition(service))
	register(createUpdatePreconditionTool(), handleUpdatePrecondition(service))
	register(createDeletePreconditionTool(), handleDeletePrecondition(service))

	// Coverage and history tools
	register(createGetTestStatusTool(), handleGetTestStatus(service))
	register(createGetCoverableIssuesTool(), handleGetCoverableIssues(service))
	register(createGetXrayHistoryTool(), handleGetXrayHistory(service))

	// Test repository and dataset tools
	register(createGetFolderContentsTool(), handleGetFolderContents(service))
	register(createMoveTestToFolderTool(), handleMoveTestToFolder(service))
	register(createGetDatasetTool(), handleGetDataset(service))
	register(createGetDatasetsTool(), handleGetDatasets(service))

	// Versioning tools
	register(createGetTestVersionsTool(), handleGetTestVersions(service))
	register(createArchiveTestVersionTool(), handleArchiveTestVersion(service))
	register(createRestoreTestVersionTool(), handleRestoreTestVersion(service))
	register(createCreateTestVersionFromTool(), handleCreateTestVersionFrom(service))

	// Utility tools
	register(createExecuteJQLQueryTool(), handleExecuteJQLQuery(service))
	register(createValidateConnectionTool(), handleValidateConnection(service))
}

// goalkit-mcp exposes one project's task and dependency operations as
// MCP tools over stdio, so agents can capture and query work the same
// way the CLI does. The project directory comes from GOALKIT_PROJECT
// (default ".").
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

var projectDir string

func main() {
	// Load .env file if present (don't error if missing). All logging
	// goes to stderr so stdout stays clean for JSON-RPC.
	_ = godotenv.Load()

	projectDir = os.Getenv("GOALKIT_PROJECT")
	if projectDir == "" {
		projectDir = "."
	}

	s := server.NewMCPServer(
		"goalkit-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register tools
	s.AddTool(taskAddTool(), handleTaskAdd)
	s.AddTool(taskListTool(), handleTaskList)
	s.AddTool(taskUpdateTool(), handleTaskUpdate)
	s.AddTool(taskCompleteTool(), handleTaskComplete)
	s.AddTool(taskDeleteTool(), handleTaskDelete)
	s.AddTool(depAddTool(), handleDepAdd)
	s.AddTool(depRemoveTool(), handleDepRemove)
	s.AddTool(criticalPathTool(), handleCriticalPath)
	s.AddTool(blockingTasksTool(), handleBlockingTasks)
	s.AddTool(dependencyGraphTool(), handleDependencyGraph)
	s.AddTool(projectStatsTool(), handleProjectStats)
	s.AddTool(projectHealthTool(), handleProjectHealth)

	// Run server
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

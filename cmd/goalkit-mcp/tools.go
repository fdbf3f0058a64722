package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Nom-nom-hub/goalkit/internal/config"
	"github.com/Nom-nom-hub/goalkit/internal/deps"
	"github.com/Nom-nom-hub/goalkit/internal/health"
	"github.com/Nom-nom-hub/goalkit/internal/task"
)

// open re-reads the project's task store. Stores are small and every
// mutation rewrites the full document, so a fresh load per tool call is
// the simplest way to stay consistent with the CLI.
func open() (*task.Tracker, *deps.Tracker) {
	tr := task.NewTracker(projectDir)
	return tr, deps.NewTracker(tr)
}

func args(req mcp.CallToolRequest) map[string]any {
	m, _ := req.Params.Arguments.(map[string]any)
	return m
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func taskAddTool() mcp.Tool {
	return mcp.NewTool("task_add",
		mcp.WithDescription("Add a task to the project. Returns the new task id."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title (what needs to be done)"),
		),
		mcp.WithString("goal",
			mcp.Description("Owning goal id (optional, not validated)"),
		),
		mcp.WithString("description",
			mcp.Description("Longer description (optional)"),
		),
		mcp.WithNumber("hours",
			mcp.Description("Estimated hours (optional, default 0)"),
		),
	)
}

func handleTaskAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	title, _ := a["title"].(string)
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	goalID, _ := a["goal"].(string)
	description, _ := a["description"].(string)
	hours, _ := a["hours"].(float64)

	tr, _ := open()
	id := tr.Create(goalID, title, description, hours)
	return mcp.NewToolResultText(fmt.Sprintf("Task added: %s (ID: %s)", title, id)), nil
}

func taskListTool() mcp.Tool {
	return mcp.NewTool("task_list",
		mcp.WithDescription("List the project's tasks with optional filters. Returns full task records as JSON."),
		mcp.WithString("goal",
			mcp.Description("Filter by owning goal id"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by status: todo, in_progress, or completed"),
		),
	)
}

func handleTaskList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	goalID, _ := a["goal"].(string)
	status, _ := a["status"].(string)

	tr, _ := open()
	var tasks []task.Task
	switch {
	case goalID != "":
		tasks = tr.ListByGoal(goalID)
	case status != "":
		s := task.Status(status)
		if !s.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
		}
		tasks = tr.ListByStatus(s)
	default:
		tasks = tr.ListAll()
	}
	return jsonResult(tasks)
}

func taskUpdateTool() mcp.Tool {
	return mcp.NewTool("task_update",
		mcp.WithDescription("Update a task. Only provided fields change."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithNumber("hours",
			mcp.Description("New estimated hours"),
		),
		mcp.WithString("status",
			mcp.Description("New status: todo, in_progress, or completed"),
		),
	)
}

func handleTaskUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	id, _ := a["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	tr, _ := open()

	var f task.FieldUpdate
	if title, ok := a["title"].(string); ok {
		f.Title = &title
	}
	if description, ok := a["description"].(string); ok {
		f.Description = &description
	}
	if hours, ok := a["hours"].(float64); ok {
		f.EstimatedHours = &hours
	}
	if f.Title != nil || f.Description != nil || f.EstimatedHours != nil {
		if !tr.UpdateFields(id, f) {
			return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
		}
	}

	if status, ok := a["status"].(string); ok && status != "" {
		s := task.Status(status)
		if !s.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
		}
		if !tr.UpdateStatus(id, s) {
			return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task updated: %s", id)), nil
}

func taskCompleteTool() mcp.Tool {
	return mcp.NewTool("task_complete",
		mcp.WithDescription("Mark a task as completed (stamps its completion time)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id to complete"),
		),
	)
}

func handleTaskComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := args(req)["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	tr, _ := open()
	if !tr.UpdateStatus(id, task.StatusCompleted) {
		return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task completed: %s", id)), nil
}

func taskDeleteTool() mcp.Tool {
	return mcp.NewTool("task_delete",
		mcp.WithDescription("Delete a task. Dependents keep their (now dangling) reference; graph walks tolerate it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id to delete"),
		),
	)
}

func handleTaskDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := args(req)["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	tr, _ := open()
	if !tr.Delete(id) {
		return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task deleted: %s", id)), nil
}

func depAddTool() mcp.Tool {
	return mcp.NewTool("dep_add",
		mcp.WithDescription("Make one task depend on another. Each task has at most one dependency; this replaces any existing one. Rejected if it would create a cycle or a self-dependency."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The dependent task"),
		),
		mcp.WithString("depends_on",
			mcp.Required(),
			mcp.Description("The task it must wait for"),
		),
	)
}

func handleDepAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	taskID, _ := a["task_id"].(string)
	dependsOn, _ := a["depends_on"].(string)
	if taskID == "" || dependsOn == "" {
		return mcp.NewToolResultError("task_id and depends_on are required"), nil
	}

	_, dt := open()
	if err := dt.AddDependency(taskID, dependsOn); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s now depends on %s", taskID, dependsOn)), nil
}

func depRemoveTool() mcp.Tool {
	return mcp.NewTool("dep_remove",
		mcp.WithDescription("Clear a task's dependency."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task to unblock"),
		),
	)
}

func handleDepRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, _ := args(req)["task_id"].(string)
	if taskID == "" {
		return mcp.NewToolResultError("task_id is required"), nil
	}

	_, dt := open()
	if !dt.RemoveDependency(taskID) {
		return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", taskID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Dependency cleared: %s", taskID)), nil
}

func criticalPathTool() mcp.Tool {
	return mcp.NewTool("critical_path",
		mcp.WithDescription("Return the longest dependency chain in the project, root to tip, as JSON."),
	)
}

func handleCriticalPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, dt := open()
	return jsonResult(dt.GetCriticalPath())
}

func blockingTasksTool() mcp.Tool {
	return mcp.NewTool("blocking_tasks",
		mcp.WithDescription("Return ids of incomplete tasks that other incomplete tasks are waiting on."),
	)
}

func handleBlockingTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, dt := open()
	blocking := dt.GetBlockingTasks()
	if blocking == nil {
		blocking = []string{}
	}
	return jsonResult(blocking)
}

func dependencyGraphTool() mcp.Tool {
	return mcp.NewTool("dependency_graph",
		mcp.WithDescription("Return the full dependency adjacency map: every task id mapped to its predecessor list ([] or one id)."),
	)
}

func handleDependencyGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, dt := open()
	return jsonResult(dt.GetDependencyGraph())
}

func projectStatsTool() mcp.Tool {
	return mcp.NewTool("project_stats",
		mcp.WithDescription("Return aggregate task statistics for the project (or one goal) as JSON."),
		mcp.WithString("goal",
			mcp.Description("Restrict to one goal id (optional)"),
		),
	)
}

func handleProjectStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goalID, _ := args(req)["goal"].(string)

	tr, _ := open()
	if goalID != "" {
		return jsonResult(tr.StatsForGoal(goalID))
	}
	return jsonResult(tr.Stats())
}

func projectHealthTool() mcp.Tool {
	return mcp.NewTool("project_health",
		mcp.WithDescription("Return the project's health score (0-100), completion velocity, and blocking count. Optionally records a metrics snapshot first."),
		mcp.WithBoolean("record",
			mcp.Description("Append a metrics snapshot before scoring. Default: false"),
		),
	)
}

func handleProjectHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, _ := args(req)["record"].(bool)

	cfg, err := config.Load(projectDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load config: %v", err)), nil
	}

	tr, dt := open()
	stats := tr.Stats()
	blocking := len(dt.GetBlockingTasks())

	recorder := health.NewRecorder(projectDir)
	if record {
		if err := recorder.Record(stats); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to record metrics: %v", err)), nil
		}
	}

	window := time.Duration(cfg.Health.VelocityWindowDays) * 24 * time.Hour
	velocity := health.Velocity(recorder.History(), window)

	return jsonResult(map[string]any{
		"score":              health.Score(stats, blocking, velocity, cfg.Health),
		"velocity_per_day":   velocity,
		"blocking":           blocking,
		"completion_percent": stats.CompletionPercent,
		"store_corrupted":    tr.Corrupted(),
	})
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nom-nom-hub/goalkit/internal/task"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, update, and inspect tasks",
	}
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskDoneCmd())
	cmd.AddCommand(taskStatusCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskDeleteCmd())
	cmd.AddCommand(taskStatsCmd())
	return cmd
}

func taskAddCmd() *cobra.Command {
	var goalID, description string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := openTracker()
			id := tr.Create(goalID, args[0], description, hours)
			fmt.Println(id)
			return nil
		},
	}
	cmd.Flags().StringVar(&goalID, "goal", "", "owning goal id")
	cmd.Flags().StringVar(&description, "desc", "", "task description")
	cmd.Flags().Float64Var(&hours, "hours", 0, "estimated hours")
	return cmd
}

func taskListCmd() *cobra.Command {
	var goalID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered by goal or status",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := openTracker()

			var tasks []task.Task
			switch {
			case goalID != "":
				tasks = tr.ListByGoal(goalID)
			case status != "":
				s := task.Status(status)
				if !s.Valid() {
					return fmt.Errorf("unknown status %q (todo, in_progress, completed)", status)
				}
				tasks = tr.ListByStatus(s)
			default:
				tasks = tr.ListAll()
			}

			for _, tk := range tasks {
				dep := "-"
				if tk.DependsOn != nil {
					dep = *tk.DependsOn
				}
				fmt.Printf("%s  %-12s  %6.1fh  dep:%s  %s\n", tk.ID, tk.Status, tk.EstimatedHours, dep, tk.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&goalID, "goal", "", "filter by goal id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := openTracker()
			if !tr.UpdateStatus(args[0], task.StatusCompleted) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			fmt.Printf("Completed: %s\n", args[0])
			return nil
		},
	}
}

func taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <todo|in_progress|completed>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := task.Status(args[1])
			if !s.Valid() {
				return fmt.Errorf("unknown status %q (todo, in_progress, completed)", args[1])
			}
			tr := openTracker()
			if !tr.UpdateStatus(args[0], s) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			fmt.Printf("%s -> %s\n", args[0], s)
			return nil
		},
	}
}

func taskUpdateCmd() *cobra.Command {
	var title, description string
	var hours float64

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update task fields; only provided flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f task.FieldUpdate
			if cmd.Flags().Changed("title") {
				f.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				f.Description = &description
			}
			if cmd.Flags().Changed("hours") {
				f.EstimatedHours = &hours
			}

			tr := openTracker()
			if !tr.UpdateFields(args[0], f) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			fmt.Printf("Updated: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "desc", "", "new description")
	cmd.Flags().Float64Var(&hours, "hours", 0, "new estimated hours")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task (dependents keep their dangling reference)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := openTracker()
			if !tr.Delete(args[0]) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			fmt.Printf("Deleted: %s\n", args[0])
			return nil
		},
	}
}

func taskStatsCmd() *cobra.Command {
	var goalID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate task statistics, optionally for one goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := openTracker()

			var stats task.TaskStats
			if goalID != "" {
				stats = tr.StatsForGoal(goalID)
			} else {
				stats = tr.Stats()
			}

			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&goalID, "goal", "", "restrict to one goal id")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nom-nom-hub/goalkit/internal/deps"
)

func depCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage and inspect the task dependency graph",
	}
	cmd.AddCommand(depAddCmd())
	cmd.AddCommand(depRemoveCmd())
	cmd.AddCommand(depPathCmd())
	cmd.AddCommand(depGraphCmd())
	cmd.AddCommand(depCriticalPathCmd())
	cmd.AddCommand(depBlockingCmd())
	return cmd
}

func openDeps() *deps.Tracker {
	return deps.NewTracker(openTracker())
}

func depAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <depends-on-id>",
		Short: "Make a task depend on another (replaces any prior dependency)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDeps().AddDependency(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s now depends on %s\n", args[0], args[1])
			return nil
		},
	}
}

func depRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <task-id>",
		Short: "Clear a task's dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !openDeps().RemoveDependency(args[0]) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			fmt.Printf("Dependency cleared: %s\n", args[0])
			return nil
		},
	}
}

func depPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <task-id>",
		Short: "Show the dependency chain from its root down to the task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := openDeps().GetPathForTask(args[0])
			if len(path) == 0 {
				return fmt.Errorf("task not found: %s", args[0])
			}
			for i, tk := range path {
				fmt.Printf("%d. %s  %s\n", i+1, tk.ID, tk.Title)
			}
			return nil
		},
	}
}

func depGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Export the full adjacency map as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(openDeps().GetDependencyGraph(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func depCriticalPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "critical-path",
		Short: "Show the longest dependency chain, root to tip",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := openDeps().GetCriticalPath()
			if len(path) == 0 {
				fmt.Println("No dependency chains.")
				return nil
			}
			for i, tk := range path {
				fmt.Printf("%d. %s  [%s]  %s\n", i+1, tk.ID, tk.Status, tk.Title)
			}
			return nil
		},
	}
}

func depBlockingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocking",
		Short: "List incomplete tasks that incomplete work is waiting on",
		RunE: func(cmd *cobra.Command, args []string) error {
			blocking := openDeps().GetBlockingTasks()
			if len(blocking) == 0 {
				fmt.Println("Nothing is blocked.")
				return nil
			}
			for _, id := range blocking {
				fmt.Println(id)
			}
			return nil
		},
	}
}

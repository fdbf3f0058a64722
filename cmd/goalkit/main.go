// goalkit tracks goal-kit projects: tasks with single-parent
// dependencies, milestones, and derived health metrics, persisted as
// JSON under the project's .goalkit/ directory.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Nom-nom-hub/goalkit/internal/task"
)

var projectDir string

func main() {
	// Load .env file if present (don't error if missing)
	_ = godotenv.Load()

	defaultProject := os.Getenv("GOALKIT_PROJECT")
	if defaultProject == "" {
		defaultProject = "."
	}

	root := &cobra.Command{
		Use:           "goalkit",
		Short:         "Track goal-kit projects: tasks, dependencies, and health",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&projectDir, "project", "p", defaultProject, "project directory")

	root.AddCommand(taskCmd())
	root.AddCommand(depCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openTracker loads the project's task store, surfacing the
// corrupted-store condition instead of passing it off as an empty
// project.
func openTracker() *task.Tracker {
	tr := task.NewTracker(projectDir)
	if tr.Corrupted() {
		fmt.Fprintln(os.Stderr, "warning: task store was corrupt and has been reset to empty; run 'goalkit doctor' for details")
	}
	return tr
}

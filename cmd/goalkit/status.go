package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nom-nom-hub/goalkit/internal/config"
	"github.com/Nom-nom-hub/goalkit/internal/deps"
	"github.com/Nom-nom-hub/goalkit/internal/goal"
	"github.com/Nom-nom-hub/goalkit/internal/health"
)

func statusCmd() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Project overview: stats, health score, and goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(projectDir)
			if err != nil {
				return err
			}

			tr := openTracker()
			dt := deps.NewTracker(tr)
			stats := tr.Stats()
			blocking := len(dt.GetBlockingTasks())

			recorder := health.NewRecorder(projectDir)
			if record {
				if err := recorder.Record(stats); err != nil {
					return fmt.Errorf("failed to record metrics: %w", err)
				}
			}

			window := time.Duration(cfg.Health.VelocityWindowDays) * 24 * time.Hour
			velocity := health.Velocity(recorder.History(), window)
			score := health.Score(stats, blocking, velocity, cfg.Health)

			fmt.Printf("Tasks:      %d total, %d todo, %d in progress, %d completed (%.1f%%)\n",
				stats.Total, stats.Todo, stats.InProgress, stats.Completed, stats.CompletionPercent)
			fmt.Printf("Hours:      %.1f estimated, %.1f completed, %.1f in progress\n",
				stats.TotalHours, stats.CompletedHours, stats.InProgressHours)
			fmt.Printf("Blocking:   %d task(s) holding up incomplete work\n", blocking)
			fmt.Printf("Velocity:   %.2f tasks/day (last %dd)\n", velocity, cfg.Health.VelocityWindowDays)
			fmt.Printf("Health:     %.0f/100\n", score)

			goals, err := goal.NewFileSource(projectDir).Goals()
			if err != nil {
				return err
			}
			if len(goals) > 0 {
				fmt.Println("Goals:")
				for _, g := range goals {
					gs := tr.StatsForGoal(g.ID)
					fmt.Printf("  %-20s  phase=%-12s  goal %.0f%%  tasks %d/%d\n",
						g.ID, g.Phase, g.CompletionPercent, gs.Completed, gs.Total)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "append a metrics snapshot before reporting")
	return cmd
}

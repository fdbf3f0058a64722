package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nom-nom-hub/goalkit/internal/deps"
	"github.com/Nom-nom-hub/goalkit/internal/task"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the task store for corruption, dangling references, and cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := task.NewTracker(projectDir)
			dt := deps.NewTracker(tr)
			problems := 0

			if tr.Corrupted() {
				fmt.Println("FAIL  task store was corrupt; loaded as empty")
				problems++
			} else {
				fmt.Println("ok    task store parsed")
			}

			// Dangling DependsOn: delete does not cascade, so a removed
			// task can leave references behind.
			dangling := 0
			for _, tk := range tr.ListAll() {
				if tk.DependsOn != nil && tr.Get(*tk.DependsOn) == nil {
					fmt.Printf("WARN  %s depends on missing task %s\n", tk.ID, *tk.DependsOn)
					dangling++
				}
			}
			if dangling == 0 {
				fmt.Println("ok    no dangling dependencies")
			}

			cycles := dt.DetectCircularDependencies()
			for _, cycle := range cycles {
				fmt.Printf("FAIL  dependency cycle: %s\n", strings.Join(cycle, " -> "))
				problems++
			}
			if len(cycles) == 0 {
				fmt.Println("ok    no dependency cycles")
			}

			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			return nil
		},
	}
}

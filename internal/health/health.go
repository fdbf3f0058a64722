// Package health derives a project health score and completion velocity
// from task statistics and a persisted history of metric snapshots.
package health

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/Nom-nom-hub/goalkit/internal/config"
	"github.com/Nom-nom-hub/goalkit/internal/logging"
	"github.com/Nom-nom-hub/goalkit/internal/task"
)

const metricsFilename = "metrics.json"

// Snapshot is one point of metric history.
type Snapshot struct {
	TakenAt        time.Time `json:"taken_at"`
	Total          int       `json:"total"`
	Completed      int       `json:"completed"`
	CompletedHours float64   `json:"completed_hours"`
}

// Recorder manages <project>/.goalkit/metrics.json, an append-only JSON
// array of snapshots.
type Recorder struct {
	path    string
	history []Snapshot
}

// NewRecorder loads the metric history for a project directory. Missing
// file means empty history; a corrupt file is logged and treated as empty.
func NewRecorder(projectDir string) *Recorder {
	r := &Recorder{path: filepath.Join(projectDir, ".goalkit", metricsFilename)}
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return r
	}
	if err != nil {
		logging.Warn("health", "metrics unreadable, starting empty: %v", err)
		return r
	}
	if err := json.Unmarshal(data, &r.history); err != nil {
		logging.Warn("health", "metrics corrupt, starting empty: %v", err)
		r.history = nil
	}
	return r
}

// History returns the loaded snapshots, oldest first.
func (r *Recorder) History() []Snapshot {
	out := make([]Snapshot, len(r.history))
	copy(out, r.history)
	return out
}

// Record appends a snapshot of the given stats and persists the history.
func (r *Recorder) Record(stats task.TaskStats) error {
	r.history = append(r.history, Snapshot{
		TakenAt:        time.Now(),
		Total:          stats.Total,
		Completed:      stats.Completed,
		CompletedHours: stats.CompletedHours,
	})

	data, err := json.MarshalIndent(r.history, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

// Velocity returns completed tasks per day over the trailing window.
// Fewer than two snapshots inside the window, or no elapsed time between
// them, yields 0. Reopened tasks can make the raw delta negative; that
// is clamped to 0 rather than reported as negative progress.
func Velocity(history []Snapshot, window time.Duration) float64 {
	cutoff := time.Now().Add(-window)
	var inWindow []Snapshot
	for _, s := range history {
		if s.TakenAt.After(cutoff) {
			inWindow = append(inWindow, s)
		}
	}
	if len(inWindow) < 2 {
		return 0
	}

	first, last := inWindow[0], inWindow[len(inWindow)-1]
	days := last.TakenAt.Sub(first.TakenAt).Hours() / 24
	if days <= 0 {
		return 0
	}
	v := float64(last.Completed-first.Completed) / days
	if v < 0 {
		return 0
	}
	return v
}

// Score combines completion percentage, blocked work, and velocity into
// a single 0-100 health figure: completion percent, minus a penalty for
// the blocked fraction of the task set, plus a velocity bonus.
func Score(stats task.TaskStats, blocking int, velocity float64, cfg config.Health) float64 {
	score := stats.CompletionPercent

	if stats.Total > 0 {
		score -= float64(blocking) / float64(stats.Total) * cfg.BlockedPenalty
	}
	score += velocity * cfg.VelocityBonus

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

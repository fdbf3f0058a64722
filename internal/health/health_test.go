package health

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nom-nom-hub/goalkit/internal/config"
	"github.com/Nom-nom-hub/goalkit/internal/task"
)

func snapAt(age time.Duration, completed int) Snapshot {
	return Snapshot{TakenAt: time.Now().Add(-age), Completed: completed}
}

func TestVelocity(t *testing.T) {
	window := 14 * 24 * time.Hour

	// 4 tasks completed over 2 days = 2/day.
	history := []Snapshot{
		snapAt(48*time.Hour, 1),
		snapAt(0, 5),
	}
	got := Velocity(history, window)
	if got < 1.9 || got > 2.1 {
		t.Errorf("Expected ~2 tasks/day, got %v", got)
	}

	if got := Velocity([]Snapshot{snapAt(0, 5)}, window); got != 0 {
		t.Errorf("Expected 0 with a single snapshot, got %v", got)
	}
	if got := Velocity(nil, window); got != 0 {
		t.Errorf("Expected 0 with no history, got %v", got)
	}

	// Snapshots outside the window are ignored.
	old := []Snapshot{
		snapAt(30*24*time.Hour, 0),
		snapAt(29*24*time.Hour, 10),
	}
	if got := Velocity(old, window); got != 0 {
		t.Errorf("Expected 0 for history outside window, got %v", got)
	}

	// Reopened tasks never report negative progress.
	reopened := []Snapshot{
		snapAt(48*time.Hour, 5),
		snapAt(0, 2),
	}
	if got := Velocity(reopened, window); got != 0 {
		t.Errorf("Expected 0 for negative delta, got %v", got)
	}
}

func TestScore(t *testing.T) {
	cfg := config.Default().Health

	// Half done, half the set blocking: 50 - 0.5*30 = 35.
	stats := task.TaskStats{Total: 4, Completed: 2, CompletionPercent: 50}
	if got := Score(stats, 2, 0, cfg); got != 35 {
		t.Errorf("Expected 35, got %v", got)
	}

	// Velocity bonus: 35 + 1*5 = 40.
	if got := Score(stats, 2, 1, cfg); got != 40 {
		t.Errorf("Expected 40, got %v", got)
	}

	// Clamped to [0, 100].
	bad := task.TaskStats{Total: 2, CompletionPercent: 0}
	if got := Score(bad, 2, 0, cfg); got != 0 {
		t.Errorf("Expected floor of 0, got %v", got)
	}
	done := task.TaskStats{Total: 2, Completed: 2, CompletionPercent: 100}
	if got := Score(done, 0, 10, cfg); got != 100 {
		t.Errorf("Expected ceiling of 100, got %v", got)
	}

	// Empty project scores 0, not NaN.
	if got := Score(task.TaskStats{}, 0, 0, cfg); got != 0 {
		t.Errorf("Expected 0 for empty project, got %v", got)
	}
}

func TestRecorder_RecordAndReload(t *testing.T) {
	tmpDir := t.TempDir()

	r := NewRecorder(tmpDir)
	if len(r.History()) != 0 {
		t.Fatalf("Expected empty history, got %d", len(r.History()))
	}

	stats := task.TaskStats{Total: 3, Completed: 1, CompletedHours: 2}
	if err := r.Record(stats); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".goalkit", "metrics.json")); os.IsNotExist(err) {
		t.Fatal("metrics.json not created")
	}

	r2 := NewRecorder(tmpDir)
	history := r2.History()
	if len(history) != 1 {
		t.Fatalf("Expected 1 snapshot after reload, got %d", len(history))
	}
	if history[0].Completed != 1 || history[0].Total != 3 || history[0].CompletedHours != 2 {
		t.Errorf("Unexpected snapshot: %+v", history[0])
	}
}

func TestRecorder_CorruptHistory(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, ".goalkit")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metrics.json"), []byte("[broken"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	r := NewRecorder(tmpDir)
	if len(r.History()) != 0 {
		t.Errorf("Expected empty history for corrupt file, got %d", len(r.History()))
	}
}

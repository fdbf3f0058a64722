package task

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTracker_CreateAndGet(t *testing.T) {
	tr := NewTracker(t.TempDir())

	id := tr.Create("goal-1", "Write docs", "cover the API", 2.5)
	if id == "" {
		t.Fatal("Expected non-empty task id")
	}

	tk := tr.Get(id)
	if tk == nil {
		t.Fatal("Expected to find created task")
	}
	if tk.Status != StatusTodo {
		t.Errorf("Expected status todo, got %s", tk.Status)
	}
	if tk.GoalID != "goal-1" {
		t.Errorf("Expected goal-1, got %s", tk.GoalID)
	}
	if tk.EstimatedHours != 2.5 {
		t.Errorf("Expected 2.5 hours, got %v", tk.EstimatedHours)
	}
	if tk.CompletedAt != nil {
		t.Error("Expected CompletedAt to be nil on creation")
	}
	if tk.CreatedAt.IsZero() || tk.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	if tr.Get("nonexistent") != nil {
		t.Error("Expected nil for unknown task")
	}
}

func TestTracker_PersistenceRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	tr := NewTracker(tmpDir)
	id := tr.Create("g", "Persisted task", "", 1)

	path := filepath.Join(tmpDir, ".goalkit", "tasks.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("tasks.json not created")
	}

	tr2 := NewTracker(tmpDir)
	if tr2.Corrupted() {
		t.Fatal("Fresh store reported as corrupted")
	}
	tk := tr2.Get(id)
	if tk == nil {
		t.Fatal("Expected task to survive reload")
	}
	if tk.Title != "Persisted task" {
		t.Errorf("Expected title 'Persisted task', got %q", tk.Title)
	}
}

func TestTracker_UpdateStatus_CompletedAtCoupling(t *testing.T) {
	tr := NewTracker(t.TempDir())
	id := tr.Create("g", "Task D", "", 4)

	if !tr.UpdateStatus(id, StatusCompleted) {
		t.Fatal("UpdateStatus returned false for known task")
	}
	tk := tr.Get(id)
	if tk.Status != StatusCompleted {
		t.Errorf("Expected completed, got %s", tk.Status)
	}
	if tk.CompletedAt == nil {
		t.Fatal("Expected CompletedAt to be set on completion")
	}
	if got := tr.Stats().CompletedHours; got != 4 {
		t.Errorf("Expected 4 completed hours, got %v", got)
	}

	// Any transition out of completed clears the timestamp again.
	if !tr.UpdateStatus(id, StatusTodo) {
		t.Fatal("UpdateStatus returned false for known task")
	}
	tk = tr.Get(id)
	if tk.CompletedAt != nil {
		t.Error("Expected CompletedAt cleared when leaving completed")
	}
	if got := tr.Stats().CompletedHours; got != 0 {
		t.Errorf("Expected 0 completed hours, got %v", got)
	}

	if tr.UpdateStatus("nonexistent", StatusCompleted) {
		t.Error("Expected false for unknown task")
	}
}

func TestTracker_UpdateFields_Partial(t *testing.T) {
	tr := NewTracker(t.TempDir())
	id := tr.Create("g", "Old title", "old desc", 1)

	title := "New title"
	if !tr.UpdateFields(id, FieldUpdate{Title: &title}) {
		t.Fatal("UpdateFields returned false for known task")
	}

	tk := tr.Get(id)
	if tk.Title != "New title" {
		t.Errorf("Expected updated title, got %q", tk.Title)
	}
	if tk.Description != "old desc" {
		t.Errorf("Expected description untouched, got %q", tk.Description)
	}
	if tk.EstimatedHours != 1 {
		t.Errorf("Expected hours untouched, got %v", tk.EstimatedHours)
	}

	if tr.UpdateFields("nonexistent", FieldUpdate{Title: &title}) {
		t.Error("Expected false for unknown task")
	}
}

func TestTracker_Delete_NoCascade(t *testing.T) {
	tr := NewTracker(t.TempDir())
	a := tr.Create("g", "A", "", 0)
	b := tr.Create("g", "B", "", 0)
	tr.SetDependency(b, &a)

	if !tr.Delete(a) {
		t.Fatal("Delete returned false for known task")
	}
	if tr.Get(a) != nil {
		t.Error("Expected deleted task to be gone")
	}

	// The dependent keeps its dangling reference.
	tk := tr.Get(b)
	if tk.DependsOn == nil || *tk.DependsOn != a {
		t.Error("Expected dangling DependsOn to be preserved")
	}

	if tr.Delete("nonexistent") {
		t.Error("Expected false for unknown task")
	}
}

func TestTracker_ListFilters(t *testing.T) {
	tr := NewTracker(t.TempDir())
	a := tr.Create("g1", "A", "", 0)
	tr.Create("g1", "B", "", 0)
	tr.Create("g2", "C", "", 0)
	tr.UpdateStatus(a, StatusInProgress)

	if got := len(tr.ListAll()); got != 3 {
		t.Errorf("Expected 3 tasks, got %d", got)
	}
	if got := len(tr.ListByGoal("g1")); got != 2 {
		t.Errorf("Expected 2 tasks for g1, got %d", got)
	}
	if got := len(tr.ListByStatus(StatusInProgress)); got != 1 {
		t.Errorf("Expected 1 in-progress task, got %d", got)
	}
	if got := len(tr.ListByStatus(StatusCompleted)); got != 0 {
		t.Errorf("Expected 0 completed tasks, got %d", got)
	}
}

func TestTracker_Stats(t *testing.T) {
	tr := NewTracker(t.TempDir())

	// Empty set: percent is defined as 0, not a division error.
	stats := tr.Stats()
	if stats.Total != 0 || stats.CompletionPercent != 0 {
		t.Errorf("Expected empty stats, got total=%d percent=%v", stats.Total, stats.CompletionPercent)
	}

	a := tr.Create("g1", "A", "", 2)
	b := tr.Create("g1", "B", "", 3)
	tr.Create("g2", "C", "", 5)
	tr.UpdateStatus(a, StatusCompleted)
	tr.UpdateStatus(b, StatusInProgress)

	stats = tr.Stats()
	if stats.Total != 3 || stats.Completed != 1 || stats.InProgress != 1 || stats.Todo != 1 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if stats.CompletionPercent < 0 || stats.CompletionPercent > 100 {
		t.Errorf("Completion percent out of bounds: %v", stats.CompletionPercent)
	}
	if stats.TotalHours != 10 || stats.CompletedHours != 2 || stats.InProgressHours != 3 {
		t.Errorf("Unexpected hour totals: %+v", stats)
	}
	if stats.ByGoal["g1"] != 2 || stats.ByGoal["g2"] != 1 {
		t.Errorf("Unexpected ByGoal: %v", stats.ByGoal)
	}
	if stats.ByStatus[StatusCompleted] != 1 {
		t.Errorf("Unexpected ByStatus: %v", stats.ByStatus)
	}

	goalStats := tr.StatsForGoal("g1")
	if goalStats.Total != 2 || goalStats.Completed != 1 {
		t.Errorf("Unexpected goal stats: %+v", goalStats)
	}
	if goalStats.CompletionPercent != 50 {
		t.Errorf("Expected 50%%, got %v", goalStats.CompletionPercent)
	}
}

func writeStore(t *testing.T, dir, content string) {
	t.Helper()
	storeDir := filepath.Join(dir, ".goalkit")
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(storeDir, "tasks.json"), []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestTracker_CorruptStore_FallsBackEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	writeStore(t, tmpDir, "{not json")

	tr := NewTracker(tmpDir)
	if got := len(tr.ListAll()); got != 0 {
		t.Errorf("Expected empty set after corrupt load, got %d tasks", got)
	}
	if !tr.Corrupted() {
		t.Error("Expected corrupted flag to be set")
	}
}

func TestTracker_InvalidEntry_AllOrNothing(t *testing.T) {
	tmpDir := t.TempDir()

	// One valid entry, one with an unknown status: the whole load is
	// discarded, not just the bad entry.
	writeStore(t, tmpDir, `{
  "t1": {"id": "t1", "goal_id": "g", "title": "ok", "description": "", "status": "todo", "estimated_hours": 0, "created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-01T00:00:00Z", "completed_at": null, "depends_on": null},
  "t2": {"id": "t2", "goal_id": "g", "title": "bad", "description": "", "status": "paused", "estimated_hours": 0, "created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-01T00:00:00Z", "completed_at": null, "depends_on": null}
}`)

	tr := NewTracker(tmpDir)
	if got := len(tr.ListAll()); got != 0 {
		t.Errorf("Expected all-or-nothing fallback, got %d tasks", got)
	}
	if !tr.Corrupted() {
		t.Error("Expected corrupted flag to be set")
	}
}

func TestTracker_MissingStore_NotCorrupt(t *testing.T) {
	tr := NewTracker(t.TempDir())
	if tr.Corrupted() {
		t.Error("A missing store is a new project, not corruption")
	}
	if got := len(tr.ListAll()); got != 0 {
		t.Errorf("Expected empty set, got %d", got)
	}
}

package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Nom-nom-hub/goalkit/internal/logging"
)

const (
	storeDir      = ".goalkit"
	storeFilename = "tasks.json"
)

// Tracker owns the canonical task set for one project directory and
// persists it to <project>/.goalkit/tasks.json as a single JSON object
// keyed by task id. Every mutation rewrites the full document.
//
// Not-found is signaled by bool/nil returns, never an error. The tracker
// assumes a single process per project directory (no file locking).
type Tracker struct {
	path    string
	tasks   map[string]*Task
	corrupt bool
}

// NewTracker loads the task store for the given project directory.
// A missing store file yields an empty set. A corrupt store (invalid
// JSON, or any entry missing a required field) also yields an empty set,
// but the condition is logged and flagged via Corrupted() so callers can
// tell "empty project" from "corrupted store".
func NewTracker(projectDir string) *Tracker {
	t := &Tracker{
		path:  filepath.Join(projectDir, storeDir, storeFilename),
		tasks: make(map[string]*Task),
	}
	t.load()
	return t
}

// Corrupted reports whether the last load fell back to an empty set
// because the store file could not be parsed or validated.
func (t *Tracker) Corrupted() bool {
	return t.corrupt
}

func (t *Tracker) load() {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		logging.Warn("task", "store unreadable, starting empty: %v", err)
		t.corrupt = true
		return
	}

	tasks := make(map[string]*Task)
	if err := json.Unmarshal(data, &tasks); err != nil {
		logging.Warn("task", "store corrupt, starting empty: %v", err)
		t.corrupt = true
		return
	}

	// All-or-nothing: one invalid entry discards the whole load.
	for id, tk := range tasks {
		if err := validate(id, tk); err != nil {
			logging.Warn("task", "store entry invalid, starting empty: %v", err)
			t.corrupt = true
			return
		}
	}
	t.tasks = tasks
}

func validate(key string, tk *Task) error {
	if tk == nil || tk.ID == "" {
		return fmt.Errorf("entry %q has no id", key)
	}
	if tk.ID != key {
		return fmt.Errorf("entry %q keyed under %q", tk.ID, key)
	}
	if !tk.Status.Valid() {
		return fmt.Errorf("task %s has unknown status %q", tk.ID, tk.Status)
	}
	return nil
}

func (t *Tracker) persist() {
	data, err := json.MarshalIndent(t.tasks, "", "  ")
	if err != nil {
		logging.Warn("task", "marshal failed, store not written: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		logging.Warn("task", "store dir: %v", err)
		return
	}
	if err := os.WriteFile(t.path, data, 0644); err != nil {
		logging.Warn("task", "store write: %v", err)
	}
}

// Create adds a new task and returns its id. The goal id is an opaque
// reference and is not validated against any goal set.
func (t *Tracker) Create(goalID, title, description string, estimatedHours float64) string {
	now := time.Now()
	tk := &Task{
		ID:             uuid.NewString(),
		GoalID:         goalID,
		Title:          title,
		Description:    description,
		Status:         StatusTodo,
		EstimatedHours: estimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	t.tasks[tk.ID] = tk
	t.persist()
	logging.Debug("task", "created %s: %s", tk.ID, logging.Truncate(title, 50))
	return tk.ID
}

// UpdateStatus moves a task to the given status. Any status-to-status
// transition is legal; moving into completed stamps CompletedAt, moving
// out of completed clears it. Returns false for an unknown task.
func (t *Tracker) UpdateStatus(id string, s Status) bool {
	tk, ok := t.tasks[id]
	if !ok {
		return false
	}
	now := time.Now()
	tk.Status = s
	if s == StatusCompleted {
		tk.CompletedAt = &now
	} else {
		tk.CompletedAt = nil
	}
	tk.UpdatedAt = now
	t.persist()
	return true
}

// UpdateFields applies a partial update; nil fields in f are left
// unchanged. UpdatedAt advances regardless of which fields are set.
// Returns false for an unknown task.
func (t *Tracker) UpdateFields(id string, f FieldUpdate) bool {
	tk, ok := t.tasks[id]
	if !ok {
		return false
	}
	if f.Title != nil {
		tk.Title = *f.Title
	}
	if f.Description != nil {
		tk.Description = *f.Description
	}
	if f.EstimatedHours != nil {
		tk.EstimatedHours = *f.EstimatedHours
	}
	tk.UpdatedAt = time.Now()
	t.persist()
	return true
}

// SetDependency points a task at a single upstream task (nil clears it).
// This is the only mutation path for DependsOn; the dependency layer
// performs its cycle checks and then calls through here. No validation
// of the target id happens at this level.
func (t *Tracker) SetDependency(id string, dependsOn *string) bool {
	tk, ok := t.tasks[id]
	if !ok {
		return false
	}
	tk.DependsOn = dependsOn
	tk.UpdatedAt = time.Now()
	t.persist()
	return true
}

// Get returns a copy of the task, or nil if unknown.
func (t *Tracker) Get(id string) *Task {
	tk, ok := t.tasks[id]
	if !ok {
		return nil
	}
	c := *tk
	return &c
}

// Delete removes a task and persists. Dependents that reference the
// deleted task keep their dangling DependsOn (no cascade); graph walks
// tolerate the missing id. Returns false for an unknown task.
func (t *Tracker) Delete(id string) bool {
	if _, ok := t.tasks[id]; !ok {
		return false
	}
	delete(t.tasks, id)
	t.persist()
	return true
}

// ordered returns the live tasks in repository iteration order:
// CreatedAt ascending, ties broken by id. For ids minted by this process
// that is insertion order.
func (t *Tracker) ordered() []*Task {
	out := make([]*Task, 0, len(t.tasks))
	for _, tk := range t.tasks {
		out = append(out, tk)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListAll returns copies of every task in repository iteration order.
func (t *Tracker) ListAll() []Task {
	tasks := t.ordered()
	out := make([]Task, 0, len(tasks))
	for _, tk := range tasks {
		out = append(out, *tk)
	}
	return out
}

// ListByGoal returns tasks owned by the given goal.
func (t *Tracker) ListByGoal(goalID string) []Task {
	var out []Task
	for _, tk := range t.ordered() {
		if tk.GoalID == goalID {
			out = append(out, *tk)
		}
	}
	return out
}

// ListByStatus returns tasks in the given status.
func (t *Tracker) ListByStatus(s Status) []Task {
	var out []Task
	for _, tk := range t.ordered() {
		if tk.Status == s {
			out = append(out, *tk)
		}
	}
	return out
}

// Stats computes aggregate statistics over the full task set.
func (t *Tracker) Stats() TaskStats {
	return statsOf(t.ListAll())
}

// StatsForGoal computes the same statistics restricted to one goal.
func (t *Tracker) StatsForGoal(goalID string) TaskStats {
	return statsOf(t.ListByGoal(goalID))
}

func statsOf(tasks []Task) TaskStats {
	st := TaskStats{
		ByGoal:   make(map[string]int),
		ByStatus: make(map[Status]int),
	}
	for _, tk := range tasks {
		st.Total++
		st.TotalHours += tk.EstimatedHours
		st.ByGoal[tk.GoalID]++
		st.ByStatus[tk.Status]++
		switch tk.Status {
		case StatusTodo:
			st.Todo++
		case StatusInProgress:
			st.InProgress++
			st.InProgressHours += tk.EstimatedHours
		case StatusCompleted:
			st.Completed++
			st.CompletedHours += tk.EstimatedHours
		}
	}
	if st.Total > 0 {
		st.CompletionPercent = float64(st.Completed) / float64(st.Total) * 100
	}
	return st
}

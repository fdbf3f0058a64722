// Package deps interprets each task's single DependsOn reference as a
// directed edge and answers structural queries over the resulting forest:
// blocking tasks, critical path, per-task paths, cycle detection.
//
// The graph is not a general DAG. A task has at most one direct
// predecessor, so the structure is a forest of chains that may share
// predecessors (many dependents, one dependency). Edges are re-derived
// from the task set on every call; there is no cached graph state.
package deps

import (
	"errors"
	"fmt"

	"github.com/Nom-nom-hub/goalkit/internal/task"
)

// Mutation outcomes. Callers branch with errors.Is; all three are
// expected, recoverable conditions rather than process failures.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrSelfDependency   = errors.New("task cannot depend on itself")
	ErrWouldCreateCycle = errors.New("dependency would create a cycle")
)

// Tracker layers dependency-graph queries over a task repository. It
// holds the repository itself, not its data: all mutations go through
// repository methods, and changes made through either handle are
// immediately visible to the other.
type Tracker struct {
	tasks *task.Tracker
}

// NewTracker wraps an existing task repository.
func NewTracker(t *task.Tracker) *Tracker {
	return &Tracker{tasks: t}
}

// AddDependency makes taskID depend on dependsOnID. The single-parent
// model means a prior dependency on taskID is silently overwritten, not
// added alongside. Returns ErrTaskNotFound (wrapping the missing id),
// ErrSelfDependency, or ErrWouldCreateCycle; nil means the edge was
// persisted.
func (d *Tracker) AddDependency(taskID, dependsOnID string) error {
	if d.tasks.Get(taskID) == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if d.tasks.Get(dependsOnID) == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, dependsOnID)
	}
	if taskID == dependsOnID {
		return ErrSelfDependency
	}

	// Walk the chain upward from the proposed predecessor. Reaching
	// taskID means the new edge would close a cycle. The seen set guards
	// against a pre-existing cycle in a hand-edited store.
	seen := make(map[string]bool)
	cur := dependsOnID
	for {
		if cur == taskID {
			return ErrWouldCreateCycle
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		tk := d.tasks.Get(cur)
		if tk == nil || tk.DependsOn == nil {
			break
		}
		cur = *tk.DependsOn
	}

	dep := dependsOnID
	d.tasks.SetDependency(taskID, &dep)
	return nil
}

// RemoveDependency clears the task's dependency. It returns true whenever
// the task exists, including when it had no dependency to clear; false
// only for an unknown task.
func (d *Tracker) RemoveDependency(taskID string) bool {
	return d.tasks.SetDependency(taskID, nil)
}

// GetDependencies returns the direct predecessor of a task as a list for
// API uniformity; cardinality is 0 or 1.
func (d *Tracker) GetDependencies(taskID string) []string {
	tk := d.tasks.Get(taskID)
	if tk == nil || tk.DependsOn == nil {
		return []string{}
	}
	return []string{*tk.DependsOn}
}

// GetDependents returns every task whose DependsOn points at taskID, in
// repository iteration order.
func (d *Tracker) GetDependents(taskID string) []string {
	var out []string
	for _, tk := range d.tasks.ListAll() {
		if tk.DependsOn != nil && *tk.DependsOn == taskID {
			out = append(out, tk.ID)
		}
	}
	return out
}

// GetBlockingTasks returns tasks that are currently preventing other
// incomplete work: not completed themselves, with at least one dependent
// that is also not completed. A completed task never blocks, and a task
// whose dependents are all done is not reported.
func (d *Tracker) GetBlockingTasks() []string {
	all := d.tasks.ListAll()

	// predecessors that some incomplete task is waiting on
	waiting := make(map[string]bool)
	for _, tk := range all {
		if tk.DependsOn != nil && tk.Status != task.StatusCompleted {
			waiting[*tk.DependsOn] = true
		}
	}

	var out []string
	for _, tk := range all {
		if tk.Status != task.StatusCompleted && waiting[tk.ID] {
			out = append(out, tk.ID)
		}
	}
	return out
}

// GetCriticalPath returns the single longest dependency chain, ordered
// root to tip. Where the forest branches (several tasks depending on one
// predecessor) every branch is explored and the true longest chain wins;
// ties go to the first chain found in repository iteration order. The
// result is empty when no dependency edges exist at all.
func (d *Tracker) GetCriticalPath() []task.Task {
	all := d.tasks.ListAll()

	byID := make(map[string]task.Task, len(all))
	dependents := make(map[string][]string)
	hasEdges := false
	for _, tk := range all {
		byID[tk.ID] = tk
		if tk.DependsOn != nil {
			dependents[*tk.DependsOn] = append(dependents[*tk.DependsOn], tk.ID)
			hasEdges = true
		}
	}
	if !hasEdges {
		return []task.Task{}
	}

	var best []string
	for _, tk := range all {
		if tk.DependsOn != nil {
			continue // not a chain root
		}
		chain := longestFrom(tk.ID, dependents, map[string]bool{})
		if len(chain) > len(best) {
			best = chain
		}
	}

	path := make([]task.Task, 0, len(best))
	for _, id := range best {
		path = append(path, byID[id])
	}
	return path
}

// longestFrom returns the longest downstream chain starting at id,
// inclusive. The visited set guards against cycles in stores mutated
// out-of-band.
func longestFrom(id string, dependents map[string][]string, visited map[string]bool) []string {
	visited[id] = true
	defer delete(visited, id)

	best := []string{id}
	for _, dep := range dependents[id] {
		if visited[dep] {
			continue
		}
		chain := append([]string{id}, longestFrom(dep, dependents, visited)...)
		if len(chain) > len(best) {
			best = chain
		}
	}
	return best
}

// GetPathForTask walks backward from the task to its chain root and
// returns the path in root-to-task order. The walk stops gracefully at a
// dangling reference (a predecessor deleted out from under its
// dependents), returning the partial path.
func (d *Tracker) GetPathForTask(taskID string) []task.Task {
	var reversed []task.Task
	seen := make(map[string]bool)
	cur := taskID
	for {
		tk := d.tasks.Get(cur)
		if tk == nil || seen[cur] {
			break
		}
		seen[cur] = true
		reversed = append(reversed, *tk)
		if tk.DependsOn == nil {
			break
		}
		cur = *tk.DependsOn
	}

	path := make([]task.Task, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// GetDependencyGraph exports the full adjacency map: every task id is a
// key, the value its predecessor list ([] or a singleton). This is the
// shape consumed by graph visualization and JSON output.
func (d *Tracker) GetDependencyGraph() map[string][]string {
	out := make(map[string][]string)
	for _, tk := range d.tasks.ListAll() {
		if tk.DependsOn != nil {
			out[tk.ID] = []string{*tk.DependsOn}
		} else {
			out[tk.ID] = []string{}
		}
	}
	return out
}

// DetectCircularDependencies sweeps every task's chain and reports each
// distinct cycle found, as the ordered ids forming it. AddDependency
// prevents cycles on the live mutation path, so a non-empty result means
// the store was edited or corrupted out-of-band. Each cycle is reported
// once, rotated to start at its smallest id.
func (d *Tracker) DetectCircularDependencies() [][]string {
	all := d.tasks.ListAll()
	next := make(map[string]string)
	for _, tk := range all {
		if tk.DependsOn != nil {
			next[tk.ID] = *tk.DependsOn
		}
	}

	reported := make(map[string]bool)
	var cycles [][]string
	for _, tk := range all {
		pos := make(map[string]int)
		var walk []string
		cur := tk.ID
		for {
			if at, ok := pos[cur]; ok {
				cycle := canonicalCycle(walk[at:])
				key := fmt.Sprint(cycle)
				if !reported[key] {
					reported[key] = true
					cycles = append(cycles, cycle)
				}
				break
			}
			pos[cur] = len(walk)
			walk = append(walk, cur)
			nxt, ok := next[cur]
			if !ok {
				break
			}
			cur = nxt
		}
	}
	return cycles
}

// canonicalCycle rotates a cycle so it starts at its smallest id, giving
// the same cycle an identical representation no matter where the sweep
// entered it.
func canonicalCycle(ids []string) []string {
	min := 0
	for i, id := range ids {
		if id < ids[min] {
			min = i
		}
	}
	out := make([]string, 0, len(ids))
	out = append(out, ids[min:]...)
	out = append(out, ids[:min]...)
	return out
}

package task

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is one unit of work under a goal. GoalID is an opaque foreign key;
// the goal is not required to exist. DependsOn holds at most one upstream
// task id (single-parent dependency model), nil means the task can start
// immediately.
type Task struct {
	ID             string     `json:"id"`
	GoalID         string     `json:"goal_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	EstimatedHours float64    `json:"estimated_hours"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	DependsOn      *string    `json:"depends_on"`
}

// FieldUpdate describes a partial update; nil fields are left unchanged.
type FieldUpdate struct {
	Title          *string
	Description    *string
	EstimatedHours *float64
}

// TaskStats is an aggregate view over a task set, recomputed on demand
// and never persisted.
type TaskStats struct {
	Total             int            `json:"total"`
	Todo              int            `json:"todo"`
	InProgress        int            `json:"in_progress"`
	Completed         int            `json:"completed"`
	CompletionPercent float64        `json:"completion_percent"`
	TotalHours        float64        `json:"total_estimated_hours"`
	CompletedHours    float64        `json:"completed_hours"`
	InProgressHours   float64        `json:"in_progress_hours"`
	ByGoal            map[string]int `json:"by_goal"`
	ByStatus          map[Status]int `json:"by_status"`
}

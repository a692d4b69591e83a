package models

import "time"

// Priority is the task urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the task lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next advances the status along the fixed ring
// pending -> in_progress -> completed -> pending. Direct edits may set any
// status; the ring only constrains the cycle action.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	case StatusCompleted:
		return StatusPending
	}
	return StatusPending
}

// Rank orders statuses for display: pending first, completed last.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return 3
}

// DueDateLayout is the calendar-date representation used throughout:
// the store persists it, filters compare against it, and clients submit it.
const DueDateLayout = "2006-01-02"

// Task is a user-owned todo item. OwnerID is stamped at creation and never
// changes afterwards.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     string    `json:"due_date"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Category    string    `json:"category,omitempty"`
	OwnerID     string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Due parses the task's due date. Tasks are validated on the way in, so a
// parse failure here means a corrupted record; callers treat it as never due.
func (t Task) Due() (time.Time, bool) {
	due, err := time.ParseInLocation(DueDateLayout, t.DueDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// CreateTaskRequest is the POST /tasks payload. Title and due date are
// required; priority and status fall back to their defaults.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Category    string   `json:"category"`
}

// UpdateTaskRequest is the PUT /tasks/{id} payload. Nil fields are left
// untouched; owner and ID cannot be changed through an update.
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"due_date"`
	Priority    *Priority `json:"priority"`
	Status      *Status   `json:"status"`
	Category    *string   `json:"category"`
}

// Summary aggregates a user's tasks for the analytics view.
type Summary struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"by_status"`
	ByPriority map[Priority]int `json:"by_priority"`
	Overdue    int              `json:"overdue"`
}

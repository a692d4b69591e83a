package audit

import "time"

// Action names an audited event.
type Action string

const (
	// Identity events
	ActionUserRegistered Action = "user_registered"
	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"

	// Task events
	ActionTaskCreated Action = "task_created"
	ActionTaskUpdated Action = "task_updated"
	ActionTaskDeleted Action = "task_deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	Subject   string    `json:"subject,omitempty"` // task ID, email, etc.
	Reason    string    `json:"reason,omitempty"`  // failure detail for *_failed actions
	RequestID string    `json:"request_id,omitempty"`
}

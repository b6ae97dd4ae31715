// Package queue defines message payloads exchanged over the message broker.
package queue

// Action kinds carried by AdminActionEvent.
const (
	ActionUserCreated = "user.created"
	ActionUserUpdated = "user.updated"
	ActionUserDeleted = "user.deleted"
	ActionRoleCreated = "role.created"
	ActionRoleUpdated = "role.updated"
	ActionRoleDeleted = "role.deleted"
)

// AdminActionEvent is published after a successful user or role
// mutation. It carries enough for downstream consumers to log or audit
// the action without querying the primary database. Publication is
// fire-and-forget; the mutation has already committed when it is sent.
type AdminActionEvent struct {
	Action     string `json:"action"`
	SubjectID  int64  `json:"subject_id"`
	Subject    string `json:"subject"` // login or role name
	OccurredAt string `json:"occurred_at"`
}

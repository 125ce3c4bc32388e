package audit

import "time"

// Action is the kind of mutation an audit record describes.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionInsert, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// DefaultActor is recorded when the caller supplies no identity.
const DefaultActor = "system"

// Record is an immutable entry in the audit log.
type Record struct {
	ID        int64     `json:"id"`
	TableName string    `json:"table_name"`
	RowID     string    `json:"row_id"`
	Action    Action    `json:"action"`
	OldData   Snapshot  `json:"old_data"`
	NewData   Snapshot  `json:"new_data"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Context   *string   `json:"context"`
}

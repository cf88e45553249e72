package model

import (
	"encoding/json"
	"time"
)

// Activity action types recorded in the activity log.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionToggled       = "toggled"
	ActionExported      = "exported"
	ActionRequest       = "request"
)

// ActivityLog is an append-only audit record. Rows are never updated or
// deleted.
type ActivityLog struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	UserID      *string         `json:"user_id,omitempty"`
	ActionType  string          `json:"action_type"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

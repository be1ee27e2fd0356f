package dto

import "time"

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	Actor     *UserResponse `json:"actor,omitempty"`
	Action    string        `json:"action"`
	Entity    string        `json:"entity,omitempty"`
	EntityID  string        `json:"entity_id,omitempty"`
	OldValue  interface{}   `json:"old_value,omitempty"`
	NewValue  interface{}   `json:"new_value,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs   []AuditLogResponse `json:"logs"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// Request DTOs

type AuditLogQuery struct {
	Action string `validate:"omitempty,max=100"`
	Entity string `validate:"omitempty,max=50"`
	Limit  int    `validate:"omitempty,min=1,max=200"`
	Offset int    `validate:"omitempty,min=0"`
}

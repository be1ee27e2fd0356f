package converter

import (
	"testing"
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogToResponse(t *testing.T) {
	actorID := uuid.New()
	log := &entity.AuditLog{
		ID:     7,
		UserID: &actorID,
		Action: entity.AuditActionBillingPaid,
		Metadata: entity.JSON{
			"entity":    "billing",
			"entity_id": "b-1",
			"old_value": map[string]interface{}{"status": "pending"},
			"new_value": map[string]interface{}{"status": "paid"},
		},
		CreatedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		User:      &entity.User{ID: actorID, Name: "Admin", Role: entity.RoleAdmin},
	}

	resp := AuditLogToResponse(log)
	require.NotNil(t, resp)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "billing", resp.Entity)
	assert.Equal(t, "b-1", resp.EntityID)
	assert.Equal(t, map[string]interface{}{"status": "pending"}, resp.OldValue)
	assert.Equal(t, map[string]interface{}{"status": "paid"}, resp.NewValue)
	require.NotNil(t, resp.Actor)
	assert.Equal(t, actorID, resp.Actor.ID)
}

func TestAuditLogToResponse_SystemEntry(t *testing.T) {
	resp := AuditLogToResponse(&entity.AuditLog{ID: 1, Action: entity.AuditActionUserRegister})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Actor)
	assert.Empty(t, resp.Entity)
	assert.Nil(t, AuditLogToResponse(nil))
	assert.Empty(t, AuditLogsToResponses(nil))
}

package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// AuditLogToResponse lifts the entity and value snapshot out of the stored
// metadata so clients do not have to know its layout.
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	resp := &dto.AuditLogResponse{
		ID:        log.ID,
		Action:    log.Action,
		CreatedAt: log.CreatedAt,
	}
	if log.User != nil {
		resp.Actor = UserToResponse(log.User)
	}

	if log.Metadata != nil {
		resp.Entity = metadataString(log.Metadata, "entity")
		resp.EntityID = metadataString(log.Metadata, "entity_id")
		resp.OldValue = log.Metadata["old_value"]
		resp.NewValue = log.Metadata["new_value"]
	}

	return resp
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *AuditLogToResponse(&logs[i]))
	}
	return responses
}

func metadataString(metadata entity.JSON, key string) string {
	value, _ := metadata[key].(string)
	return value
}

package service

import (
	"encoding/json"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"

	"github.com/google/uuid"
)

// auditEntry builds an AuditLog row for the acting principal. The payload is
// serialized best-effort; an unserializable payload just leaves Details empty.
func auditEntry(principal middleware.Principal, action, entityID, entityName string, payload interface{}) model.AuditLog {
	entry := model.AuditLog{
		StoreID:    principal.StoreID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if id, err := uuid.Parse(principal.ID); err == nil {
		entry.UserID = &id
	}
	if payload != nil {
		if details, err := json.Marshal(payload); err == nil {
			entry.Details = string(details)
		}
	}
	return entry
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerID   *uuid.UUID      `json:"customerId,omitempty" db:"customer_id"`
	UserID       *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	Action       string          `json:"action" db:"action"`
	ResourceType string          `json:"resourceType" db:"resource_type"`
	ResourceID   *uuid.UUID      `json:"resourceId,omitempty" db:"resource_id"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

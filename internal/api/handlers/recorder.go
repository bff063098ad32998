package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/audit"
)

// AuditLogger records a mutation row.
type AuditLogger interface {
	Log(ctx context.Context, entry audit.LogEntry) error
}

// WebhookNotifier fans an event out to the customer's subscriptions.
type WebhookNotifier interface {
	Dispatch(ctx context.Context, customerID uuid.UUID, event string, payload interface{})
}

// MutationRecorder is the shared side-effect sink for write handlers: one
// audit row plus a webhook dispatch per successful mutation. Failures are
// logged and never surfaced to the caller; the mutation already committed.
type MutationRecorder struct {
	auditor  AuditLogger
	notifier WebhookNotifier
	logger   *slog.Logger
}

func NewMutationRecorder(auditor AuditLogger, notifier WebhookNotifier, logger *slog.Logger) *MutationRecorder {
	return &MutationRecorder{auditor: auditor, notifier: notifier, logger: logger}
}

func (m *MutationRecorder) Record(ctx context.Context, event, resourceType string, resourceID *uuid.UUID, payload interface{}) {
	if m == nil {
		return
	}
	userID, customerID := userIdentity(ctx)

	if m.auditor != nil {
		entry := audit.LogEntry{
			CustomerID:   customerID,
			UserID:       userID,
			Action:       event,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Details:      toDetails(payload),
		}
		if err := m.auditor.Log(ctx, entry); err != nil {
			m.logger.Warn("audit log failed", "action", event, "error", err)
		}
	}

	if m.notifier != nil && customerID != nil {
		m.notifier.Dispatch(ctx, *customerID, event, payload)
	}
}

func toDetails(payload interface{}) map[string]interface{} {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var details map[string]interface{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil
	}
	return details
}

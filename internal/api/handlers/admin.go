package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/audit"
	"github.com/openlms/lmsadmin/internal/models"
)

type AuditReader interface {
	List(ctx context.Context, customerID uuid.UUID, q audit.Query) ([]models.AuditLog, error)
}

type AdminHandler struct {
	audits   AuditReader
	resolver TenantResolver
}

func NewAdminHandler(audits AuditReader, resolver TenantResolver) *AdminHandler {
	return &AdminHandler{audits: audits, resolver: resolver}
}

// ListAuditLogs returns the caller's customer audit trail, newest first.
// Supports ?action=, ?limit= and ?offset= filters.
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.resolver.RequireCustomer(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := audit.Query{Action: r.URL.Query().Get("action")}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		q.Offset = v
	}

	logs, err := h.audits.List(r.Context(), customerID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	writeJSON(w, http.StatusOK, logs)
}

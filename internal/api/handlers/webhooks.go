package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/models"
	"github.com/openlms/lmsadmin/internal/webhook"
)

type WebhookService interface {
	Create(ctx context.Context, customerID uuid.UUID, req webhook.CreateRequest) (*models.Webhook, error)
	List(ctx context.Context, customerID uuid.UUID) ([]models.Webhook, error)
	Delete(ctx context.Context, customerID, id uuid.UUID) error
}

type WebhookHandler struct {
	svc      WebhookService
	resolver TenantResolver
}

func NewWebhookHandler(svc WebhookService, resolver TenantResolver) *WebhookHandler {
	return &WebhookHandler{svc: svc, resolver: resolver}
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.resolver.RequireCustomer(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req webhook.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.URL == "" {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "Webhook URL is required"))
		return
	}
	if len(req.Events) == 0 {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "At least one event is required"))
		return
	}

	wh, err := h.svc.Create(r.Context(), customerID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, wh)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.resolver.RequireCustomer(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	webhooks, err := h.svc.List(r.Context(), customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if webhooks == nil {
		webhooks = []models.Webhook{}
	}

	writeJSON(w, http.StatusOK, webhooks)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.resolver.RequireCustomer(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid webhook ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), customerID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Webhook deleted successfully")
}

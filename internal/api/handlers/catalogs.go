package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/auth"
	"github.com/openlms/lmsadmin/internal/catalog"
	"github.com/openlms/lmsadmin/internal/models"
	"github.com/openlms/lmsadmin/internal/queue"
)

type CatalogService interface {
	List(ctx context.Context, customerID uuid.UUID) ([]models.Catalog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Catalog, error)
	Create(ctx context.Context, customerID uuid.UUID, req catalog.CreateRequest) (*models.Catalog, error)
	Update(ctx context.Context, id uuid.UUID, req catalog.UpdateRequest) (*models.Catalog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVersion(ctx context.Context, catalogID, courseID uuid.UUID) error
	RemoveVersion(ctx context.Context, catalogID, courseID uuid.UUID) error
}

// TenantResolver yields the caller's customer id for tenant-scoped routes.
type TenantResolver interface {
	RequireCustomer(ctx context.Context) (uuid.UUID, error)
}

type CatalogHandler struct {
	svc      CatalogService
	resolver TenantResolver
	recorder *MutationRecorder
}

func NewCatalogHandler(svc CatalogService, resolver TenantResolver, recorder *MutationRecorder) *CatalogHandler {
	return &CatalogHandler{svc: svc, resolver: resolver, recorder: recorder}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.resolver.RequireCustomer(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	catalogs, err := h.svc.List(r.Context(), customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if catalogs == nil {
		catalogs = []models.Catalog{}
	}

	writeJSON(w, http.StatusOK, catalogs)
}

// Get serves any catalog by id without a tenant check. List and Create are
// tenant-scoped; this asymmetry is intentional until the authorization model
// is revisited (see DESIGN.md).
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid catalog ID"))
		return
	}

	c, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.resolver.RequireCustomer(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), customerID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventCatalogCreated, "catalog", &c.ID, c)
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid catalog ID"))
		return
	}

	var req catalog.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventCatalogUpdated, "catalog", &c.ID, c)
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid catalog ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventCatalogDeleted, "catalog", &id, nil)
	writeMessage(w, http.StatusOK, "Catalog deleted successfully")
}

type versionRequest struct {
	CatalogID uuid.UUID `json:"catalogId"`
	CourseID  uuid.UUID `json:"courseId"`
}

func (h *CatalogHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	var req versionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.AddVersion(r.Context(), req.CatalogID, req.CourseID); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventVersionAdded, "catalog", &req.CatalogID, req)
	writeMessage(w, http.StatusOK, "Version added to catalog successfully")
}

func (h *CatalogHandler) RemoveVersion(w http.ResponseWriter, r *http.Request) {
	var req versionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.RemoveVersion(r.Context(), req.CatalogID, req.CourseID); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventVersionRemoved, "catalog", &req.CatalogID, req)
	writeMessage(w, http.StatusOK, "Version removed from catalog successfully")
}

// userIdentity pulls the acting user/customer hint from the verified claims.
func userIdentity(ctx context.Context) (userID, customerID *uuid.UUID) {
	claims := auth.ClaimsFromContext(ctx)
	if claims == nil {
		return nil, nil
	}
	uid := claims.UserID
	return &uid, claims.CustomerID
}

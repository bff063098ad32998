package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/models"
	"github.com/openlms/lmsadmin/internal/scorm"
)

type ScormService interface {
	Create(ctx context.Context, req scorm.CreateRequest) (*models.ScormPackage, error)
	List(ctx context.Context) ([]models.ScormPackage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScormPackage, error)
	Update(ctx context.Context, id uuid.UUID, req scorm.UpdateRequest) (*models.ScormPackage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ScormHandler struct {
	svc      ScormService
	recorder *MutationRecorder
}

func NewScormHandler(svc ScormService, recorder *MutationRecorder) *ScormHandler {
	return &ScormHandler{svc: svc, recorder: recorder}
}

func (h *ScormHandler) List(w http.ResponseWriter, r *http.Request) {
	packages, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if packages == nil {
		packages = []models.ScormPackage{}
	}

	writeJSON(w, http.StatusOK, packages)
}

func (h *ScormHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid SCORM package ID"))
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *ScormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req scorm.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), "scorm_package.created", "scorm_package", &p.ID, p)
	writeJSON(w, http.StatusCreated, p)
}

func (h *ScormHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid SCORM package ID"))
		return
	}

	var req scorm.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), "scorm_package.updated", "scorm_package", &p.ID, p)
	writeJSON(w, http.StatusOK, p)
}

func (h *ScormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid SCORM package ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), "scorm_package.deleted", "scorm_package", &id, nil)
	writeMessage(w, http.StatusOK, "SCORM package deleted successfully")
}

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/course"
	"github.com/openlms/lmsadmin/internal/models"
	"github.com/openlms/lmsadmin/internal/queue"
)

type CourseService interface {
	Create(ctx context.Context, req course.CreateRequest) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, req course.UpdateRequest) (*models.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddPackage(ctx context.Context, courseID, packageID uuid.UUID) error
	RemovePackage(ctx context.Context, courseID, packageID uuid.UUID) error
}

type CourseHandler struct {
	svc      CourseService
	recorder *MutationRecorder
}

func NewCourseHandler(svc CourseService, recorder *MutationRecorder) *CourseHandler {
	return &CourseHandler{svc: svc, recorder: recorder}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}

	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid course ID"))
		return
	}

	c, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req course.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventCourseCreated, "course", &c.ID, c)
	writeJSON(w, http.StatusCreated, c)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid course ID"))
		return
	}

	var req course.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventCourseUpdated, "course", &c.ID, c)
	writeJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, apperr.New(apperr.CodeInvalid, "invalid course ID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventCourseDeleted, "course", &id, nil)
	writeMessage(w, http.StatusOK, "Course deleted successfully")
}

type packageRequest struct {
	CourseID       uuid.UUID `json:"courseId"`
	ScormPackageID uuid.UUID `json:"scormPackageId"`
}

func (h *CourseHandler) AddPackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.AddPackage(r.Context(), req.CourseID, req.ScormPackageID); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventPackageLinked, "course", &req.CourseID, req)
	writeMessage(w, http.StatusOK, "SCORM package added to course successfully")
}

func (h *CourseHandler) RemovePackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.RemovePackage(r.Context(), req.CourseID, req.ScormPackageID); err != nil {
		writeError(w, r, err)
		return
	}

	h.recorder.Record(r.Context(), queue.EventPackageUnlinked, "course", &req.CourseID, req)
	writeMessage(w, http.StatusOK, "SCORM package removed from course successfully")
}

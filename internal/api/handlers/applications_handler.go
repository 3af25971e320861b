package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/campushire/backend/internal/api/middleware"
	"github.com/campushire/backend/internal/api/types"
	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/services"
	appErr "github.com/campushire/backend/pkg/errors"
)

type ApplicationsHandler struct {
	apps services.ApplicationService
}

func NewApplicationsHandler(apps services.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{apps: apps}
}

func (h *ApplicationsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	var req struct {
		JobID       string `json:"job_id"`
		CoverLetter string `json:"cover_letter"`
		ResumeURL   string `json:"resume_url"`
	}
	if !decode(w, r, &req) {
		return
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "invalid job_id")
		return
	}

	app, err := h.apps.Submit(r.Context(), caller, &services.SubmitApplicationInput{
		JobID:       jobID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: app})
}

func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	apps, err := h.apps.ListForStudent(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    apps,
		Meta:    &types.Meta{Count: len(apps)},
	})
}

func (h *ApplicationsHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	jobID, ok := pathID(w, r, "jobId")
	if !ok {
		return
	}
	apps, err := h.apps.ListForJob(r.Context(), caller, jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    apps,
		Meta:    &types.Meta{Count: len(apps)},
	})
}

func (h *ApplicationsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	apps, err := h.apps.ListAll(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    apps,
		Meta:    &types.Meta{Count: len(apps)},
	})
}

func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	app, err := h.apps.UpdateStatus(r.Context(), caller, id, models.ApplicationStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: app})
}

func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.apps.Withdraw(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "application withdrawn"})
}

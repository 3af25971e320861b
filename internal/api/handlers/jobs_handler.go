package handlers

import (
	"net/http"
	"time"

	"github.com/campushire/backend/internal/api/middleware"
	"github.com/campushire/backend/internal/api/types"
	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/services"
	appErr "github.com/campushire/backend/pkg/errors"
)

type JobsHandler struct {
	jobs services.JobService
}

func NewJobsHandler(jobs services.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	var req struct {
		Title          string   `json:"title"`
		Company        string   `json:"company"`
		Description    string   `json:"description"`
		Requirements   string   `json:"requirements"`
		Location       string   `json:"location"`
		Salary         string   `json:"salary"`
		JobType        string   `json:"job_type"`
		Deadline       string   `json:"deadline"`
		MinCGPA        *float64 `json:"min_cgpa"`
		RequiredSkills []string `json:"required_skills"`
	}
	if !decode(w, r, &req) {
		return
	}

	var deadline time.Time
	if req.Deadline != "" {
		var err error
		if deadline, err = time.Parse(time.RFC3339, req.Deadline); err != nil {
			writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "deadline must be an RFC 3339 timestamp")
			return
		}
	}

	job, err := h.jobs.Create(r.Context(), caller, &services.CreateJobInput{
		Title:          req.Title,
		Company:        req.Company,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Location:       req.Location,
		Salary:         req.Salary,
		JobType:        models.JobType(req.JobType),
		Deadline:       deadline,
		MinCGPA:        req.MinCGPA,
		RequiredSkills: req.RequiredSkills,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: job})
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	q := r.URL.Query()
	views, err := h.jobs.List(r.Context(), caller, &services.ListJobsFilter{
		Status:  models.JobStatus(q.Get("status")),
		Company: q.Get("company"),
		JobType: models.JobType(q.Get("job_type")),
		Search:  q.Get("search"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    views,
		Meta:    &types.Meta{Count: len(views)},
	})
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.jobs.Get(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: view})
}

func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch map[string]any
	if !decode(w, r, &patch) {
		return
	}
	job, err := h.jobs.Update(r.Context(), caller, id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: job})
}

func (h *JobsHandler) Close(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	job, err := h.jobs.Close(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: job})
}

func (h *JobsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	job, err := h.jobs.Approve(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: job})
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.jobs.Delete(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "job deleted"})
}

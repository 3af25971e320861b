package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campushire/backend/internal/aggregator"
	"github.com/campushire/backend/internal/api/types"
)

type ExternalJobsHandler struct {
	agg *aggregator.Service
}

func NewExternalJobsHandler(agg *aggregator.Service) *ExternalJobsHandler {
	return &ExternalJobsHandler{agg: agg}
}

func (h *ExternalJobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	listings := h.agg.Fetch(r.Context(), q.Get("source"), q.Get("query"), q.Get("location"), limit)

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Message: fmt.Sprintf("found %d external jobs", len(listings)),
		Data:    listings,
		Meta: &types.Meta{
			Count:    len(listings),
			Query:    q.Get("query"),
			Location: q.Get("location"),
			Source:   q.Get("source"),
		},
	})
}

func (h *ExternalJobsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: aggregator.Categories()})
}

func (h *ExternalJobsHandler) PopularLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: aggregator.PopularLocations()})
}

func (h *ExternalJobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query      string `json:"query"`
		Location   string `json:"location"`
		Category   string `json:"category"`
		Experience string `json:"experience"`
		JobType    string `json:"job_type"`
		Salary     string `json:"salary"`
		Source     string `json:"source"`
		Limit      int    `json:"limit"`
	}
	if !decode(w, r, &req) {
		return
	}

	listings, effectiveQuery := h.agg.Search(r.Context(), aggregator.SearchInput{
		Query:      req.Query,
		Location:   req.Location,
		Category:   req.Category,
		Experience: req.Experience,
		JobType:    req.JobType,
		Salary:     req.Salary,
		Source:     req.Source,
		Limit:      req.Limit,
	})

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Message: fmt.Sprintf("found %d jobs matching your criteria", len(listings)),
		Data:    listings,
		Meta: &types.Meta{
			Count:    len(listings),
			Query:    effectiveQuery,
			Location: req.Location,
			Source:   req.Source,
		},
	})
}

func (h *ExternalJobsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobId")
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: h.agg.Detail(id)})
}

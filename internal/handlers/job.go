package handlers

import (
	"context"
	"net/http"

	"directory-bknd/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const jobsErrorMessage = "Failed to load jobs. Please try again."

type JobSearcher interface {
	SearchByCompany(ctx context.Context, companyID string, page, limit int) (*models.JobSearchResult, error)
}

type JobHandler struct {
	service JobSearcher
	logr    *zap.Logger
}

func NewJobHandler(svc JobSearcher, logr *zap.Logger) *JobHandler {
	return &JobHandler{service: svc, logr: logr}
}

// GET /api/v1/locations/{id}/jobs
func (h *JobHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	res, err := h.service.SearchByCompany(r.Context(), id, intParam(q, "page", 1), intParam(q, "limit", 10))
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			writeError(w, http.StatusBadRequest, "invalid location id")
			return
		}
		h.logr.Error("failed to fetch jobs", zap.Error(err), zap.String("location_id", id))
		writeError(w, http.StatusBadGateway, jobsErrorMessage)
		return
	}
	writeData(w, http.StatusOK, res)
}

package handlers

import (
	"context"
	"net/http"

	"directory-bknd/internal/carousel"
	"directory-bknd/internal/config"
	"directory-bknd/internal/models"
	"directory-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LocationReader is the read side of the location service.
type LocationReader interface {
	Search(ctx context.Context, q models.LocationQuery) (*models.LocationPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.Location, error)
	Featured(ctx context.Context) ([]models.Location, error)
}

type LocationHandler struct {
	service LocationReader
	links   config.Links
	logr    *zap.Logger
}

func NewLocationHandler(svc LocationReader, links config.Links, logr *zap.Logger) *LocationHandler {
	return &LocationHandler{service: svc, links: links, logr: logr}
}

// ProviderDetail is everything the provider page renders.
type ProviderDetail struct {
	Location *models.Location      `json:"location"`
	Slides   []models.Slide        `json:"slides"`
	Metadata services.PageMetadata `json:"metadata"`
	Links    config.Links          `json:"links"`
}

// GET /api/v1/locations
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := parseLocationQuery(r.URL.Query())

	page, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.logr.Error("failed to search locations", zap.Error(err), zap.Any("query", q))
		writeError(w, statusFor(err), "failed to retrieve locations")
		return
	}
	writeData(w, http.StatusOK, page)
}

// GET /api/v1/locations/featured
func (h *LocationHandler) Featured(w http.ResponseWriter, r *http.Request) {
	locs, err := h.service.Featured(r.Context())
	if err != nil {
		h.logr.Error("failed to load featured locations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve featured locations")
		return
	}
	writeData(w, http.StatusOK, locs)
}

// GET /api/v1/locations/slug/{slug}
func (h *LocationHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	loc, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		if statusFor(err) != http.StatusInternalServerError {
			writeJSON(w, http.StatusNotFound, envelope{
				Error:    "provider not found",
				NotFound: true,
				Data:     map[string]any{"metadata": services.NotFoundMetadata(h.links.AppURL)},
			})
			return
		}
		h.logr.Error("failed to get location", zap.Error(err), zap.String("slug", slug))
		writeJSON(w, http.StatusInternalServerError, envelope{
			Error: "failed to retrieve provider",
			Data:  map[string]any{"metadata": services.FallbackMetadata(h.links.AppURL)},
		})
		return
	}

	writeData(w, http.StatusOK, ProviderDetail{
		Location: loc,
		Slides:   carousel.ResolveSlides(loc.Slides()),
		Metadata: services.ProviderMetadata(h.links.AppURL, loc.Slug, loc),
		Links:    h.links,
	})
}

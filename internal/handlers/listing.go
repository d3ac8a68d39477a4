package handlers

import (
	"net/http"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/filters"
	"directory-bknd/internal/listing"
	"directory-bknd/internal/models"

	"go.uber.org/zap"
)

// ListingHandler renders listing view models for a URL query in one request.
// Interactive listings go through the websocket session instead.
type ListingHandler struct {
	fetcher listing.Fetcher
	limit   int
	logr    *zap.Logger
}

func NewListingHandler(fetcher listing.Fetcher, limit int, logr *zap.Logger) *ListingHandler {
	return &ListingHandler{fetcher: fetcher, limit: limit, logr: logr}
}

// GET /api/v1/listing
func (h *ListingHandler) Directory(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, listing.ScopeDirectory, "")
}

// GET /api/v1/favorites/listing
func (h *ListingHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, listing.ScopeFavorites, auth.FromContext(r.Context()).UserID())
}

func (h *ListingHandler) render(w http.ResponseWriter, r *http.Request, scope listing.Scope, userID string) {
	values := r.URL.Query()
	q := filters.Decode(values).Query(h.limit, userID)

	st := listing.Status{Query: q}
	page, err := h.fetcher.Search(r.Context(), q)
	if err != nil {
		h.logr.Error("failed to fetch listing", zap.Error(err), zap.String("scope", string(scope)))
		st.Err = listing.FetchErrorMessage
	} else {
		if page == nil {
			page = &models.LocationPage{}
		}
		if page.Data == nil {
			page.Data = []models.Location{}
		}
		st.Page = page
	}

	view := listing.BuildView(scope, values, st)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, envelope{Error: st.Err, Data: view})
		return
	}
	writeData(w, http.StatusOK, view)
}

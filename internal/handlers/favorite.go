package handlers

import (
	"context"
	"net/http"
	"strings"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/listing"
	"directory-bknd/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FavoriteManager interface {
	Toggle(ctx context.Context, userID, locationID string) (*models.ToggleResult, error)
	Create(ctx context.Context, userID, locationID string) (string, error)
	Delete(ctx context.Context, userID, favoriteID string) error
	Refs(ctx context.Context, userID string) ([]models.FavoriteRef, error)
}

// FavoriteHandler serves the favorites API. Every route sits behind
// RequireUser, so the session always carries a user.
type FavoriteHandler struct {
	favorites FavoriteManager
	locations listing.Fetcher
	logr      *zap.Logger
}

func NewFavoriteHandler(favorites FavoriteManager, locations listing.Fetcher, logr *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, locations: locations, logr: logr}
}

type favoriteReq struct {
	LocationID string `json:"locationId"`
}

func (req favoriteReq) valid() bool {
	return strings.TrimSpace(req.LocationID) != ""
}

// GET /api/v1/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.FromContext(r.Context()).UserID()
	q := parseLocationQuery(r.URL.Query())
	q.UserID = userID

	page, err := h.locations.Search(r.Context(), q)
	if err != nil {
		h.logr.Error("failed to list favorites", zap.Error(err), zap.String("user_id", userID))
		writeError(w, statusFor(err), "failed to retrieve favorites")
		return
	}
	writeData(w, http.StatusOK, page)
}

// GET /api/v1/favorites/ids
func (h *FavoriteHandler) IDs(w http.ResponseWriter, r *http.Request) {
	userID := auth.FromContext(r.Context()).UserID()

	refs, err := h.favorites.Refs(r.Context(), userID)
	if err != nil {
		h.logr.Error("failed to list favorite ids", zap.Error(err), zap.String("user_id", userID))
		writeError(w, statusFor(err), "failed to retrieve favorites")
		return
	}
	writeData(w, http.StatusOK, refs)
}

// POST /api/v1/favorites
func (h *FavoriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.FromContext(r.Context()).UserID()

	var req favoriteReq
	if err := decodeJSON(r, &req); err != nil || !req.valid() {
		writeError(w, http.StatusBadRequest, "locationId is required")
		return
	}

	id, err := h.favorites.Create(r.Context(), userID, req.LocationID)
	if err != nil {
		h.logr.Warn("failed to create favorite", zap.Error(err),
			zap.String("user_id", userID), zap.String("location_id", req.LocationID))
		writeError(w, statusFor(err), "failed to save favorite")
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"favoriteId": id})
}

// DELETE /api/v1/favorites/{favoriteId}
func (h *FavoriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.FromContext(r.Context()).UserID()
	favoriteID := chi.URLParam(r, "favoriteId")

	if err := h.favorites.Delete(r.Context(), userID, favoriteID); err != nil {
		h.logr.Warn("failed to delete favorite", zap.Error(err),
			zap.String("user_id", userID), zap.String("favorite_id", favoriteID))
		writeError(w, statusFor(err), "failed to remove favorite")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"favoriteId": favoriteID})
}

// POST /api/v1/favorites/toggle
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := auth.FromContext(r.Context()).UserID()

	var req favoriteReq
	if err := decodeJSON(r, &req); err != nil || !req.valid() {
		writeError(w, http.StatusBadRequest, "locationId is required")
		return
	}

	res, err := h.favorites.Toggle(r.Context(), userID, req.LocationID)
	if err != nil {
		h.logr.Warn("failed to toggle favorite", zap.Error(err),
			zap.String("user_id", userID), zap.String("location_id", req.LocationID))
		writeError(w, statusFor(err), "failed to update favorite")
		return
	}
	writeData(w, http.StatusOK, res)
}

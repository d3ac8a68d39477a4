package handlers

import (
	"errors"
	"net/http"

	"directory-bknd/internal/filters"
	"directory-bknd/internal/suggest"

	"go.uber.org/zap"
)

type SuggestHandler struct {
	providers suggest.ProviderSearcher
	logr      *zap.Logger
}

func NewSuggestHandler(providers suggest.ProviderSearcher, logr *zap.Logger) *SuggestHandler {
	return &SuggestHandler{providers: providers, logr: logr}
}

// GET /api/v1/suggestions?q=
func (h *SuggestHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if suggest.TooManyWords(text) {
		writeError(w, http.StatusBadRequest, "search text is limited to 10 words")
		return
	}

	res, err := suggest.Lookup(r.Context(), h.providers, text)
	if err != nil {
		// categories are static, so a failed provider search still answers
		h.logr.Warn("provider suggestions failed", zap.Error(err), zap.String("q", text))
	}
	writeData(w, http.StatusOK, res)
}

// POST /api/v1/search/resolve
func (h *SuggestHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req filters.HomeSearch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	target, err := filters.ResolveHomeSearch(req)
	if err != nil {
		if errors.Is(err, filters.ErrEmptySearch) {
			writeError(w, http.StatusBadRequest, filters.EmptySearchMessage)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"url": target})
}

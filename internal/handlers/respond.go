package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"directory-bknd/internal/models"
	"directory-bknd/internal/services"
	"directory-bknd/internal/utils"
)

const maxBodyBytes = 1 << 20

// envelope is the shape of every JSON API response.
type envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return services.ErrInvalidInput
	}
	return nil
}

func intParam(q url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return fallback
	}
	return n
}

func floatParam(q url.Values, key string) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseLocationQuery reads the search API parameters. "region" is accepted
// as an alias of "city" so listing URLs can be forwarded unchanged.
func parseLocationQuery(q url.Values) models.LocationQuery {
	city := q.Get("city")
	if city == "" {
		city = q.Get("region")
	}
	return models.LocationQuery{
		Page:       intParam(q, "page", 1),
		Limit:      intParam(q, "limit", 0),
		Search:     q.Get("search"),
		City:       city,
		Categories: utils.ParseQueryList(q, "categories"),
		Title:      q.Get("title"),
		PriceFrom:  floatParam(q, "priceFrom"),
		PriceTo:    floatParam(q, "priceTo"),
	}
}

package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/cache"
	"directory-bknd/internal/config"
	"directory-bknd/internal/logger"
	"directory-bknd/internal/services"
)

// newTestRouter wires the real router without a database, Redis or token
// verifier. Only routes that never reach storage are exercised.
func newTestRouter() http.Handler {
	log := logger.Nop()
	cfg := &config.Config{
		DefaultPageLimit: 10,
		MaxPageLimit:     100,
		AllowedOrigins:   []string{"*"},
		Links:            config.Links{AppURL: "https://example.test", LoginURL: "https://example.test/login"},
	}
	rdb := cache.NewWithClient(nil, log.Logger)
	deps := Deps{
		Locations: services.NewLocationService(nil, rdb, cfg, log.Logger),
		Favorites: services.NewFavoriteService(services.NewBunFavoriteStore(nil), log.Logger),
		Jobs:      services.NewJobService(cfg, log.Logger),
		Revoker:   auth.NewRevoker(rdb),
	}
	return NewRouter(deps, cfg, log)
}

func TestRouter(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		accept string
		want   int
	}{
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"anonymous session", http.MethodGet, "/api/v1/session", "", "", http.StatusOK},
		{"favorites api needs login", http.MethodGet, "/api/v1/favorites/ids", "", "application/json", http.StatusUnauthorized},
		{"favorites page redirects", http.MethodGet, "/api/v1/favorites/listing", "", "text/html", http.StatusFound},
		{"logout needs login", http.MethodPost, "/api/v1/session/logout", "", "", http.StatusUnauthorized},
		{"empty homepage search", http.MethodPost, "/api/v1/search/resolve", `{}`, "", http.StatusBadRequest},
		{"too many words", http.MethodGet, "/api/v1/suggestions?q=a+b+c+d+e+f+g+h+i+j+k", "", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Fatal("missing request id header")
			}
		})
	}
}

func TestRouter_UnauthorizedCarriesLoginURL(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle", strings.NewReader(`{"locationId":"x"}`)))

	var body struct {
		Success  bool   `json:"success"`
		LoginURL string `json:"loginUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Success || body.LoginURL != "https://example.test/login" {
		t.Fatalf("body = %+v", body)
	}
}

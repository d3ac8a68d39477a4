package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type staticRevocations map[string]bool

func (s staticRevocations) IsRevoked(_ context.Context, c *auth.Claims) (bool, error) {
	return s[c.JTI], nil
}

func newTestMiddleware(t *testing.T, revoked staticRevocations) (*SessionMiddleware, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	links := config.Links{LoginURL: "https://example.test/login"}
	return NewSessionMiddleware(auth.NewVerifierFromKey(&key.PublicKey, ""), revoked, links, zap.NewNop()), key
}

func token(t *testing.T, key *rsa.PrivateKey, jti string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "user-1",
		"jti": jti,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func captureUser(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = auth.FromContext(r.Context()).UserID()
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAttach(t *testing.T) {
	m, key := newTestMiddleware(t, staticRevocations{"gone": true})

	cases := []struct {
		name string
		req  func(r *http.Request)
		want string
	}{
		{"anonymous", func(*http.Request) {}, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, key, "a")) }, "user-1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token(t, key, "b")}) }, "user-1"},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, ""},
		{"revoked", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, key, "gone")) }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			tc.req(req)
			var got string
			m.Attach(captureUser(&got)).ServeHTTP(httptest.NewRecorder(), req)
			if got != tc.want {
				t.Fatalf("user = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	m, key := newTestMiddleware(t, nil)
	var got string
	h := m.Attach(m.RequireUser(captureUser(&got)))

	// page navigation
	req := httptest.NewRequest(http.MethodGet, "/dashboard/favorites", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://example.test/login" {
		t.Fatalf("html: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	// api call
	req = httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("api: status %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["loginUrl"] != "https://example.test/login" || body["success"] != false {
		t.Fatalf("api body %v", body)
	}

	// signed in
	req = httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, key, "c"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || got != "user-1" {
		t.Fatalf("signed in: %d user=%q", rec.Code, got)
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("request id header missing")
	}
	entries := logs.FilterMessage("access_log").All()
	if len(entries) != 1 {
		t.Fatalf("%d access log entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["bytes"] != int64(2) || fields["path"] != "/healthz" {
		t.Fatalf("fields %v", fields)
	}
}

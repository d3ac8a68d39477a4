package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/config"

	"go.uber.org/zap"
)

// AccessTokenCookie carries the access token for browser navigations.
const AccessTokenCookie = "access_token"

// TokenVerifier checks an access token.
type TokenVerifier interface {
	Verify(tokenStr string) (*auth.Claims, error)
}

// RevocationChecker reports whether a verified token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, c *auth.Claims) (bool, error)
}

type SessionMiddleware struct {
	verifier TokenVerifier
	revoked  RevocationChecker
	links    config.Links
	logr     *zap.Logger
}

func NewSessionMiddleware(verifier TokenVerifier, revoked RevocationChecker, links config.Links, logr *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{verifier: verifier, revoked: revoked, links: links, logr: logr}
}

// Attach builds the session context object for every request. Missing,
// invalid or revoked tokens give an anonymous session, never an error. A nil
// verifier treats every request as anonymous.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var claims *auth.Claims
		if tokenString := TokenFromRequest(r); tokenString != "" && m.verifier != nil {
			c, err := m.verifier.Verify(tokenString)
			switch {
			case err != nil:
				m.logr.Debug("token rejected", zap.Error(err))
			case m.isRevoked(r.Context(), c):
				m.logr.Debug("token revoked", zap.String("user_id", c.Subject))
			default:
				claims = c
			}
		}

		ctx := auth.WithSession(r.Context(), auth.NewSession(m.links, claims))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) isRevoked(ctx context.Context, c *auth.Claims) bool {
	if m.revoked == nil {
		return false
	}
	revoked, err := m.revoked.IsRevoked(ctx, c)
	if err != nil {
		// revocation lookups fail open
		m.logr.Warn("revocation check failed", zap.Error(err), zap.String("user_id", c.Subject))
		return false
	}
	return revoked
}

// RequireUser sends anonymous callers to the login page: a redirect for page
// navigations, a 401 carrying the login URL for API calls.
func (m *SessionMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()).Authenticated() {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, m.links.LoginURL, http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  false,
			"error":    "authentication required",
			"loginUrl": m.links.LoginURL,
		})
	})
}

// TokenFromRequest reads a bearer token, falling back to the access token cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok := strings.TrimPrefix(h, "Bearer "); tok != h {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

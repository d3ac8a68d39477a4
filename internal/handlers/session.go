package handlers

import (
	"context"
	"net/http"
	"time"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/middleware"

	"go.uber.org/zap"
)

type TokenRevoker interface {
	Revoke(ctx context.Context, c *auth.Claims) error
}

// SessionHandler exposes the session context object. Sign-in itself happens
// on the external auth service.
type SessionHandler struct {
	revoker TokenRevoker
	logr    *zap.Logger
}

func NewSessionHandler(revoker TokenRevoker, logr *zap.Logger) *SessionHandler {
	return &SessionHandler{revoker: revoker, logr: logr}
}

// GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, auth.FromContext(r.Context()))
}

// POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())

	if c := sess.Claims(); c != nil {
		if err := h.revoker.Revoke(r.Context(), c); err != nil {
			h.logr.Warn("logout failed", zap.Error(err), zap.String("user_id", sess.UserID()))
			writeError(w, http.StatusInternalServerError, "failed to logout")
			return
		}
	}

	// clear cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

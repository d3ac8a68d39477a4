package auth

import (
	"context"

	"directory-bknd/internal/config"
)

// User is the signed-in user as known from the token.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session is the per-request context object: who is signed in and the
// environment-configured links the frontend hands off to.
type Session struct {
	User  *User        `json:"user"`
	Links config.Links `json:"links"`

	claims *Claims
}

func NewSession(links config.Links, claims *Claims) *Session {
	s := &Session{Links: links, claims: claims}
	if claims != nil {
		s.User = &User{ID: claims.Subject, Name: claims.Name, Email: claims.Email}
	}
	return s
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// UserID is empty for anonymous sessions.
func (s *Session) UserID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.User.ID
}

func (s *Session) Claims() *Claims {
	if s == nil {
		return nil
	}
	return s.claims
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the request's session, or an anonymous one without
// links when none was attached.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

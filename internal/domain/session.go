package domain

import (
	"errors"
	"time"
)

// ErrNotAuthenticated indicates that there is no active session or that
// the session token has expired. Callers must propagate it immediately
// and force a new login.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session holds the authenticated identity and the bearer credential
// attached to every outbound request. It is created at login and
// cleared at logout; the zero value means no active session.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Active reports whether the session exists and has not expired at t.
func (s Session) Active(t time.Time) bool {
	if s.Token == "" {
		return false
	}

	return s.ExpiresAt.IsZero() || t.Before(s.ExpiresAt)
}

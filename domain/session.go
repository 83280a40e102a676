package domain

import "time"

// Session lifetimes. The refresh index intentionally outlives the session it
// refreshes so a session can be renewed after its natural TTL, but only
// within the refresh window.
const (
	WebSessionTTL   = 7 * 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// WebSession is the longer-lived credential pair issued once a dashboard
// token has been validated and consumed. Sessions live only in the
// key-value store; there is no durable mirror.
type WebSession struct {
	SessionID    string    `json:"session_id"`
	AdminID      int64     `json:"admin_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
}

// IsExpired reports whether the session's fixed deadline has passed.
// Validation re-persists the session with a renewed storage TTL but never
// moves ExpiresAt itself.
func (s *WebSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// RefreshRef is the reverse index stored under a refresh token, pointing
// back at the session it may renew.
type RefreshRef struct {
	SessionID string `json:"session_id"`
	AdminID   int64  `json:"admin_id"`
}

// SessionValidation is the outcome of a web-session check. Admin is set
// only when Valid is true.
type SessionValidation struct {
	Valid   bool
	Admin   *Admin
	Session *WebSession
}

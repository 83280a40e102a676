// Package dashboard brokers time-boxed, single-use admin access to the web
// dashboard.
//
// Admins carry no permanent dashboard password. A bot command asks the
// Manager to issue a short-lived bearer token (embedded in the dashboard
// URL) paired with an access key the admin types in manually; intercepting
// the URL alone is not enough to log in. A validated and consumed token is
// promoted to a longer-lived web session held only in the key-value store.
//
// The durable store holds the canonical token rows; the key-value store
// holds a TTL-bound mirror used as the fast read path. On any disagreement
// the durable store wins, and every read re-checks the absolute expiry
// regardless of store-level TTLs.
package dashboard

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cargoexpress/cargoexpress/domain"
	"github.com/cargoexpress/cargoexpress/logger"
	"github.com/cargoexpress/cargoexpress/notify"
)

const (
	// TokenTTL bounds a dashboard token. The mirror TTL matches it.
	TokenTTL = 15 * time.Minute

	tokenKeyPrefix   = "dashboard:token:"
	sessionKeyPrefix = "dashboard:session:"
	refreshKeyPrefix = "dashboard:refresh:"
)

// accessKeyAlphabet omits ambiguous characters so admins can relay keys
// over voice or retype them from a phone screen.
const accessKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const accessKeyLength = 8

// Manager issues, validates, consumes and revokes dashboard tokens and
// drives the web-session lifecycle. All dependencies are injected; the
// Manager holds no process-wide state.
type Manager struct {
	tokens  domain.TokenStore
	admins  domain.AdminStore
	kv      domain.KeyValueStore
	sink    domain.NotificationSink
	baseURL string

	tokenTTL time.Duration
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithTokenTTL overrides the dashboard token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.tokenTTL = ttl }
}

// WithClock overrides the time source. Tests use this to cross expiry
// deadlines without sleeping.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a dashboard access manager. baseURL is the externally
// reachable dashboard entry point the issued URL points at.
func NewManager(tokens domain.TokenStore, admins domain.AdminStore, kv domain.KeyValueStore, sink domain.NotificationSink, baseURL string, opts ...Option) *Manager {
	m := &Manager{
		tokens:   tokens,
		admins:   admins,
		kv:       kv,
		sink:     sink,
		baseURL:  baseURL,
		tokenTTL: TokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// cachedToken is the mirror payload kept under the token key.
type cachedToken struct {
	AdminID   int64     `json:"admin_id"`
	AccessKey string    `json:"access_key"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

func tokenKey(token string) string { return tokenKeyPrefix + token }

// Issue invalidates every live token the admin still owns, then creates a
// fresh one. The sweep runs first so that at most one unused, unexpired
// token exists per admin; two concurrent Issue calls can still race past
// each other, which is an accepted weakness of the sweep-then-create
// approach.
func (m *Manager) Issue(ctx context.Context, adminID int64, sourceIP string) (*domain.IssuedToken, error) {
	if err := m.revokeAll(ctx, adminID); err != nil {
		return nil, err
	}

	now := m.now()
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	accessKey, err := generateAccessKey()
	if err != nil {
		return nil, err
	}

	record := &domain.DashboardToken{
		AdminID:   adminID,
		Token:     token,
		AccessKey: accessKey,
		ExpiresAt: now.Add(m.tokenTTL),
		IPAddress: sourceIP,
		CreatedAt: now,
	}
	if err := m.tokens.CreateToken(ctx, record); err != nil {
		return nil, fmt.Errorf("dashboard: persist token failed: %w", err)
	}

	// Mirror after the durable write. A failed mirror leaves the system
	// durably correct with a cold cache, which validation tolerates.
	if err := m.setMirror(ctx, record); err != nil {
		logger.Log.Warn("dashboard token mirror write failed",
			zap.Int64("admin_id", adminID),
			zap.Error(err),
		)
	}

	m.publish(ctx, notify.DashboardAccessEvent{AdminID: adminID, Action: "issued"})

	return &domain.IssuedToken{
		URL:       fmt.Sprintf("%s/auth?token=%s", m.baseURL, token),
		AccessKey: accessKey,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Validate checks a token and access key without consuming the token.
// Refusals come back as values; only store failures are errors.
func (m *Manager) Validate(ctx context.Context, token, accessKey, ip string) (*domain.TokenValidation, error) {
	now := m.now()

	cached, found, err := m.getMirror(ctx, token)
	if err != nil {
		logger.Log.Warn("dashboard token mirror read failed", zap.Error(err))
		found = false
	}

	var (
		adminID   int64
		storedKey string
		isUsed    bool
		expiresAt time.Time
	)
	if found {
		adminID, storedKey, isUsed, expiresAt = cached.AdminID, cached.AccessKey, cached.IsUsed, cached.ExpiresAt
	} else {
		record, err := m.tokens.GetTokenByValue(ctx, token)
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.TokenValidation{Reason: domain.RefusalNotFound}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("dashboard: token lookup failed: %w", err)
		}
		adminID, storedKey, isUsed, expiresAt = record.AdminID, record.AccessKey, record.IsUsed, record.ExpiresAt
	}

	// Expiry wins over every other refusal, whatever key was presented.
	if now.After(expiresAt) {
		// Lazy cleanup: the mirror no longer serves anyone.
		if err := m.kv.Delete(ctx, tokenKey(token)); err != nil {
			logger.Log.Warn("expired token mirror delete failed", zap.Error(err))
		}
		return &domain.TokenValidation{Reason: domain.RefusalExpired}, nil
	}
	if subtle.ConstantTimeCompare([]byte(accessKey), []byte(storedKey)) != 1 {
		return &domain.TokenValidation{Reason: domain.RefusalKeyMismatch}, nil
	}
	if isUsed {
		return &domain.TokenValidation{Reason: domain.RefusalAlreadyUsed}, nil
	}

	return &domain.TokenValidation{Valid: true, AdminID: adminID}, nil
}

// Consume marks a validated token as used. Callers invoke it exactly once
// after a Validate result they intend to honor.
func (m *Manager) Consume(ctx context.Context, token, ip string) error {
	record, err := m.tokens.GetTokenByValue(ctx, token)
	if err != nil {
		return fmt.Errorf("dashboard: token lookup failed: %w", err)
	}
	if err := m.tokens.MarkTokenUsed(ctx, token, m.now()); err != nil {
		return fmt.Errorf("dashboard: mark token used failed: %w", err)
	}
	if err := m.kv.Delete(ctx, tokenKey(token)); err != nil {
		logger.Log.Warn("consumed token mirror delete failed", zap.Error(err))
	}
	m.publish(ctx, notify.DashboardAccessEvent{AdminID: record.AdminID, Action: "consumed"})
	return nil
}

// RevokeAll invalidates every live token the admin owns ("cancel access").
func (m *Manager) RevokeAll(ctx context.Context, adminID int64) error {
	if err := m.revokeAll(ctx, adminID); err != nil {
		return err
	}
	m.publish(ctx, notify.DashboardAccessEvent{AdminID: adminID, Action: "revoked"})
	return nil
}

func (m *Manager) revokeAll(ctx context.Context, adminID int64) error {
	revoked, err := m.tokens.InvalidateTokens(ctx, adminID, m.now())
	if err != nil {
		return fmt.Errorf("dashboard: invalidate tokens failed: %w", err)
	}
	for _, token := range revoked {
		if err := m.kv.Delete(ctx, tokenKey(token)); err != nil {
			logger.Log.Warn("revoked token mirror delete failed", zap.Error(err))
		}
	}
	return nil
}

// CreateWebSession promotes a consumed dashboard token into a web session.
// The session key lives for WebSessionTTL; the refresh index intentionally
// outlives it, so the session stays renewable within the refresh window.
func (m *Manager) CreateWebSession(ctx context.Context, adminID int64, ip, userAgent string) (*domain.WebSession, error) {
	now := m.now()
	accessToken, err := generateToken()
	if err != nil {
		return nil, err
	}
	refreshToken, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := &domain.WebSession{
		SessionID:    uuid.NewString(),
		AdminID:      adminID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(domain.WebSessionTTL),
		CreatedAt:    now,
		LastActivity: now,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}

	if err := m.putSession(ctx, session, domain.WebSessionTTL); err != nil {
		return nil, err
	}

	ref, err := json.Marshal(domain.RefreshRef{SessionID: session.SessionID, AdminID: adminID})
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal refresh ref failed: %w", err)
	}
	if err := m.kv.SetWithTTL(ctx, refreshKeyPrefix+refreshToken, ref, domain.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("dashboard: store refresh ref failed: %w", err)
	}

	return session, nil
}

// ValidateWebSession checks a session and slides its storage TTL. It fails
// closed: a missing key, a passed deadline or a deactivated owning admin
// all produce an invalid result, the latter two deleting the key so a dead
// session cannot linger.
func (m *Manager) ValidateWebSession(ctx context.Context, sessionID string) (*domain.SessionValidation, error) {
	now := m.now()
	key := sessionKeyPrefix + sessionID

	raw, found, err := m.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("dashboard: session lookup failed: %w", err)
	}
	if !found {
		return &domain.SessionValidation{}, nil
	}

	var session domain.WebSession
	if err := json.Unmarshal(raw, &session); err != nil {
		logger.Log.Warn("malformed session payload, dropping key", zap.String("session_id", sessionID))
		m.kv.Delete(ctx, key)
		return &domain.SessionValidation{}, nil
	}

	if session.IsExpired(now) {
		if err := m.kv.Delete(ctx, key); err != nil {
			logger.Log.Warn("expired session delete failed", zap.Error(err))
		}
		return &domain.SessionValidation{}, nil
	}

	admin, err := m.admins.GetAdmin(ctx, session.AdminID)
	if errors.Is(err, domain.ErrNotFound) {
		m.kv.Delete(ctx, key)
		return &domain.SessionValidation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dashboard: admin lookup failed: %w", err)
	}
	if !admin.IsActive {
		// A deactivated admin's live sessions must not remain usable.
		if err := m.kv.Delete(ctx, key); err != nil {
			logger.Log.Warn("inactive admin session delete failed", zap.Error(err))
		}
		return &domain.SessionValidation{}, nil
	}

	session.LastActivity = now
	if err := m.putSession(ctx, &session, domain.WebSessionTTL); err != nil {
		logger.Log.Warn("session activity refresh failed", zap.Error(err))
	}

	return &domain.SessionValidation{Valid: true, Admin: admin, Session: &session}, nil
}

// RefreshWebSession rotates a session from its refresh token. The old
// session and refresh index are deleted; a fresh pair is issued. Returns
// (nil, nil) when the refresh token is unknown, outside its window, or the
// owning admin is inactive.
func (m *Manager) RefreshWebSession(ctx context.Context, refreshToken, ip, userAgent string) (*domain.WebSession, error) {
	refKey := refreshKeyPrefix + refreshToken

	raw, found, err := m.kv.Get(ctx, refKey)
	if err != nil {
		return nil, fmt.Errorf("dashboard: refresh lookup failed: %w", err)
	}
	if !found {
		return nil, nil
	}

	var ref domain.RefreshRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		m.kv.Delete(ctx, refKey)
		return nil, nil
	}

	admin, err := m.admins.GetAdmin(ctx, ref.AdminID)
	if errors.Is(err, domain.ErrNotFound) {
		m.kv.Delete(ctx, refKey)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dashboard: admin lookup failed: %w", err)
	}
	if !admin.IsActive {
		m.kv.Delete(ctx, refKey)
		return nil, nil
	}

	session, err := m.CreateWebSession(ctx, ref.AdminID, ip, userAgent)
	if err != nil {
		return nil, err
	}

	// Rotation: the spent refresh token and the session it pointed at are
	// both retired.
	if err := m.kv.Delete(ctx, refKey); err != nil {
		logger.Log.Warn("spent refresh token delete failed", zap.Error(err))
	}
	if err := m.kv.Delete(ctx, sessionKeyPrefix+ref.SessionID); err != nil {
		logger.Log.Warn("rotated session delete failed", zap.Error(err))
	}

	return session, nil
}

// Logout deletes the session key. The refresh index is left to its TTL; a
// refresh after logout issues a brand-new session, which is equivalent to a
// fresh login for an admin who is still active.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.kv.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("dashboard: logout delete failed: %w", err)
	}
	m.publish(ctx, notify.DashboardAccessEvent{Action: "logout"})
	return nil
}

func (m *Manager) putSession(ctx context.Context, s *domain.WebSession, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("dashboard: marshal session failed: %w", err)
	}
	if err := m.kv.SetWithTTL(ctx, sessionKeyPrefix+s.SessionID, raw, ttl); err != nil {
		return fmt.Errorf("dashboard: store session failed: %w", err)
	}
	return nil
}

func (m *Manager) setMirror(ctx context.Context, t *domain.DashboardToken) error {
	raw, err := json.Marshal(cachedToken{
		AdminID:   t.AdminID,
		AccessKey: t.AccessKey,
		ExpiresAt: t.ExpiresAt,
		IsUsed:    t.IsUsed,
	})
	if err != nil {
		return err
	}
	ttl := t.ExpiresAt.Sub(m.now())
	return m.kv.SetWithTTL(ctx, tokenKey(t.Token), raw, ttl)
}

func (m *Manager) getMirror(ctx context.Context, token string) (*cachedToken, bool, error) {
	raw, found, err := m.kv.Get(ctx, tokenKey(token))
	if err != nil || !found {
		return nil, false, err
	}
	var cached cachedToken
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, err
	}
	return &cached, true, nil
}

func (m *Manager) publish(ctx context.Context, event notify.DashboardAccessEvent) {
	if m.sink == nil {
		return
	}
	if err := m.sink.Publish(ctx, notify.ChannelDashboardAccess, event); err != nil {
		logger.Log.Warn("dashboard event publish failed", zap.Error(err))
	}
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("dashboard: token generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func generateAccessKey() (string, error) {
	key := make([]byte, accessKeyLength)
	max := big.NewInt(int64(len(accessKeyAlphabet)))
	for i := range key {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("dashboard: access key generation failed: %w", err)
		}
		key[i] = accessKeyAlphabet[n.Int64()]
	}
	return string(key), nil
}

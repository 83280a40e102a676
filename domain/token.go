package domain

import "time"

// DashboardToken is a short-lived, single-use credential granting one
// admin-dashboard entry. The bearer token travels inside the dashboard URL;
// the access key is relayed to the admin out of band and typed in manually,
// so interception of the URL alone is insufficient.
//
// Rows are never physically deleted from the durable store; consumption and
// invalidation flip IsUsed. The cache mirror under the token key is deleted
// instead.
type DashboardToken struct {
	ID        int64
	AdminID   int64
	Token     string
	AccessKey string
	ExpiresAt time.Time
	IsUsed    bool
	UsedAt    *time.Time
	IPAddress string
	CreatedAt time.Time
}

// IsExpired reports whether the token's absolute deadline has passed.
// Store-level TTLs are an eviction optimization; this check is authoritative.
func (t *DashboardToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TokenValidation is the outcome of a two-phase token check. When Valid is
// false, Reason carries the refusal discriminant for user messaging.
type TokenValidation struct {
	Valid   bool
	Reason  RefusalReason
	AdminID int64
}

// IssuedToken is what issue() hands back to the bot layer: the dashboard
// URL embedding the bearer token, and the access key shown to the admin.
type IssuedToken struct {
	URL       string
	AccessKey string
	ExpiresAt time.Time
}

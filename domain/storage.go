package domain

import (
	"context"
	"time"
)

// TokenStore is the durable home of dashboard tokens. Tokens are never
// physically deleted; invalidation and consumption flip IsUsed.
type TokenStore interface {
	CreateToken(ctx context.Context, t *DashboardToken) error
	// GetTokenByValue returns ErrNotFound when no row carries the token.
	GetTokenByValue(ctx context.Context, token string) (*DashboardToken, error)
	// InvalidateTokens marks every unused, unexpired token owned by the
	// admin as used and returns the affected token values so their cache
	// mirrors can be dropped.
	InvalidateTokens(ctx context.Context, adminID int64, now time.Time) ([]string, error)
	MarkTokenUsed(ctx context.Context, token string, usedAt time.Time) error
}

// OrderStore is the durable home of shipping and purchase orders. Kind
// selects the backing table on every call.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *Order) error
	// GetOrder hydrates history and linked transactions. Returns
	// (nil, nil) when the order does not exist.
	GetOrder(ctx context.Context, kind OrderKind, id int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, kind OrderKind, id int64, status OrderStatus, comment string, updatedAt time.Time) error
	UpdateOrderTracking(ctx context.Context, kind OrderKind, id int64, tracking string) error
}

// HistoryStore appends and reads the per-order audit trail.
type HistoryStore interface {
	AppendHistory(ctx context.Context, h *StatusHistory) error
	ListHistory(ctx context.Context, kind OrderKind, orderID int64) ([]StatusHistory, error)
}

// TransactionStore owns balance transactions and the balance mutation
// itself, so the PENDING -> COMPLETED edge and the balance write share one
// database transaction.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	// CompleteTransaction applies the signed amount to the owner's balance
	// exactly once. Completing an already-COMPLETED transaction is a no-op
	// returning the stored row. A debit that would go negative returns
	// ErrInsufficientBalance and persists nothing.
	CompleteTransaction(ctx context.Context, id int64, completedAt time.Time) (*Transaction, error)
	SetTransactionStatus(ctx context.Context, id int64, status TransactionStatus) error
	ListTransactions(ctx context.Context, userID int64) ([]Transaction, error)
}

// AdminStore reads and updates admin accounts.
type AdminStore interface {
	GetAdmin(ctx context.Context, id int64) (*Admin, error)
	GetAdminByTelegramID(ctx context.Context, telegramID int64) (*Admin, error)
	SetAdminActive(ctx context.Context, id int64, active bool) error
}

// UserStore reads user accounts and their stored balance.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*User, error)
}

// KeyValueStore is the ephemeral store used for cache mirrors, sessions and
// counters. Get returns (nil, false, nil) on a clean miss; TTLs are an
// eviction optimization layered on top of the explicit deadline checks the
// callers perform.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NotificationSink publishes user-facing events. Fire and forget: no
// delivery acknowledgment is expected or awaited, and publish failures must
// never fail the operation that triggered them.
type NotificationSink interface {
	Publish(ctx context.Context, channel string, payload any) error
}

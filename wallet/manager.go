// Package wallet drives user balance transactions.
//
// A transaction is created PENDING and the owner's balance moves exactly
// once, on the PENDING -> COMPLETED edge. Completion is idempotent:
// replaying it returns the stored row without double-applying. A debit that
// would drive the balance negative is rejected before anything is
// persisted; the durable store owns that guarantee so the check and the
// write share one database transaction.
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/cargoexpress/cargoexpress/domain"
)

// Manager exposes the transaction lifecycle.
type Manager struct {
	transactions domain.TransactionStore
	users        domain.UserStore

	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a wallet manager.
func NewManager(transactions domain.TransactionStore, users domain.UserStore, opts ...Option) *Manager {
	m := &Manager{
		transactions: transactions,
		users:        users,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Spec carries the caller-supplied fields for a new transaction.
type Spec struct {
	UserID    int64
	OrderID   *int64
	OrderKind domain.OrderKind
	Type      domain.TransactionType
	Amount    int64
	Meta      domain.TransactionMeta
}

// CreatePending records a new PENDING transaction. The balance is not
// touched until Complete.
func (m *Manager) CreatePending(ctx context.Context, spec Spec) (*domain.Transaction, error) {
	if spec.Amount <= 0 {
		return nil, fmt.Errorf("wallet: amount must be positive, got %d", spec.Amount)
	}
	switch spec.Type {
	case domain.TxPayment, domain.TxRefund, domain.TxBonus, domain.TxWithdrawal:
	default:
		return nil, fmt.Errorf("wallet: unknown transaction type %q", spec.Type)
	}

	t := &domain.Transaction{
		UserID:    spec.UserID,
		OrderID:   spec.OrderID,
		OrderKind: spec.OrderKind,
		Type:      spec.Type,
		Status:    domain.TxPending,
		Amount:    spec.Amount,
		Meta:      spec.Meta,
		CreatedAt: m.now(),
	}
	if err := m.transactions.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("wallet: create failed: %w", err)
	}
	return t, nil
}

// Complete drives PENDING -> COMPLETED and applies the signed amount to the
// owner's balance exactly once. Replaying a completed transaction is a
// no-op. A debit past zero returns domain.ErrInsufficientBalance.
func (m *Manager) Complete(ctx context.Context, id int64) (*domain.Transaction, error) {
	return m.transactions.CompleteTransaction(ctx, id, m.now())
}

// Fail marks a PENDING transaction FAILED.
func (m *Manager) Fail(ctx context.Context, id int64) error {
	return m.transactions.SetTransactionStatus(ctx, id, domain.TxFailed)
}

// Cancel marks a PENDING transaction CANCELLED.
func (m *Manager) Cancel(ctx context.Context, id int64) error {
	return m.transactions.SetTransactionStatus(ctx, id, domain.TxCancelled)
}

// Expire marks a PENDING transaction EXPIRED.
func (m *Manager) Expire(ctx context.Context, id int64) error {
	return m.transactions.SetTransactionStatus(ctx, id, domain.TxExpired)
}

// BalanceOf returns the stored balance for the user.
func (m *Manager) BalanceOf(ctx context.Context, userID int64) (int64, error) {
	u, err := m.users.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}

// RecomputeBalance sums the COMPLETED transaction log independently of the
// stored balance. The two must agree at every point; auditing jobs compare
// them.
func (m *Manager) RecomputeBalance(ctx context.Context, userID int64) (int64, error) {
	list, err := m.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return 0, err
	}
	var sum int64
	for i := range list {
		if list[i].Status == domain.TxCompleted {
			sum += list[i].SignedAmount()
		}
	}
	return sum, nil
}

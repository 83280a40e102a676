package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/cargoexpress/cargoexpress/domain"
	"github.com/cargoexpress/cargoexpress/persistence"
)

func newTestWallet(t *testing.T) (*Manager, *persistence.Repository, *domain.User) {
	t.Helper()
	repo, err := persistence.Open("sqlite", ":memory:", nil, true)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	u := &domain.User{TelegramID: 555001, Username: "customer"}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return NewManager(repo, repo), repo, u
}

func TestCreatePendingValidation(t *testing.T) {
	m, _, u := newTestWallet(t)
	ctx := context.Background()

	if _, err := m.CreatePending(ctx, Spec{UserID: u.ID, Type: domain.TxPayment, Amount: 0}); err == nil {
		t.Error("zero amount must be rejected")
	}
	if _, err := m.CreatePending(ctx, Spec{UserID: u.ID, Type: "TIP", Amount: 100}); err == nil {
		t.Error("unknown type must be rejected")
	}

	tx, err := m.CreatePending(ctx, Spec{
		UserID: u.ID,
		Type:   domain.TxPayment,
		Amount: 100,
		Meta:   domain.TransactionMeta{Gateway: "card", ExternalRef: "pay_123"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tx.Status != domain.TxPending {
		t.Errorf("expected PENDING, got %s", tx.Status)
	}

	// PENDING leaves the balance untouched.
	balance, _ := m.BalanceOf(ctx, u.ID)
	if balance != 0 {
		t.Errorf("pending transaction mutated balance: %d", balance)
	}
}

func TestLedgerMatchesStoredBalance(t *testing.T) {
	m, _, u := newTestWallet(t)
	ctx := context.Background()

	steps := []struct {
		txType domain.TransactionType
		amount int64
	}{
		{domain.TxPayment, 5000},
		{domain.TxBonus, 250},
		{domain.TxWithdrawal, 1200},
		{domain.TxRefund, 300},
		{domain.TxWithdrawal, 4000},
	}

	for _, step := range steps {
		tx, err := m.CreatePending(ctx, Spec{UserID: u.ID, Type: step.txType, Amount: step.amount})
		if err != nil {
			t.Fatalf("create %s failed: %v", step.txType, err)
		}
		if _, err := m.Complete(ctx, tx.ID); err != nil {
			t.Fatalf("complete %s failed: %v", step.txType, err)
		}

		// The independently recomputed ledger agrees at every point.
		stored, err := m.BalanceOf(ctx, u.ID)
		if err != nil {
			t.Fatalf("balance read failed: %v", err)
		}
		ledger, err := m.RecomputeBalance(ctx, u.ID)
		if err != nil {
			t.Fatalf("recompute failed: %v", err)
		}
		if stored != ledger {
			t.Fatalf("stored balance %d diverged from ledger %d", stored, ledger)
		}
	}

	final, _ := m.BalanceOf(ctx, u.ID)
	if final != 350 {
		t.Errorf("expected final balance 350, got %d", final)
	}
}

func TestOverdraftRejected(t *testing.T) {
	m, _, u := newTestWallet(t)
	ctx := context.Background()

	pay, _ := m.CreatePending(ctx, Spec{UserID: u.ID, Type: domain.TxPayment, Amount: 1000})
	m.Complete(ctx, pay.ID)

	withdraw, _ := m.CreatePending(ctx, Spec{UserID: u.ID, Type: domain.TxWithdrawal, Amount: 1001})
	_, err := m.Complete(ctx, withdraw.ID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	balance, _ := m.BalanceOf(ctx, u.ID)
	if balance != 1000 {
		t.Errorf("balance mutated on rejected overdraft: %d", balance)
	}
	ledger, _ := m.RecomputeBalance(ctx, u.ID)
	if ledger != 1000 {
		t.Errorf("ledger mutated on rejected overdraft: %d", ledger)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	m, _, u := newTestWallet(t)
	ctx := context.Background()

	tx, _ := m.CreatePending(ctx, Spec{UserID: u.ID, Type: domain.TxPayment, Amount: 700})
	if _, err := m.Complete(ctx, tx.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := m.Complete(ctx, tx.ID); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	balance, _ := m.BalanceOf(ctx, u.ID)
	if balance != 700 {
		t.Errorf("replay double-applied: %d", balance)
	}
}

func TestTerminalEdgesSkipBalance(t *testing.T) {
	m, _, u := newTestWallet(t)
	ctx := context.Background()

	for _, edge := range []func(context.Context, int64) error{m.Fail, m.Cancel, m.Expire} {
		tx, _ := m.CreatePending(ctx, Spec{UserID: u.ID, Type: domain.TxPayment, Amount: 100})
		if err := edge(ctx, tx.ID); err != nil {
			t.Fatalf("edge failed: %v", err)
		}
	}

	balance, _ := m.BalanceOf(ctx, u.ID)
	if balance != 0 {
		t.Errorf("non-completed transactions mutated balance: %d", balance)
	}
}

package domain

import "time"

// TransactionType determines the sign applied to the owner's balance.
// PAYMENT, REFUND and BONUS credit; WITHDRAWAL debits.
type TransactionType string

const (
	TxPayment    TransactionType = "PAYMENT"
	TxRefund     TransactionType = "REFUND"
	TxBonus      TransactionType = "BONUS"
	TxWithdrawal TransactionType = "WITHDRAWAL"
)

// Credits reports whether this type adds to the owner's balance.
func (t TransactionType) Credits() bool { return t != TxWithdrawal }

// TransactionStatus values. The balance mutates exactly once, on the
// PENDING -> COMPLETED edge; every other edge leaves it untouched.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
	TxCancelled TransactionStatus = "CANCELLED"
	TxExpired   TransactionStatus = "EXPIRED"
)

// TransactionMeta is the closed metadata record attached to a transaction.
// Unknown shapes are rejected at the boundary instead of carried inward.
type TransactionMeta struct {
	Gateway     string `json:"gateway,omitempty"`
	ExternalRef string `json:"external_ref,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// Transaction is a balance movement for a user, optionally tied to an order.
// Amount is always positive; Type carries the sign.
type Transaction struct {
	ID          int64
	UserID      int64
	OrderID     *int64
	OrderKind   OrderKind // empty when OrderID is nil
	Type        TransactionType
	Status      TransactionStatus
	Amount      int64 // minor units, > 0
	Meta        TransactionMeta
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// SignedAmount is the delta this transaction applies to the owner's balance
// when completed.
func (t *Transaction) SignedAmount() int64 {
	if t.Type.Credits() {
		return t.Amount
	}
	return -t.Amount
}

package domain

import "errors"

// Sentinel errors shared across managers and stores.
//
// Validation-style refusals (token expired, key mismatch, already used) are
// carried as values inside result structs rather than returned as errors;
// these sentinels exist for the cases where a caller genuinely cannot
// proceed.
var (
	// ErrNotFound is returned when a referenced record does not exist in
	// either the cache or the durable store.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientBalance is returned when completing a debit transaction
	// would drive the owner's balance negative. Nothing is persisted.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrStoreUnavailable wraps connectivity failures to the durable store.
	// It is never handled inside the managers; the transport layer decides
	// whether to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// RefusalReason discriminates why a credential check was refused.
// These are expected, frequent outcomes (expired links, double-clicks) and
// are therefore values, not errors.
type RefusalReason string

const (
	RefusalNone        RefusalReason = ""
	RefusalNotFound    RefusalReason = "NotFound"
	RefusalAlreadyUsed RefusalReason = "AlreadyUsed"
	RefusalExpired     RefusalReason = "Expired"
	RefusalKeyMismatch RefusalReason = "KeyMismatch"
)

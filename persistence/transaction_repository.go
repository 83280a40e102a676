package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cargoexpress/cargoexpress/domain"
)

func (r *Repository) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.Amount <= 0 {
		return fmt.Errorf("persistence: transaction amount must be positive, got %d", t.Amount)
	}
	row := fromDomainTransaction(t)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	var row gormTransaction
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainTransaction(&row), nil
}

// CompleteTransaction drives the PENDING -> COMPLETED edge. The status flip
// and the balance write share one database transaction; the balance update
// is guarded so a debit can never take it below zero. Replaying a
// COMPLETED transaction returns the stored row without touching the
// balance.
func (r *Repository) CompleteTransaction(ctx context.Context, id int64, completedAt time.Time) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row gormTransaction
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return mapNotFound(err)
		}

		if row.Status == string(domain.TxCompleted) {
			result = toDomainTransaction(&row)
			return nil
		}
		if row.Status != string(domain.TxPending) {
			return fmt.Errorf("persistence: cannot complete transaction %d in status %s", id, row.Status)
		}

		delta := row.Amount
		if row.Type == string(domain.TxWithdrawal) {
			delta = -delta
		}

		// Guarded update: the WHERE clause rejects a debit that would go
		// negative before anything is persisted.
		res := tx.Model(&gormUser{}).
			Where("id = ? AND balance + ? >= 0", row.UserID, delta).
			Update("balance", gorm.Expr("balance + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user gormUser
			if err := tx.First(&user, "id = ?", row.UserID).Error; err != nil {
				return mapNotFound(err)
			}
			return domain.ErrInsufficientBalance
		}

		err := tx.Model(&gormTransaction{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":       string(domain.TxCompleted),
				"completed_at": completedAt,
			}).Error
		if err != nil {
			return err
		}

		row.Status = string(domain.TxCompleted)
		row.CompletedAt = &completedAt
		result = toDomainTransaction(&row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) SetTransactionStatus(ctx context.Context, id int64, status domain.TransactionStatus) error {
	res := r.db.WithContext(ctx).Model(&gormTransaction{}).
		Where("id = ? AND status = ?", id, string(domain.TxPending)).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	var rows []gormTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainTransaction(&rows[i]))
	}
	return out, nil
}

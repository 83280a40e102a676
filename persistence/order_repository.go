package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cargoexpress/cargoexpress/domain"
)

func (r *Repository) CreateOrder(ctx context.Context, o *domain.Order) error {
	switch o.Kind {
	case domain.KindShipping:
		row := fromDomainShipping(o)
		if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
			return err
		}
		o.ID = row.ID
		return nil
	case domain.KindPurchase:
		row := fromDomainPurchase(o)
		if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
			return err
		}
		o.ID = row.ID
		return nil
	}
	return fmt.Errorf("persistence: unknown order kind %q", o.Kind)
}

// GetOrder hydrates the order with its history and linked transactions.
// Absence is (nil, nil), never an error.
func (r *Repository) GetOrder(ctx context.Context, kind domain.OrderKind, id int64) (*domain.Order, error) {
	var order *domain.Order

	switch kind {
	case domain.KindShipping:
		var row gormShippingOrder
		if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		order = toDomainShipping(&row)
	case domain.KindPurchase:
		var row gormPurchaseOrder
		if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		order = toDomainPurchase(&row)
	default:
		return nil, fmt.Errorf("persistence: unknown order kind %q", kind)
	}

	history, err := r.ListHistory(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	order.History = history

	var txRows []gormTransaction
	err = r.db.WithContext(ctx).
		Where("order_id = ? AND order_kind = ?", id, string(kind)).
		Order("id").
		Find(&txRows).Error
	if err != nil {
		return nil, err
	}
	for i := range txRows {
		order.Transactions = append(order.Transactions, *toDomainTransaction(&txRows[i]))
	}

	return order, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, kind domain.OrderKind, id int64, status domain.OrderStatus, comment string, updatedAt time.Time) error {
	updates := map[string]any{"status": string(status), "updated_at": updatedAt}
	if comment != "" {
		updates["admin_comment"] = comment
	}
	return r.updateOrder(ctx, kind, id, updates)
}

func (r *Repository) UpdateOrderTracking(ctx context.Context, kind domain.OrderKind, id int64, tracking string) error {
	return r.updateOrder(ctx, kind, id, map[string]any{"tracking": tracking})
}

func (r *Repository) updateOrder(ctx context.Context, kind domain.OrderKind, id int64, updates map[string]any) error {
	var res *gorm.DB
	switch kind {
	case domain.KindShipping:
		res = r.db.WithContext(ctx).Model(&gormShippingOrder{}).Where("id = ?", id).Updates(updates)
	case domain.KindPurchase:
		res = r.db.WithContext(ctx).Model(&gormPurchaseOrder{}).Where("id = ?", id).Updates(updates)
	default:
		return fmt.Errorf("persistence: unknown order kind %q", kind)
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) AppendHistory(ctx context.Context, h *domain.StatusHistory) error {
	row := fromDomainHistory(h)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	h.ID = row.ID
	return nil
}

func (r *Repository) ListHistory(ctx context.Context, kind domain.OrderKind, orderID int64) ([]domain.StatusHistory, error) {
	var rows []gormStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND kind = ?", orderID, string(kind)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.StatusHistory, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainHistory(&rows[i]))
	}
	return out, nil
}

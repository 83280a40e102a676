package persistence

import (
	"context"
	"time"

	"github.com/cargoexpress/cargoexpress/domain"
)

func (r *Repository) CreateToken(ctx context.Context, t *domain.DashboardToken) error {
	row := fromDomainToken(t)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

func (r *Repository) GetTokenByValue(ctx context.Context, token string) (*domain.DashboardToken, error) {
	var row gormDashboardToken
	if err := r.db.WithContext(ctx).First(&row, "token = ?", token).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainToken(&row), nil
}

// InvalidateTokens marks every unused, unexpired token for the admin as
// used. Rows are kept; only the cache mirrors of the returned token values
// need deleting.
func (r *Repository) InvalidateTokens(ctx context.Context, adminID int64, now time.Time) ([]string, error) {
	var rows []gormDashboardToken
	err := r.db.WithContext(ctx).
		Where("admin_id = ? AND is_used = ? AND expires_at > ?", adminID, false, now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	tokens := make([]string, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, row.Token)
	}

	err = r.db.WithContext(ctx).Model(&gormDashboardToken{}).
		Where("token IN ?", tokens).
		Updates(map[string]any{"is_used": true, "used_at": now}).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *Repository) MarkTokenUsed(ctx context.Context, token string, usedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&gormDashboardToken{}).
		Where("token = ?", token).
		Updates(map[string]any{"is_used": true, "used_at": usedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package persistence

import (
	"context"

	"github.com/cargoexpress/cargoexpress/domain"
)

func (r *Repository) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	var row gormAdmin
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainAdmin(&row), nil
}

func (r *Repository) GetAdminByTelegramID(ctx context.Context, telegramID int64) (*domain.Admin, error) {
	var row gormAdmin
	if err := r.db.WithContext(ctx).First(&row, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainAdmin(&row), nil
}

func (r *Repository) SetAdminActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&gormAdmin{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var row gormUser
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainUser(&row), nil
}

// CreateAdmin and CreateUser exist for seeding and tests.
func (r *Repository) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	row := &gormAdmin{
		ID:         a.ID,
		TelegramID: a.TelegramID,
		Username:   a.Username,
		FullName:   a.FullName,
		IsActive:   a.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, u *domain.User) error {
	row := &gormUser{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   u.FullName,
		Balance:    u.Balance,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	return nil
}

package persistence

import (
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cargoexpress/cargoexpress/domain"
)

// Repository is the GORM-backed implementation of every durable store
// contract in the domain package.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

func init() {
	Register("sqlite", sqlite.Open)
	Register("postgres", postgres.Open)
	Register("mysql", mysql.Open)
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&gormAdmin{},
		&gormUser{},
		&gormDashboardToken{},
		&gormShippingOrder{},
		&gormPurchaseOrder{},
		&gormStatusHistory{},
		&gormTransaction{},
	)
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mapNotFound converts gorm's record-not-found into the domain sentinel so
// callers never import gorm to test for absence.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

var (
	_ domain.TokenStore       = (*Repository)(nil)
	_ domain.OrderStore       = (*Repository)(nil)
	_ domain.HistoryStore     = (*Repository)(nil)
	_ domain.TransactionStore = (*Repository)(nil)
	_ domain.AdminStore       = (*Repository)(nil)
	_ domain.UserStore        = (*Repository)(nil)
)

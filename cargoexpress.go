package cargoexpress

import (
	"github.com/cargoexpress/cargoexpress/cache"
	"github.com/cargoexpress/cargoexpress/dashboard"
	"github.com/cargoexpress/cargoexpress/notify"
	"github.com/cargoexpress/cargoexpress/order"
	"github.com/cargoexpress/cargoexpress/persistence"
	"github.com/cargoexpress/cargoexpress/wallet"
	"gorm.io/gorm"
)

// NewDefaultAccessManager creates a dashboard access Manager backed by gorm
// and the in-process cache, for embedders that run without Redis.
func NewDefaultAccessManager(db *gorm.DB, baseURL string) *dashboard.Manager {
	repo := persistence.NewRepository(db)
	return dashboard.NewManager(repo, repo, cache.NewMemoryStore(), notify.NewMemorySink(), baseURL)
}

// NewDefaultOrderManager creates an order Manager backed by gorm and the
// in-process cache.
func NewDefaultOrderManager(db *gorm.DB) *order.Manager {
	repo := persistence.NewRepository(db)
	return order.NewManager(repo, repo, cache.NewMemoryStore(), notify.NewMemorySink())
}

// NewDefaultWalletManager creates a wallet Manager backed by gorm.
func NewDefaultWalletManager(db *gorm.DB) *wallet.Manager {
	repo := persistence.NewRepository(db)
	return wallet.NewManager(repo, repo)
}

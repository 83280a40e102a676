// Package persistence implements the durable store contracts on GORM.
//
// Each aggregate gets its own repository over a shared *gorm.DB. Row types
// are private to this package; repositories map them to and from the domain
// types. Provider registration keeps driver selection out of the callers:
// sqlite, postgres and mysql are registered at init, and Open picks one by
// name from the configuration.
package persistence

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// DialectorOpener is an alias for a function that returns a gorm.Dialector
// for a given DSN.
type DialectorOpener = func(string) gorm.Dialector

var (
	registryMu sync.RWMutex
	providers  = make(map[string]DialectorOpener)
)

// Register adds a storage provider to the registry.
func Register(name string, opener DialectorOpener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	providers[name] = opener
}

// Open connects to the named provider and returns a Repository. When
// migrate is true the schema is auto-migrated before returning.
func Open(name string, dsn string, cfg *gorm.Config, migrate bool) (*Repository, error) {
	registryMu.RLock()
	opener, ok := providers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("persistence: unknown storage provider %q", name)
	}

	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(opener(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s failed: %w", name, err)
	}

	repo := NewRepository(db)
	if migrate {
		if err := repo.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("persistence: migrate failed: %w", err)
		}
	}
	return repo, nil
}

// Package domain defines the core entities and storage contracts for
// CargoExpress.
//
// The package holds the canonical shapes of admins, users, dashboard
// credentials, orders and balance transactions, together with the small
// interfaces the managers consume. Storage implementations live in the
// persistence and cache packages; see those for GORM- and Redis-backed
// versions of these contracts.
package domain

import "time"

// Admin is a staff account reachable through the Telegram bot.
// Dashboard access is brokered through one-time tokens; admins carry no
// permanent password.
type Admin struct {
	ID         int64
	TelegramID int64
	Username   string
	FullName   string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// User is an end customer. Balance is kept in minor currency units and is
// only ever mutated through completed wallet transactions.
type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FullName   string
	Balance    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package persistence

import (
	"time"

	"github.com/cargoexpress/cargoexpress/domain"
)

type gormAdmin struct {
	ID         int64 `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FullName   string
	IsActive   bool `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (gormAdmin) TableName() string { return "admins" }

type gormUser struct {
	ID         int64 `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FullName   string
	Balance    int64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (gormUser) TableName() string { return "users" }

type gormDashboardToken struct {
	ID        int64  `gorm:"primaryKey"`
	AdminID   int64  `gorm:"index"`
	Token     string `gorm:"uniqueIndex;size:64"`
	AccessKey string `gorm:"uniqueIndex;size:64"`
	ExpiresAt time.Time
	IsUsed    bool `gorm:"index;default:false"`
	UsedAt    *time.Time
	IPAddress string
	CreatedAt time.Time
}

func (gormDashboardToken) TableName() string { return "admin_dashboard_tokens" }

type gormShippingOrder struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"index"`
	Status       string `gorm:"index;size:32"`
	FromCountry  string
	ToCountry    string
	WeightGrams  int64
	ShippingCost int64
	ServiceFee   int64
	TotalCost    int64
	Tracking     string
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gormShippingOrder) TableName() string { return "shipping_orders" }

type gormPurchaseOrder struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"index"`
	Status       string `gorm:"index;size:32"`
	FromCountry  string
	ToCountry    string
	ProductURL   string
	ProductCost  int64
	ShippingCost int64
	ServiceFee   int64
	TotalCost    int64
	Tracking     string
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gormPurchaseOrder) TableName() string { return "purchase_orders" }

type gormStatusHistory struct {
	ID        int64  `gorm:"primaryKey"`
	OrderID   int64  `gorm:"index:idx_history_order"`
	Kind      string `gorm:"index:idx_history_order;size:16"`
	OldStatus string `gorm:"size:32"`
	NewStatus string `gorm:"size:32"`
	Comment   string
	AdminID   *int64
	CreatedAt time.Time
}

func (gormStatusHistory) TableName() string { return "order_status_history" }

type gormTransaction struct {
	ID          int64  `gorm:"primaryKey"`
	UserID      int64  `gorm:"index"`
	OrderID     *int64 `gorm:"index"`
	OrderKind   string `gorm:"size:16"`
	Type        string `gorm:"size:16"`
	Status      string `gorm:"index;size:16"`
	Amount      int64
	Gateway     string
	ExternalRef string
	Comment     string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (gormTransaction) TableName() string { return "transactions" }

func toDomainAdmin(a *gormAdmin) *domain.Admin {
	if a == nil {
		return nil
	}
	return &domain.Admin{
		ID:         a.ID,
		TelegramID: a.TelegramID,
		Username:   a.Username,
		FullName:   a.FullName,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toDomainUser(u *gormUser) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   u.FullName,
		Balance:    u.Balance,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func fromDomainToken(t *domain.DashboardToken) *gormDashboardToken {
	return &gormDashboardToken{
		ID:        t.ID,
		AdminID:   t.AdminID,
		Token:     t.Token,
		AccessKey: t.AccessKey,
		ExpiresAt: t.ExpiresAt,
		IsUsed:    t.IsUsed,
		UsedAt:    t.UsedAt,
		IPAddress: t.IPAddress,
		CreatedAt: t.CreatedAt,
	}
}

func toDomainToken(t *gormDashboardToken) *domain.DashboardToken {
	if t == nil {
		return nil
	}
	return &domain.DashboardToken{
		ID:        t.ID,
		AdminID:   t.AdminID,
		Token:     t.Token,
		AccessKey: t.AccessKey,
		ExpiresAt: t.ExpiresAt,
		IsUsed:    t.IsUsed,
		UsedAt:    t.UsedAt,
		IPAddress: t.IPAddress,
		CreatedAt: t.CreatedAt,
	}
}

func fromDomainShipping(o *domain.Order) *gormShippingOrder {
	return &gormShippingOrder{
		ID:           o.ID,
		UserID:       o.UserID,
		Status:       string(o.Status),
		FromCountry:  o.FromCountry,
		ToCountry:    o.ToCountry,
		WeightGrams:  o.WeightGrams,
		ShippingCost: o.ShippingCost,
		ServiceFee:   o.ServiceFee,
		TotalCost:    o.TotalCost,
		Tracking:     o.Tracking,
		AdminComment: o.AdminComment,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toDomainShipping(o *gormShippingOrder) *domain.Order {
	if o == nil {
		return nil
	}
	return &domain.Order{
		ID:           o.ID,
		Kind:         domain.KindShipping,
		UserID:       o.UserID,
		Status:       domain.OrderStatus(o.Status),
		FromCountry:  o.FromCountry,
		ToCountry:    o.ToCountry,
		WeightGrams:  o.WeightGrams,
		ShippingCost: o.ShippingCost,
		ServiceFee:   o.ServiceFee,
		TotalCost:    o.TotalCost,
		Tracking:     o.Tracking,
		AdminComment: o.AdminComment,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func fromDomainPurchase(o *domain.Order) *gormPurchaseOrder {
	return &gormPurchaseOrder{
		ID:           o.ID,
		UserID:       o.UserID,
		Status:       string(o.Status),
		FromCountry:  o.FromCountry,
		ToCountry:    o.ToCountry,
		ProductURL:   o.ProductURL,
		ProductCost:  o.ProductCost,
		ShippingCost: o.ShippingCost,
		ServiceFee:   o.ServiceFee,
		TotalCost:    o.TotalCost,
		Tracking:     o.Tracking,
		AdminComment: o.AdminComment,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toDomainPurchase(o *gormPurchaseOrder) *domain.Order {
	if o == nil {
		return nil
	}
	return &domain.Order{
		ID:           o.ID,
		Kind:         domain.KindPurchase,
		UserID:       o.UserID,
		Status:       domain.OrderStatus(o.Status),
		FromCountry:  o.FromCountry,
		ToCountry:    o.ToCountry,
		ProductURL:   o.ProductURL,
		ProductCost:  o.ProductCost,
		ShippingCost: o.ShippingCost,
		ServiceFee:   o.ServiceFee,
		TotalCost:    o.TotalCost,
		Tracking:     o.Tracking,
		AdminComment: o.AdminComment,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func fromDomainHistory(h *domain.StatusHistory) *gormStatusHistory {
	return &gormStatusHistory{
		ID:        h.ID,
		OrderID:   h.OrderID,
		Kind:      string(h.Kind),
		OldStatus: string(h.OldStatus),
		NewStatus: string(h.NewStatus),
		Comment:   h.Comment,
		AdminID:   h.AdminID,
		CreatedAt: h.CreatedAt,
	}
}

func toDomainHistory(h *gormStatusHistory) domain.StatusHistory {
	return domain.StatusHistory{
		ID:        h.ID,
		OrderID:   h.OrderID,
		Kind:      domain.OrderKind(h.Kind),
		OldStatus: domain.OrderStatus(h.OldStatus),
		NewStatus: domain.OrderStatus(h.NewStatus),
		Comment:   h.Comment,
		AdminID:   h.AdminID,
		CreatedAt: h.CreatedAt,
	}
}

func fromDomainTransaction(t *domain.Transaction) *gormTransaction {
	return &gormTransaction{
		ID:          t.ID,
		UserID:      t.UserID,
		OrderID:     t.OrderID,
		OrderKind:   string(t.OrderKind),
		Type:        string(t.Type),
		Status:      string(t.Status),
		Amount:      t.Amount,
		Gateway:     t.Meta.Gateway,
		ExternalRef: t.Meta.ExternalRef,
		Comment:     t.Meta.Comment,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func toDomainTransaction(t *gormTransaction) *domain.Transaction {
	if t == nil {
		return nil
	}
	return &domain.Transaction{
		ID:        t.ID,
		UserID:    t.UserID,
		OrderID:   t.OrderID,
		OrderKind: domain.OrderKind(t.OrderKind),
		Type:      domain.TransactionType(t.Type),
		Status:    domain.TransactionStatus(t.Status),
		Amount:    t.Amount,
		Meta: domain.TransactionMeta{
			Gateway:     t.Gateway,
			ExternalRef: t.ExternalRef,
			Comment:     t.Comment,
		},
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

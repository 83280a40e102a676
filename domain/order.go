package domain

import "time"

// OrderKind distinguishes the two order tables sharing one lifecycle
// machinery: package forwarding and product-purchase brokerage.
type OrderKind string

const (
	KindShipping OrderKind = "shipping"
	KindPurchase OrderKind = "purchase"
)

// OrderStatus values. CREATED is the unique initial status; DELIVERED,
// CANCELLED and (purchase only) REFUNDED are absorbing. PROBLEM is an
// exceptional state reachable from any non-terminal status and may itself
// transition onward.
type OrderStatus string

const (
	StatusCreated           OrderStatus = "CREATED"
	StatusPaid              OrderStatus = "PAID"
	StatusPurchased         OrderStatus = "PURCHASED" // purchase orders only
	StatusWarehouseReceived OrderStatus = "WAREHOUSE_RECEIVED"
	StatusInTransit         OrderStatus = "IN_TRANSIT"
	StatusCustoms           OrderStatus = "CUSTOMS" // shipping orders only
	StatusOutForDelivery    OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered         OrderStatus = "DELIVERED"
	StatusProblem           OrderStatus = "PROBLEM"
	StatusCancelled         OrderStatus = "CANCELLED"
	StatusRefunded          OrderStatus = "REFUNDED" // purchase orders only
)

// IsTerminal reports whether the status is absorbing for the given kind.
func (s OrderStatus) IsTerminal(kind OrderKind) bool {
	switch s {
	case StatusDelivered, StatusCancelled:
		return true
	case StatusRefunded:
		return kind == KindPurchase
	}
	return false
}

// Order is the shared shape of shipping and purchase orders. Kind selects
// the backing table; purchase-specific fields are zero for shipping orders
// and vice versa.
type Order struct {
	ID           int64
	Kind         OrderKind
	UserID       int64
	Status       OrderStatus
	FromCountry  string
	ToCountry    string
	ProductURL   string // purchase only
	ProductCost  int64  // purchase only, minor units
	WeightGrams  int64  // shipping only
	ShippingCost int64  // minor units
	ServiceFee   int64  // minor units
	TotalCost    int64  // minor units
	Tracking     string
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Hydrated on read-through; not populated by cache hits that were
	// stored before the related rows changed.
	History      []StatusHistory
	Transactions []Transaction
}

// StatusHistory is one append-only audit row. OldStatus is empty for the
// row written at order creation.
type StatusHistory struct {
	ID        int64
	OrderID   int64
	Kind      OrderKind
	OldStatus OrderStatus
	NewStatus OrderStatus
	Comment   string
	AdminID   *int64 // nil when the transition was system-initiated
	CreatedAt time.Time
}

// OrderSpec carries the caller-supplied fields for a new order.
type OrderSpec struct {
	Kind           OrderKind
	UserID         int64
	FromCountry    string
	ToCountry      string
	ProductURL     string
	ProductCost    int64
	WeightGrams    int64
	ShippingCost   int64
	ServiceFee     int64
	TotalCost      int64
	InitialComment string
}

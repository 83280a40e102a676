package order

import "github.com/cargoexpress/cargoexpress/domain"

// Policy is the opt-in allowed-transitions table. The Manager itself never
// consults it; bot and API layers that want the strict linear happy path
// with PROBLEM as the only side branch call Allowed before Transition.
type Policy struct {
	next map[domain.OrderKind]map[domain.OrderStatus]domain.OrderStatus
}

// NewPolicy builds the default policy: each kind's operational statuses
// form a single forward chain, PROBLEM and CANCELLED are reachable from any
// non-terminal status, PROBLEM may re-enter the chain anywhere, and
// purchase orders may be refunded once they have left CREATED.
func NewPolicy() *Policy {
	return &Policy{
		next: map[domain.OrderKind]map[domain.OrderStatus]domain.OrderStatus{
			domain.KindShipping: {
				domain.StatusCreated:           domain.StatusPaid,
				domain.StatusPaid:              domain.StatusWarehouseReceived,
				domain.StatusWarehouseReceived: domain.StatusInTransit,
				domain.StatusInTransit:         domain.StatusCustoms,
				domain.StatusCustoms:           domain.StatusOutForDelivery,
				domain.StatusOutForDelivery:    domain.StatusDelivered,
			},
			domain.KindPurchase: {
				domain.StatusCreated:           domain.StatusPaid,
				domain.StatusPaid:              domain.StatusPurchased,
				domain.StatusPurchased:         domain.StatusWarehouseReceived,
				domain.StatusWarehouseReceived: domain.StatusInTransit,
				domain.StatusInTransit:         domain.StatusOutForDelivery,
				domain.StatusOutForDelivery:    domain.StatusDelivered,
			},
		},
	}
}

// Allowed reports whether from -> to is a legal transition for the kind.
func (p *Policy) Allowed(kind domain.OrderKind, from, to domain.OrderStatus) bool {
	chain, ok := p.next[kind]
	if !ok {
		return false
	}
	if from.IsTerminal(kind) || from == to {
		return false
	}

	switch to {
	case domain.StatusProblem, domain.StatusCancelled:
		return true
	case domain.StatusRefunded:
		return kind == domain.KindPurchase && from != domain.StatusCreated
	}

	if from == domain.StatusProblem {
		// PROBLEM is a side branch, not a dead end: it may re-enter the
		// chain at any operational status.
		_, operational := chain[to]
		return operational || to == domain.StatusDelivered
	}

	return chain[from] == to
}

package order

import (
	"testing"

	"github.com/cargoexpress/cargoexpress/domain"
)

func TestPolicyHappyPath(t *testing.T) {
	p := NewPolicy()

	shippingChain := []domain.OrderStatus{
		domain.StatusCreated,
		domain.StatusPaid,
		domain.StatusWarehouseReceived,
		domain.StatusInTransit,
		domain.StatusCustoms,
		domain.StatusOutForDelivery,
		domain.StatusDelivered,
	}
	for i := 0; i+1 < len(shippingChain); i++ {
		if !p.Allowed(domain.KindShipping, shippingChain[i], shippingChain[i+1]) {
			t.Errorf("shipping %s -> %s should be allowed", shippingChain[i], shippingChain[i+1])
		}
	}

	// Skipping a step is not part of the happy path.
	if p.Allowed(domain.KindShipping, domain.StatusCreated, domain.StatusInTransit) {
		t.Error("shipping CREATED -> IN_TRANSIT should be refused")
	}
}

func TestPolicyProblemBranch(t *testing.T) {
	p := NewPolicy()

	for _, from := range []domain.OrderStatus{
		domain.StatusCreated,
		domain.StatusPaid,
		domain.StatusInTransit,
		domain.StatusOutForDelivery,
	} {
		if !p.Allowed(domain.KindShipping, from, domain.StatusProblem) {
			t.Errorf("%s -> PROBLEM should be allowed", from)
		}
	}

	// PROBLEM is not absorbing: it may re-enter the chain.
	if !p.Allowed(domain.KindShipping, domain.StatusProblem, domain.StatusInTransit) {
		t.Error("PROBLEM -> IN_TRANSIT should be allowed")
	}
	if !p.Allowed(domain.KindShipping, domain.StatusProblem, domain.StatusCancelled) {
		t.Error("PROBLEM -> CANCELLED should be allowed")
	}
	if p.Allowed(domain.KindShipping, domain.StatusProblem, domain.StatusProblem) {
		t.Error("PROBLEM -> PROBLEM should be refused")
	}
}

func TestPolicyTerminalStatesAbsorb(t *testing.T) {
	p := NewPolicy()

	for _, from := range []domain.OrderStatus{domain.StatusDelivered, domain.StatusCancelled} {
		for _, to := range []domain.OrderStatus{
			domain.StatusPaid,
			domain.StatusProblem,
			domain.StatusCancelled,
		} {
			if p.Allowed(domain.KindShipping, from, to) {
				t.Errorf("%s -> %s should be refused", from, to)
			}
		}
	}
	if p.Allowed(domain.KindPurchase, domain.StatusRefunded, domain.StatusProblem) {
		t.Error("REFUNDED is terminal for purchase orders")
	}
}

func TestPolicyRefunds(t *testing.T) {
	p := NewPolicy()

	if !p.Allowed(domain.KindPurchase, domain.StatusPaid, domain.StatusRefunded) {
		t.Error("purchase PAID -> REFUNDED should be allowed")
	}
	if p.Allowed(domain.KindPurchase, domain.StatusCreated, domain.StatusRefunded) {
		t.Error("nothing to refund before payment")
	}
	if p.Allowed(domain.KindShipping, domain.StatusPaid, domain.StatusRefunded) {
		t.Error("shipping orders have no REFUNDED state")
	}
}

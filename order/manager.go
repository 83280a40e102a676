// Package order drives the shipping and purchase order lifecycle.
//
// The Manager guarantees that an order's externally visible status never
// changes without a durable audit row, that the cache mirror is refreshed
// or invalidated on every mutation, and that the notification sink observes
// every transition. It deliberately performs no status-graph validation of
// its own; callers wanting the strict linear happy path layer Policy on
// top.
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cargoexpress/cargoexpress/domain"
	"github.com/cargoexpress/cargoexpress/logger"
	"github.com/cargoexpress/cargoexpress/notify"
)

// CacheTTL bounds how long a cached order may serve reads before the next
// read-through.
const CacheTTL = 10 * time.Minute

// Manager exposes the order lifecycle operations.
type Manager struct {
	orders  domain.OrderStore
	history domain.HistoryStore
	kv      domain.KeyValueStore
	sink    domain.NotificationSink

	cacheTTL time.Duration
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithCacheTTL overrides the order cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.cacheTTL = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an order lifecycle manager.
func NewManager(orders domain.OrderStore, history domain.HistoryStore, kv domain.KeyValueStore, sink domain.NotificationSink, opts ...Option) *Manager {
	m := &Manager{
		orders:   orders,
		history:  history,
		kv:       kv,
		sink:     sink,
		cacheTTL: CacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func orderKey(kind domain.OrderKind, id int64) string {
	return fmt.Sprintf("order:%s:%d", kind, id)
}

// Create persists a new order in CREATED status, writes the initial history
// row and warms the cache. The returned order is fully hydrated.
func (m *Manager) Create(ctx context.Context, spec domain.OrderSpec) (*domain.Order, error) {
	now := m.now()
	o := &domain.Order{
		Kind:         spec.Kind,
		UserID:       spec.UserID,
		Status:       domain.StatusCreated,
		FromCountry:  spec.FromCountry,
		ToCountry:    spec.ToCountry,
		ProductURL:   spec.ProductURL,
		ProductCost:  spec.ProductCost,
		WeightGrams:  spec.WeightGrams,
		ShippingCost: spec.ShippingCost,
		ServiceFee:   spec.ServiceFee,
		TotalCost:    spec.TotalCost,
		AdminComment: spec.InitialComment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.orders.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("order: create failed: %w", err)
	}

	// The initial history row has no old status.
	entry := &domain.StatusHistory{
		OrderID:   o.ID,
		Kind:      o.Kind,
		NewStatus: domain.StatusCreated,
		Comment:   spec.InitialComment,
		CreatedAt: now,
	}
	if err := m.history.AppendHistory(ctx, entry); err != nil {
		return nil, fmt.Errorf("order: initial history failed: %w", err)
	}
	o.History = []domain.StatusHistory{*entry}

	m.refreshCache(ctx, o)
	m.publish(ctx, notify.OrderStatusEvent{
		OrderID:   o.ID,
		Kind:      o.Kind,
		UserID:    o.UserID,
		NewStatus: domain.StatusCreated,
		Comment:   spec.InitialComment,
	})

	return o, nil
}

// Transition moves the order to newStatus, appending exactly one history
// row and refreshing the cache to the new full record. The manager accepts
// any status after any other; transition legality is the caller's policy.
func (m *Manager) Transition(ctx context.Context, kind domain.OrderKind, id int64, newStatus domain.OrderStatus, comment string, actingAdminID *int64) (*domain.Order, error) {
	current, err := m.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("order: transition %s/%d: %w", kind, id, domain.ErrNotFound)
	}

	now := m.now()
	if err := m.orders.UpdateOrderStatus(ctx, kind, id, newStatus, comment, now); err != nil {
		return nil, fmt.Errorf("order: status write failed: %w", err)
	}

	entry := &domain.StatusHistory{
		OrderID:   id,
		Kind:      kind,
		OldStatus: current.Status,
		NewStatus: newStatus,
		Comment:   comment,
		AdminID:   actingAdminID,
		CreatedAt: now,
	}
	if err := m.history.AppendHistory(ctx, entry); err != nil {
		return nil, fmt.Errorf("order: history append failed: %w", err)
	}

	// Re-read for a fully hydrated record before refreshing the cache, so
	// other readers never see the stale pre-transition entry.
	updated, err := m.orders.GetOrder(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("order: reload after transition failed: %w", err)
	}
	m.refreshCache(ctx, updated)

	m.publish(ctx, notify.OrderStatusEvent{
		OrderID:   id,
		Kind:      kind,
		UserID:    updated.UserID,
		OldStatus: current.Status,
		NewStatus: newStatus,
		Comment:   comment,
	})

	return updated, nil
}

// AttachTracking sets the tracking number and invalidates the cache entry
// instead of refreshing it; the next read repopulates.
func (m *Manager) AttachTracking(ctx context.Context, kind domain.OrderKind, id int64, tracking string) error {
	if err := m.orders.UpdateOrderTracking(ctx, kind, id, tracking); err != nil {
		return fmt.Errorf("order: tracking write failed: %w", err)
	}
	if err := m.kv.Delete(ctx, orderKey(kind, id)); err != nil {
		logger.Log.Warn("order cache invalidation failed",
			zap.String("kind", string(kind)),
			zap.Int64("order_id", id),
			zap.Error(err),
		)
	}
	return nil
}

// Get reads cache-first, falling back to the durable store and
// repopulating the cache on a miss. An order absent everywhere is
// (nil, nil); callers treat nil as the canonical not-found signal.
func (m *Manager) Get(ctx context.Context, kind domain.OrderKind, id int64) (*domain.Order, error) {
	key := orderKey(kind, id)

	raw, found, err := m.kv.Get(ctx, key)
	if err != nil {
		logger.Log.Warn("order cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		var o domain.Order
		if err := json.Unmarshal(raw, &o); err == nil {
			return &o, nil
		}
		logger.Log.Warn("malformed order cache entry, dropping", zap.String("key", key))
		m.kv.Delete(ctx, key)
	}

	o, err := m.orders.GetOrder(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("order: load failed: %w", err)
	}
	if o == nil {
		return nil, nil
	}
	m.refreshCache(ctx, o)
	return o, nil
}

// refreshCache best-effort writes the full record. A failure leaves the
// durable store correct and the cache cold, which reads tolerate.
func (m *Manager) refreshCache(ctx context.Context, o *domain.Order) {
	raw, err := json.Marshal(o)
	if err != nil {
		logger.Log.Warn("order cache marshal failed", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	if err := m.kv.SetWithTTL(ctx, orderKey(o.Kind, o.ID), raw, m.cacheTTL); err != nil {
		logger.Log.Warn("order cache write failed", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

func (m *Manager) publish(ctx context.Context, event notify.OrderStatusEvent) {
	if m.sink == nil {
		return
	}
	if err := m.sink.Publish(ctx, notify.ChannelOrderStatus, event); err != nil {
		logger.Log.Warn("order event publish failed", zap.Int64("order_id", event.OrderID), zap.Error(err))
	}
}

// Package notify publishes user-facing notification events.
//
// Publishing is fire and forget: the managers log a failed publish and move
// on, because a missed notification must never fail the status transition
// or access grant that produced it. RedisSink publishes to Redis channels
// for the bot process to consume; MemorySink records events for tests.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/cargoexpress/cargoexpress/domain"
)

// Channels the bot layer subscribes to.
const (
	ChannelOrderStatus     = "notifications:order_status"
	ChannelDashboardAccess = "notifications:dashboard_access"
)

// OrderStatusEvent is published on every order status transition.
type OrderStatusEvent struct {
	OrderID   int64              `json:"order_id"`
	Kind      domain.OrderKind   `json:"kind"`
	UserID    int64              `json:"user_id"`
	OldStatus domain.OrderStatus `json:"old_status,omitempty"`
	NewStatus domain.OrderStatus `json:"new_status"`
	Comment   string             `json:"comment,omitempty"`
}

// DashboardAccessEvent is published on dashboard access grants and
// revocations.
type DashboardAccessEvent struct {
	AdminID int64  `json:"admin_id"`
	Action  string `json:"action"` // issued, consumed, revoked, logout
}

// RedisSink implements domain.NotificationSink over Redis PUBLISH.
type RedisSink struct {
	client *redis.Client
}

// NewRedisSink creates a Redis-backed sink.
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload failed: %w", err)
	}
	if err := s.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("notify: publish to %s failed: %w", channel, err)
	}
	return nil
}

// MemorySink records published events for tests.
type MemorySink struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// PublishedEvent is one recorded Publish call.
type PublishedEvent struct {
	Channel string
	Payload any
}

// NewMemorySink creates an empty recording sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(ctx context.Context, channel string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, PublishedEvent{Channel: channel, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far.
func (s *MemorySink) Events() []PublishedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PublishedEvent, len(s.events))
	copy(out, s.events)
	return out
}

var (
	_ domain.NotificationSink = (*RedisSink)(nil)
	_ domain.NotificationSink = (*MemorySink)(nil)
)

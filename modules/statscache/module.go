package statscache

import (
	"context"
	"fmt"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"
)

// Module drops cached stats whenever a task event names their owner.
type Module struct {
	cache  *Cache
	logger zerolog.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new statscache Module.
func NewModule(cache *Cache, logger zerolog.Logger) *Module {
	return &Module{cache: cache, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "statscache"
}

// RegisterEventConsumers subscribes to every task event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskRestoredV1, m.handleTaskRestored, m); err != nil {
		return fmt.Errorf("failed to register TaskRestored consumer: %w", err)
	}
	return nil
}

func (m *Module) handleTaskCreated(ctx context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "TaskCreated", event.UserID)
}

func (m *Module) handleTaskUpdated(ctx context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "TaskUpdated", event.UserID)
}

func (m *Module) handleTaskDeleted(ctx context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "TaskDeleted", event.UserID)
}

func (m *Module) handleTaskRestored(ctx context.Context, event events.TaskRestoredEvent, _ *mono.Msg) error {
	return m.invalidate(ctx, "TaskRestored", event.UserID)
}

func (m *Module) invalidate(ctx context.Context, event, userID string) error {
	if err := m.cache.Invalidate(ctx, userID); err != nil {
		m.logger.Warn().Err(err).Str("event", event).Str("user_id", userID).Msg("stats invalidation failed")
		return err
	}
	m.logger.Debug().Str("event", event).Str("user_id", userID).Msg("stats invalidated")
	return nil
}

// Start verifies Redis is reachable. An unreachable Redis is logged, not
// fatal.
func (m *Module) Start(ctx context.Context) error {
	if err := m.cache.Ping(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("redis not reachable")
	}
	m.logger.Info().Msg("module started")
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.cache.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	m.logger.Info().Msg("module stopped")
	return nil
}

// Health pings Redis and reports cache counters.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	counters := m.cache.Snapshot()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"hits":   counters.Hits,
			"misses": counters.Misses,
		},
	}
}

// Package notification records task lifecycle events as activity entries.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"
)

// maxEntries bounds the in-memory activity history.
const maxEntries = 1000

// Entry is one recorded task event.
type Entry struct {
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Module subscribes to task events and logs each one.
type Module struct {
	logger  zerolog.Logger
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)

// NewModule creates a new notification Module.
func NewModule(logger zerolog.Logger) *Module {
	return &Module{
		logger:  logger,
		entries: make([]Entry, 0),
		now:     time.Now,
	}
}

func (m *Module) Name() string {
	return "notification"
}

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

	m.logger.Info().
		Strs("events", []string{"TaskCreated", "TaskUpdated", "TaskDeleted", "TaskRestored"}).
		Msg("registered event consumers")
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Info().Str("task_id", event.TaskID).Str("user_id", event.UserID).Str("title", event.Title).Msg("task created")
	m.record(event.TaskID, event.UserID, "task_created", fmt.Sprintf("New task '%s' created", event.Title))
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.logger.Info().
		Str("task_id", event.TaskID).
		Str("user_id", event.UserID).
		Str("previous_status", event.PreviousStatus).
		Str("current_status", event.CurrentStatus).
		Msg("task updated")

	msg := fmt.Sprintf("Task %s updated", event.TaskID)
	if event.PreviousStatus != event.CurrentStatus {
		msg = fmt.Sprintf("Task %s moved from %s to %s", event.TaskID, event.PreviousStatus, event.CurrentStatus)
	}
	m.record(event.TaskID, event.UserID, "task_updated", msg)
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Info().Str("task_id", event.TaskID).Str("user_id", event.UserID).Msg("task deleted")
	m.record(event.TaskID, event.UserID, "task_deleted", fmt.Sprintf("Task %s moved to recently deleted", event.TaskID))
	return nil
}

func (m *Module) handleTaskRestored(_ context.Context, event events.TaskRestoredEvent, _ *mono.Msg) error {
	m.logger.Info().Str("task_id", event.TaskID).Str("user_id", event.UserID).Msg("task restored")
	m.record(event.TaskID, event.UserID, "task_restored", fmt.Sprintf("Task %s restored", event.TaskID))
	return nil
}

func (m *Module) record(taskID, userID, entryType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		TaskID:    taskID,
		UserID:    userID,
		Type:      entryType,
		Message:   message,
		Timestamp: m.now(),
	})
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
}

// Entries returns a copy of the recorded activity, oldest first.
func (m *Module) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info().Msg("module started, listening for task events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info().Msg("module stopped")
	return nil
}

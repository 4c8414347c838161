package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/domain/apperror"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"
)

// Service names registered by the task module.
const (
	ServiceCreateTask        = "create-task"
	ServiceListActiveTasks   = "list-active-tasks"
	ServiceListArchivedTasks = "list-archived-tasks"
	ServiceListDeletedTasks  = "list-deleted-tasks"
	ServiceGetStats          = "get-stats"
	ServiceDeleteTask        = "delete-task"
	ServiceRestoreTask       = "restore-task"
	ServiceUpdateTask        = "update-task"
)

// Module provides task management services (core domain).
type Module struct {
	store    Store
	cache    StatsCache
	users    UserLookup
	eventBus mono.EventBus
	service  *Service
	logger   zerolog.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.EventEmitterModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a task Module over store. cache may be nil.
func NewModule(store Store, cache StatsCache, logger zerolog.Logger) *Module {
	return &Module{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (m *Module) Name() string {
	return "task"
}

func (m *Module) Dependencies() []string {
	return []string{"user"}
}

func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "user" {
		m.users = user.NewUserAdapter(container)
	}
}

func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
		events.TaskRestoredV1.ToBase(),
	}
}

func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateTask, json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListActiveTasks, json.Unmarshal, json.Marshal, m.listActiveTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListActiveTasks, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListArchivedTasks, json.Unmarshal, json.Marshal, m.listArchivedTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListArchivedTasks, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListDeletedTasks, json.Unmarshal, json.Marshal, m.listDeletedTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListDeletedTasks, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetStats, json.Unmarshal, json.Marshal, m.getStats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetStats, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDeleteTask, json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRestoreTask, json.Unmarshal, json.Marshal, m.restoreTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRestoreTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateTask, json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateTask, err)
	}

	m.logger.Info().
		Strs("services", []string{
			ServiceCreateTask, ServiceListActiveTasks, ServiceListArchivedTasks, ServiceListDeletedTasks,
			ServiceGetStats, ServiceDeleteTask, ServiceRestoreTask, ServiceUpdateTask,
		}).
		Msg("registered services")
	return nil
}

func (m *Module) Start(_ context.Context) error {
	if m.users == nil {
		return fmt.Errorf("user dependency not set")
	}

	opts := []Option{WithLogger(m.logger)}
	if m.cache != nil {
		opts = append(opts, WithStatsCache(m.cache))
	}
	if m.eventBus != nil {
		opts = append(opts, WithPublisher(NewBusPublisher(m.eventBus)))
	} else {
		m.logger.Warn().Msg("event bus not set, events will not be published")
	}
	m.service = NewService(m.store, m.users, opts...)

	m.logger.Info().Bool("stats_cache", m.cache != nil).Msg("module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info().Msg("module stopped")
	return nil
}

// Health pings the task store.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

func (m *Module) fault(service string, err error) *apperror.Fault {
	f := apperror.ToFault(err)
	if f != nil && f.Kind == apperror.KindInternal {
		m.logger.Error().Err(err).Str("service", service).Msg("service failed")
	}
	return f
}

func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.CreateTask(ctx, req)
	if err != nil {
		return TaskResponse{Fault: m.fault(ServiceCreateTask, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *Module) listActiveTasks(ctx context.Context, req UserTasksRequest, _ *mono.Msg) (TaskListResponse, error) {
	tasks, err := m.service.ListActiveTasks(ctx, req.UserID)
	if err != nil {
		return TaskListResponse{Fault: m.fault(ServiceListActiveTasks, err)}, nil
	}
	return TaskListResponse{Tasks: tasks}, nil
}

func (m *Module) listArchivedTasks(ctx context.Context, req UserTasksRequest, _ *mono.Msg) (TaskListResponse, error) {
	tasks, err := m.service.ListArchivedTasks(ctx, req.UserID)
	if err != nil {
		return TaskListResponse{Fault: m.fault(ServiceListArchivedTasks, err)}, nil
	}
	return TaskListResponse{Tasks: tasks}, nil
}

func (m *Module) listDeletedTasks(ctx context.Context, req UserTasksRequest, _ *mono.Msg) (TaskListResponse, error) {
	tasks, err := m.service.ListDeletedTasks(ctx, req.UserID)
	if err != nil {
		return TaskListResponse{Fault: m.fault(ServiceListDeletedTasks, err)}, nil
	}
	return TaskListResponse{Tasks: tasks}, nil
}

func (m *Module) getStats(ctx context.Context, req UserTasksRequest, _ *mono.Msg) (StatsResponse, error) {
	stats, err := m.service.GetStats(ctx, req.UserID)
	if err != nil {
		return StatsResponse{Fault: m.fault(ServiceGetStats, err)}, nil
	}
	return StatsResponse{Stats: &stats}, nil
}

func (m *Module) deleteTask(ctx context.Context, req TaskRefRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.DeleteTask(ctx, req)
	if err != nil {
		return TaskResponse{Fault: m.fault(ServiceDeleteTask, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *Module) restoreTask(ctx context.Context, req TaskRefRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.RestoreTask(ctx, req)
	if err != nil {
		return TaskResponse{Fault: m.fault(ServiceRestoreTask, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	prev, curr, err := m.service.UpdateTask(ctx, req)
	if err != nil {
		return UpdateTaskResponse{Fault: m.fault(ServiceUpdateTask, err)}, nil
	}
	return UpdateTaskResponse{PreviousTask: &prev, CurrentTask: &curr}, nil
}

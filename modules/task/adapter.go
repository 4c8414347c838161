package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the port the API module uses to reach tasks.
type TaskPort interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	ListActiveTasks(ctx context.Context, userID string) ([]domain.Task, error)
	ListArchivedTasks(ctx context.Context, userID string) ([]domain.Task, error)
	ListDeletedTasks(ctx context.Context, userID string) ([]domain.Task, error)
	GetStats(ctx context.Context, userID string) (domain.Stats, error)
	DeleteTask(ctx context.Context, ref TaskRefRequest) (*domain.Task, error)
	RestoreTask(ctx context.Context, ref TaskRefRequest) (*domain.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (prev, curr domain.Task, err error)
}

var (
	_ TaskPort = (*Service)(nil)
	_ TaskPort = (*TaskAdapter)(nil)
)

// TaskAdapter implements TaskPort over the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &TaskAdapter{container: container}
}

// callService invokes a request-reply service and decodes the reply into resp.
func callService[Resp any](ctx context.Context, container mono.ServiceContainer, service string, req any, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

func (a *TaskAdapter) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, ServiceCreateTask, &req, &resp); err != nil {
		return nil, err
	}
	return resp.Task, resp.Fault.Err()
}

func (a *TaskAdapter) ListActiveTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return a.list(ctx, ServiceListActiveTasks, userID)
}

func (a *TaskAdapter) ListArchivedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return a.list(ctx, ServiceListArchivedTasks, userID)
}

func (a *TaskAdapter) ListDeletedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return a.list(ctx, ServiceListDeletedTasks, userID)
}

func (a *TaskAdapter) list(ctx context.Context, service, userID string) ([]domain.Task, error) {
	req := UserTasksRequest{UserID: userID}
	var resp TaskListResponse
	if err := callService(ctx, a.container, service, &req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		return []domain.Task{}, nil
	}
	return resp.Tasks, nil
}

func (a *TaskAdapter) GetStats(ctx context.Context, userID string) (domain.Stats, error) {
	req := UserTasksRequest{UserID: userID}
	var resp StatsResponse
	if err := callService(ctx, a.container, ServiceGetStats, &req, &resp); err != nil {
		return domain.Stats{}, err
	}
	if err := resp.Fault.Err(); err != nil {
		return domain.Stats{}, err
	}
	if resp.Stats == nil {
		return domain.Stats{}, nil
	}
	return *resp.Stats, nil
}

func (a *TaskAdapter) DeleteTask(ctx context.Context, ref TaskRefRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, ServiceDeleteTask, &ref, &resp); err != nil {
		return nil, err
	}
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (a *TaskAdapter) RestoreTask(ctx context.Context, ref TaskRefRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, ServiceRestoreTask, &ref, &resp); err != nil {
		return nil, err
	}
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (a *TaskAdapter) UpdateTask(ctx context.Context, req UpdateTaskRequest) (prev, curr domain.Task, err error) {
	var resp UpdateTaskResponse
	if err := callService(ctx, a.container, ServiceUpdateTask, &req, &resp); err != nil {
		return prev, curr, err
	}
	if err := resp.Fault.Err(); err != nil {
		return prev, curr, err
	}
	if resp.PreviousTask != nil {
		prev = *resp.PreviousTask
	}
	if resp.CurrentTask != nil {
		curr = *resp.CurrentTask
	}
	return prev, curr, nil
}

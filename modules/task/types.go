package task

import (
	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
)

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UserTasksRequest addresses every task of one user.
type UserTasksRequest struct {
	UserID string `json:"userId"`
}

// TaskRefRequest addresses a single task of one user.
type TaskRefRequest struct {
	TaskID string `json:"taskId"`
	UserID string `json:"userId"`
}

// TaskFields lists the editable text fields of a task.
type TaskFields struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest represents a partial task update.
type UpdateTaskRequest struct {
	TaskID string         `json:"taskId"`
	UserID string         `json:"userId"`
	Task   TaskFields     `json:"task"`
	Status *domain.Status `json:"status,omitempty"`
}

// Patch converts the request into a lifecycle patch.
func (r UpdateTaskRequest) Patch() domain.Patch {
	return domain.Patch{
		Title:       r.Task.Title,
		Description: r.Task.Description,
		Status:      r.Status,
	}
}

// TaskResponse carries a single task.
type TaskResponse struct {
	Task  *domain.Task    `json:"task,omitempty"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}

// TaskListResponse carries a list of tasks.
type TaskListResponse struct {
	Tasks []domain.Task   `json:"tasks"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}

// StatsResponse carries per-state task counts.
type StatsResponse struct {
	Stats *domain.Stats   `json:"stats,omitempty"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}

// UpdateTaskResponse carries the task before and after an update.
type UpdateTaskResponse struct {
	PreviousTask *domain.Task    `json:"previousTask,omitempty"`
	CurrentTask  *domain.Task    `json:"currentTask,omitempty"`
	Fault        *apperror.Fault `json:"fault,omitempty"`
}

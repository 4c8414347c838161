package task

import (
	"context"
	"errors"

	domain "github.com/example/task-tracker/domain/task"
)

// ErrTaskNotFound is returned when no task matches an (id, userId) pair.
var ErrTaskNotFound = errors.New("task not found")

// MutateFunc computes the next state of a task from its current state.
// Returning an error aborts the mutation.
type MutateFunc func(current domain.Task) (domain.Task, error)

// Store persists tasks. Every single-task operation is scoped by both the
// task id and the owner id.
type Store interface {
	Create(ctx context.Context, t *domain.Task) error
	Find(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error)
	// Mutate reads the task, applies fn and writes the result in one
	// transaction. It returns the stored snapshots before and after.
	Mutate(ctx context.Context, id, userID string, fn MutateFunc) (prev, curr domain.Task, err error)
	Ping(ctx context.Context) error
}

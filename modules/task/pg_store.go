package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, description, status, deletion_status, deleted_at, created_at, updated_at`

// PgStore handles task persistence on PostgreSQL through pgx.
type PgStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PgStore)(nil)

// NewPgStore creates a new PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Create inserts a new task.
func (s *PgStore) Create(ctx context.Context, t *domain.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.UserID, t.Title, t.Description, string(t.Status), string(t.DeletionStatus),
		t.DeletedAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Find returns the tasks of userID matching f, oldest first.
func (s *PgStore) Find(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.DeletionStatus != nil {
		add("deletion_status = $%d", string(*f.DeletionStatus))
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	if f.ExcludeStatus != nil {
		add("status <> $%d", string(*f.ExcludeStatus))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Mutate locks the row, applies fn and writes the result.
func (s *PgStore) Mutate(ctx context.Context, id, userID string, fn MutateFunc) (prev, curr domain.Task, err error) {
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		current, err := scanTask(tx.QueryRow(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("lock task: %w", err)
		}
		prev = current.Clone()

		next, err := fn(current.Clone())
		if err != nil {
			return err
		}

		updated, err := scanTask(tx.QueryRow(ctx, `
			UPDATE tasks
			SET title = $3, description = $4, status = $5, deletion_status = $6, deleted_at = $7, updated_at = $8
			WHERE id = $1 AND user_id = $2
			RETURNING `+taskColumns,
			id, userID, next.Title, next.Description, string(next.Status), string(next.DeletionStatus),
			next.DeletedAt, next.UpdatedAt))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("update task: %w", err)
		}
		curr = *updated
		return nil
	})
	if err != nil {
		return domain.Task{}, domain.Task{}, err
	}
	return prev, curr, nil
}

// Ping verifies the pool can reach the database.
func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t              domain.Task
		status         string
		deletionStatus string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &deletionStatus,
		&t.DeletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.ParseStatus(status)
	t.DeletionStatus = domain.DeletionStatus(deletionStatus)
	return &t, nil
}

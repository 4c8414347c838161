package task

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredTask(userID, title string, status domain.Status, deleted bool, at time.Time) *domain.Task {
	t := &domain.Task{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Status:         status,
		DeletionStatus: domain.NotDeleted,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	if deleted {
		t.DeletionStatus = domain.SoftDeleted
		t.DeletedAt = &at
	}
	return t
}

// findStored returns the task with id owned by userID, or nil.
func findStored(t *testing.T, store Store, id, userID string) *domain.Task {
	t.Helper()
	tasks, err := store.Find(context.Background(), userID, domain.All())
	require.NoError(t, err)
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// storeContract runs the shared behaviour checks against any Store.
func storeContract(t *testing.T, store Store, userID, otherUserID string) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	active := newStoredTask(userID, "active", domain.StatusActive, false, base)
	completed := newStoredTask(userID, "completed", domain.StatusCompleted, false, base.Add(time.Second))
	archived := newStoredTask(userID, "archived", domain.StatusArchived, false, base.Add(2*time.Second))
	deleted := newStoredTask(userID, "deleted", domain.StatusActive, true, base.Add(3*time.Second))
	foreign := newStoredTask(otherUserID, "foreign", domain.StatusActive, false, base)
	for _, task := range []*domain.Task{active, completed, archived, deleted, foreign} {
		require.NoError(t, store.Create(ctx, task))
	}

	t.Run("find is owner scoped", func(t *testing.T) {
		got := findStored(t, store, active.ID, userID)
		require.NotNil(t, got)
		assert.Equal(t, "active", got.Title)

		assert.Nil(t, findStored(t, store, active.ID, otherUserID))
	})

	t.Run("views", func(t *testing.T) {
		tests := []struct {
			name   string
			filter domain.Filter
			want   []string
		}{
			{name: "all", filter: domain.All(), want: []string{"active", "completed", "archived", "deleted"}},
			{name: "active", filter: domain.ActiveView(), want: []string{"active", "completed"}},
			{name: "archived", filter: domain.ArchivedView(), want: []string{"archived"}},
			{name: "deleted", filter: domain.DeletedView(), want: []string{"deleted"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tasks, err := store.Find(ctx, userID, tt.filter)
				require.NoError(t, err)
				titles := make([]string, 0, len(tasks))
				for _, task := range tasks {
					titles = append(titles, task.Title)
				}
				assert.Equal(t, tt.want, titles)
			})
		}
	})

	t.Run("find for unknown user is empty", func(t *testing.T) {
		tasks, err := store.Find(ctx, uuid.New().String(), domain.All())
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("mutate returns both snapshots", func(t *testing.T) {
		now := base.Add(time.Minute)
		prev, curr, err := store.Mutate(ctx, completed.ID, userID, func(cur domain.Task) (domain.Task, error) {
			next := domain.SoftDelete(cur, now)
			next.UpdatedAt = now
			return next, nil
		})
		require.NoError(t, err)
		assert.Equal(t, domain.NotDeleted, prev.DeletionStatus)
		assert.Nil(t, prev.DeletedAt)
		assert.Equal(t, domain.SoftDeleted, curr.DeletionStatus)
		require.NotNil(t, curr.DeletedAt)
		assert.Equal(t, domain.StatusCompleted, curr.Status)

		stored := findStored(t, store, completed.ID, userID)
		require.NotNil(t, stored)
		assert.Equal(t, domain.SoftDeleted, stored.DeletionStatus)
	})

	t.Run("mutate error aborts", func(t *testing.T) {
		boom := errors.New("boom")
		_, _, err := store.Mutate(ctx, active.ID, userID, func(cur domain.Task) (domain.Task, error) {
			return domain.Task{}, boom
		})
		assert.ErrorIs(t, err, boom)

		stored := findStored(t, store, active.ID, userID)
		require.NotNil(t, stored)
		assert.Equal(t, "active", stored.Title)
	})

	t.Run("mutate missing pair", func(t *testing.T) {
		_, _, err := store.Mutate(ctx, foreign.ID, userID, func(cur domain.Task) (domain.Task, error) {
			return cur, nil
		})
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	assert.NoError(t, store.Ping(ctx))
}

func TestGormStore(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseSQLite(db) })

	storeContract(t, NewGormStore(db), uuid.New().String(), uuid.New().String())
}

func TestGormStore_NormalizesLegacyStatus(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseSQLite(db) })

	userID := uuid.New().String()
	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		`INSERT INTO tasks (id, user_id, title, status, deletion_status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"legacy", userID, "old row", "NOT_STARTED", string(domain.NotDeleted), now, now,
	).Error)

	store := NewGormStore(db)
	tasks, err := store.Find(context.Background(), userID, domain.ActiveView())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.StatusActive, tasks[0].Status)

	_, curr, err := store.Mutate(context.Background(), "legacy", userID, func(cur domain.Task) (domain.Task, error) {
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, curr.Status)
}

func TestPgStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.OpenPostgres(ctx, database.PostgresOptions{URL: url})
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}
	defer pool.Close()

	userID, otherUserID := uuid.New().String(), uuid.New().String()
	for i, id := range []string{userID, otherUserID} {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (id, username, first_name, email, password) VALUES ($1, $2, 'Test', $3, 'hash')`,
			id, "store-test-"+id, "test-store-"+id+"@example.com")
		require.NoError(t, err, "insert user %d", i)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM tasks WHERE user_id IN ($1, $2)`, userID, otherUserID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id IN ($1, $2)`, userID, otherUserID)
	})

	storeContract(t, NewPgStore(pool), userID, otherUserID)
}

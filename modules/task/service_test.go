package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

// mockUsers implements UserLookup for testing.
type mockUsers struct {
	userExistsFunc func(ctx context.Context, id string) (bool, error)
	calls          int
}

func (m *mockUsers) UserExists(ctx context.Context, id string) (bool, error) {
	m.calls++
	if m.userExistsFunc != nil {
		return m.userExistsFunc(ctx, id)
	}
	return id == testUserID, nil
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu       sync.Mutex
	created  []events.TaskCreatedEvent
	updated  []events.TaskUpdatedEvent
	deleted  []events.TaskDeletedEvent
	restored []events.TaskRestoredEvent
	err      error
}

func (p *recordingPublisher) TaskCreated(ev events.TaskCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, ev)
	return p.err
}

func (p *recordingPublisher) TaskUpdated(ev events.TaskUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, ev)
	return p.err
}

func (p *recordingPublisher) TaskDeleted(ev events.TaskDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, ev)
	return p.err
}

func (p *recordingPublisher) TaskRestored(ev events.TaskRestoredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restored = append(p.restored, ev)
	return p.err
}

// memoryCache implements StatsCache in memory.
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string]domain.Stats
	invalidated []string
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]domain.Stats{}}
}

func (c *memoryCache) Get(_ context.Context, userID string) (domain.Stats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.Stats{}, false, c.getErr
	}
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, userID string, stats domain.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = stats
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type serviceFixture struct {
	svc       *Service
	users     *mockUsers
	publisher *recordingPublisher
	cache     *memoryCache
	now       time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseSQLite(db) })

	f := &serviceFixture{
		users:     &mockUsers{},
		publisher: &recordingPublisher{},
		cache:     newMemoryCache(),
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(NewGormStore(db), f.users,
		WithPublisher(f.publisher),
		WithStatsCache(f.cache),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *serviceFixture) create(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{UserID: testUserID, Title: title})
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.Status) *domain.Status { return &s }

func TestService_CreateTask(t *testing.T) {
	f := newServiceFixture(t)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{
		UserID:      testUserID,
		Title:       "Buy milk",
		Description: strPtr("2 litres"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.StatusActive, task.Status)
	assert.Equal(t, domain.NotDeleted, task.DeletionStatus)
	assert.Nil(t, task.DeletedAt)
	assert.Equal(t, f.now, task.CreatedAt)

	require.Len(t, f.publisher.created, 1)
	assert.Equal(t, task.ID, f.publisher.created[0].TaskID)
	assert.Contains(t, f.cache.invalidated, testUserID)
}

func TestService_CreateTaskErrors(t *testing.T) {
	t.Run("validation runs before user lookup", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{UserID: testUserID, Title: ""})
		require.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, []string{domain.MsgTitleEmpty}, apperror.ToFault(err).Messages)
		assert.Zero(t, f.users.calls)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{UserID: "ghost", Title: "x"})
		require.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Equal(t, MsgUserMissing, err.Error())
		assert.Empty(t, f.publisher.created)
	})

	t.Run("lookup failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.users.userExistsFunc = func(context.Context, string) (bool, error) {
			return false, errors.New("connection refused")
		}
		_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{UserID: testUserID, Title: "x"})
		require.Error(t, err)
		assert.Equal(t, apperror.KindInternal, apperror.ToFault(err).Kind)
	})

	t.Run("publish failure does not fail the call", func(t *testing.T) {
		f := newServiceFixture(t)
		f.publisher.err = errors.New("bus down")
		_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{UserID: testUserID, Title: "x"})
		assert.NoError(t, err)
	})
}

func TestService_Lists(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	active := f.create(t, "active")
	archived := f.create(t, "archived")
	deleted := f.create(t, "deleted")

	_, _, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: archived.ID, UserID: testUserID, Status: statusPtr(domain.StatusArchived)})
	require.NoError(t, err)
	_, err = f.svc.DeleteTask(ctx, TaskRefRequest{TaskID: deleted.ID, UserID: testUserID})
	require.NoError(t, err)

	tasks, err := f.svc.ListActiveTasks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, active.ID, tasks[0].ID)

	tasks, err = f.svc.ListArchivedTasks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, archived.ID, tasks[0].ID)

	tasks, err = f.svc.ListDeletedTasks(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, deleted.ID, tasks[0].ID)

	_, err = f.svc.ListActiveTasks(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_ListEmptyIsNotNil(t *testing.T) {
	f := newServiceFixture(t)

	tasks, err := f.svc.ListActiveTasks(context.Background(), testUserID)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestService_GetStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	stats, err := f.svc.GetStats(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)

	f.create(t, "active")
	completed := f.create(t, "completed")
	archived := f.create(t, "archived")
	deleted := f.create(t, "deleted")

	_, _, err = f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: completed.ID, UserID: testUserID, Status: statusPtr(domain.StatusCompleted)})
	require.NoError(t, err)
	_, _, err = f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: archived.ID, UserID: testUserID, Status: statusPtr(domain.StatusArchived)})
	require.NoError(t, err)
	_, err = f.svc.DeleteTask(ctx, TaskRefRequest{TaskID: deleted.ID, UserID: testUserID})
	require.NoError(t, err)

	stats, err = f.svc.GetStats(ctx, testUserID)
	require.NoError(t, err)
	want := domain.Stats{TotalTasks: 4, ActiveTasks: 2, CompletedTasks: 1, ArchivedTasks: 1, DeletedTasks: 1}
	assert.Equal(t, want, stats)

	cached, found, err := f.cache.Get(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, cached)
}

func TestService_GetStatsCacheHit(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seeded := domain.Stats{TotalTasks: 9}
	require.NoError(t, f.cache.Set(ctx, testUserID, seeded))

	stats, err := f.svc.GetStats(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, seeded, stats)
}

func TestService_GetStatsCacheFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.cache.getErr = errors.New("redis down")
	f.create(t, "one")

	stats, err := f.svc.GetStats(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTasks)
}

// ctxRecordingStore records the context error seen by Find.
type ctxRecordingStore struct {
	Store
	findErr error
}

func (s *ctxRecordingStore) Find(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error) {
	s.findErr = ctx.Err()
	return s.Store.Find(ctx, userID, f)
}

func TestService_GetStatsIgnoresCallerCancel(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseSQLite(db) })

	store := &ctxRecordingStore{Store: NewGormStore(db)}
	svc := NewService(store, &mockUsers{})
	_, err = svc.CreateTask(context.Background(), CreateTaskRequest{UserID: testUserID, Title: "one"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := svc.GetStats(ctx, testUserID)
	require.NoError(t, err)
	assert.NoError(t, store.findErr)
	assert.Equal(t, 1, stats.TotalTasks)
}

func TestService_DeleteAndRestore(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	task := f.create(t, "a task")
	_, _, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: task.ID, UserID: testUserID, Status: statusPtr(domain.StatusCompleted)})
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	deleted, err := f.svc.DeleteTask(ctx, TaskRefRequest{TaskID: task.ID, UserID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, domain.SoftDeleted, deleted.DeletionStatus)
	require.NotNil(t, deleted.DeletedAt)
	assert.True(t, f.now.Equal(*deleted.DeletedAt))
	require.Len(t, f.publisher.deleted, 1)

	restored, err := f.svc.RestoreTask(ctx, TaskRefRequest{TaskID: task.ID, UserID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, domain.NotDeleted, restored.DeletionStatus)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, domain.StatusCompleted, restored.Status)
	require.Len(t, f.publisher.restored, 1)
}

func TestService_MissingPair(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	task := f.create(t, "mine")

	ref := TaskRefRequest{TaskID: task.ID, UserID: "someone-else"}
	wantMsg := NotFoundMessage(task.ID, "someone-else")

	_, err := f.svc.DeleteTask(ctx, ref)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, wantMsg, err.Error())

	_, err = f.svc.RestoreTask(ctx, ref)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: task.ID, UserID: "someone-else", Task: TaskFields{Title: strPtr("x")}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_RefValidation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.DeleteTask(context.Background(), TaskRefRequest{})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t,
		[]string{domain.MsgRefUserIDRequired, domain.MsgRefTaskIDRequired},
		apperror.ToFault(err).Messages)
}

func TestService_UpdateTask(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, CreateTaskRequest{UserID: testUserID, Title: "title", Description: strPtr("desc")})
	require.NoError(t, err)

	t.Run("status only keeps text", func(t *testing.T) {
		prev, curr, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{
			TaskID: task.ID, UserID: testUserID, Status: statusPtr(domain.StatusCompleted),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, prev.Status)
		assert.Equal(t, domain.StatusCompleted, curr.Status)
		assert.Equal(t, "title", curr.Title)
		require.NotNil(t, curr.Description)
		assert.Equal(t, "desc", *curr.Description)
		assert.NotSame(t, prev.Description, curr.Description)

		require.NotEmpty(t, f.publisher.updated)
		last := f.publisher.updated[len(f.publisher.updated)-1]
		assert.Equal(t, "ACTIVE", last.PreviousStatus)
		assert.Equal(t, "COMPLETED", last.CurrentStatus)
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		_, _, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{
			TaskID: task.ID, UserID: testUserID,
			Task:   TaskFields{Title: strPtr("")},
			Status: statusPtr("DONE"),
		})
		require.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t,
			[]string{domain.MsgTitleEmpty, domain.MsgStatusInvalid},
			apperror.ToFault(err).Messages)
	})
}

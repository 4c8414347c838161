package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// MsgUserMissing is returned when a task operation names an unknown user.
const MsgUserMissing = "User Id does not exist!"

// UserLookup checks that a user id is registered.
type UserLookup interface {
	UserExists(ctx context.Context, id string) (bool, error)
}

// StatsCache stores computed stats per user.
type StatsCache interface {
	Get(ctx context.Context, userID string) (domain.Stats, bool, error)
	Set(ctx context.Context, userID string, stats domain.Stats) error
	Invalidate(ctx context.Context, userID string) error
}

// Publisher emits task lifecycle events.
type Publisher interface {
	TaskCreated(ev events.TaskCreatedEvent) error
	TaskUpdated(ev events.TaskUpdatedEvent) error
	TaskDeleted(ev events.TaskDeletedEvent) error
	TaskRestored(ev events.TaskRestoredEvent) error
}

// Option configures a Service.
type Option func(*Service)

// WithStatsCache enables cache-aside for GetStats.
func WithStatsCache(c StatsCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithPublisher sets the event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Service is the facade over the task store. It validates input through the
// lifecycle rules, scopes every operation by owner and emits events.
type Service struct {
	store     Store
	users     UserLookup
	cache     StatsCache
	publisher Publisher
	now       func() time.Time
	logger    zerolog.Logger
	sfGroup   singleflight.Group
}

// NewService creates a new Service.
func NewService(store Store, users UserLookup, opts ...Option) *Service {
	s := &Service{
		store:  store,
		users:  users,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NotFoundMessage formats the error for a missing (taskId, userId) pair.
func NotFoundMessage(taskID, userID string) string {
	return fmt.Sprintf("Task does not exists for id: %s, userId: %s", taskID, userID)
}

// CreateTask validates and persists a new task.
func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	draft, err := domain.Create(req.UserID, req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	t := draft.NewTask(uuid.New().String(), s.now().UTC())
	if err := s.store.Create(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	s.invalidate(ctx, t.UserID)

	s.publish("TaskCreated", t.ID, func(p Publisher) error {
		return p.TaskCreated(events.TaskCreatedEvent{
			TaskID:    t.ID,
			UserID:    t.UserID,
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
		})
	})
	return &t, nil
}

// ListActiveTasks returns tasks that are neither deleted nor archived.
func (s *Service) ListActiveTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.list(ctx, userID, domain.ActiveView())
}

// ListArchivedTasks returns archived tasks that are not deleted.
func (s *Service) ListArchivedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.list(ctx, userID, domain.ArchivedView())
}

// ListDeletedTasks returns soft deleted tasks.
func (s *Service) ListDeletedTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.list(ctx, userID, domain.DeletedView())
}

func (s *Service) list(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Find(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// GetStats counts the user's tasks per state.
// Concurrent misses for the same user share one store read.
func (s *Service) GetStats(ctx context.Context, userID string) (domain.Stats, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return domain.Stats{}, err
	}

	if s.cache != nil {
		stats, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("stats cache read failed")
		}
		if found {
			s.logger.Debug().Str("user_id", userID).Msg("stats cache hit")
			return stats, nil
		}
	}

	// The shared read outlives any single caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	val, err, _ := s.sfGroup.Do("stats:"+userID, func() (any, error) {
		tasks, err := s.store.Find(flightCtx, userID, domain.All())
		if err != nil {
			return nil, err
		}
		return domain.Aggregate(tasks), nil
	})
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	stats := val.(domain.Stats)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, stats); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// DeleteTask soft deletes a task.
func (s *Service) DeleteTask(ctx context.Context, ref TaskRefRequest) (*domain.Task, error) {
	if err := domain.ValidateRef(ref.UserID, ref.TaskID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	_, curr, err := s.mutate(ctx, ref.TaskID, ref.UserID, func(cur domain.Task) (domain.Task, error) {
		next := domain.SoftDelete(cur, now)
		next.UpdatedAt = now
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("TaskDeleted", curr.ID, func(p Publisher) error {
		return p.TaskDeleted(events.TaskDeletedEvent{
			TaskID:    curr.ID,
			UserID:    curr.UserID,
			DeletedAt: now,
		})
	})
	return &curr, nil
}

// RestoreTask clears the deletion mark of a task.
func (s *Service) RestoreTask(ctx context.Context, ref TaskRefRequest) (*domain.Task, error) {
	if err := domain.ValidateRef(ref.UserID, ref.TaskID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	_, curr, err := s.mutate(ctx, ref.TaskID, ref.UserID, func(cur domain.Task) (domain.Task, error) {
		next := domain.Restore(cur)
		next.UpdatedAt = now
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("TaskRestored", curr.ID, func(p Publisher) error {
		return p.TaskRestored(events.TaskRestoredEvent{
			TaskID:     curr.ID,
			UserID:     curr.UserID,
			RestoredAt: now,
		})
	})
	return &curr, nil
}

// UpdateTask applies a partial update and returns both snapshots.
func (s *Service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (prev, curr domain.Task, err error) {
	patch := req.Patch()
	verr := &apperror.ValidationError{}
	if err := domain.ValidateRef(req.UserID, req.TaskID); err != nil {
		var refErr *apperror.ValidationError
		if errors.As(err, &refErr) {
			verr.Messages = append(verr.Messages, refErr.Messages...)
		}
	}
	if err := patch.Validate(); err != nil {
		var patchErr *apperror.ValidationError
		if errors.As(err, &patchErr) {
			verr.Messages = append(verr.Messages, patchErr.Messages...)
		}
	}
	if err := verr.OrNil(); err != nil {
		return prev, curr, err
	}

	now := s.now().UTC()
	prev, curr, err = s.mutate(ctx, req.TaskID, req.UserID, func(cur domain.Task) (domain.Task, error) {
		next, err := domain.Update(cur, patch)
		if err != nil {
			return domain.Task{}, err
		}
		next.UpdatedAt = now
		return next, nil
	})
	if err != nil {
		return domain.Task{}, domain.Task{}, err
	}

	s.publish("TaskUpdated", curr.ID, func(p Publisher) error {
		return p.TaskUpdated(events.TaskUpdatedEvent{
			TaskID:         curr.ID,
			UserID:         curr.UserID,
			PreviousStatus: string(prev.Status),
			CurrentStatus:  string(curr.Status),
			UpdatedAt:      now,
		})
	})
	return prev, curr, nil
}

// mutate runs a conditional update and maps a missing pair to NotFoundError.
func (s *Service) mutate(ctx context.Context, taskID, userID string, fn MutateFunc) (prev, curr domain.Task, err error) {
	prev, curr, err = s.store.Mutate(ctx, taskID, userID, fn)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return prev, curr, apperror.NewNotFound(NotFoundMessage(taskID, userID))
		}
		if errors.Is(err, apperror.ErrValidation) {
			return prev, curr, err
		}
		return prev, curr, fmt.Errorf("failed to update task: %w", err)
	}
	s.invalidate(ctx, userID)
	return prev, curr, nil
}

func (s *Service) checkUser(ctx context.Context, userID string) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return apperror.NewNotFound(MsgUserMissing)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("stats cache invalidation failed")
	}
}

// publish emits an event. Publishing is best-effort; failures are logged.
func (s *Service) publish(event, taskID string, fn func(Publisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.logger.Warn().Err(err).Str("event", event).Str("task_id", taskID).Msg("failed to publish event")
	}
}

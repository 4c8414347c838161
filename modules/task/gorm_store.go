package task

import (
	"context"
	"errors"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/internal/database"
	"gorm.io/gorm"
)

// GormStore handles task persistence using GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new task.
func (s *GormStore) Create(ctx context.Context, t *domain.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func findOwned(db *gorm.DB, id, userID string) (*domain.Task, error) {
	var t domain.Task
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Find returns the tasks of userID matching f, oldest first.
func (s *GormStore) Find(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.DeletionStatus != nil {
		query = query.Where("deletion_status = ?", *f.DeletionStatus)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.ExcludeStatus != nil {
		query = query.Where("status <> ?", *f.ExcludeStatus)
	}

	tasks := []domain.Task{}
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Mutate applies fn to the task inside a transaction.
func (s *GormStore) Mutate(ctx context.Context, id, userID string, fn MutateFunc) (prev, curr domain.Task, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwned(tx, id, userID)
		if err != nil {
			return err
		}
		prev = current.Clone()

		next, err := fn(current.Clone())
		if err != nil {
			return err
		}

		result := tx.Model(&domain.Task{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"title":           next.Title,
				"description":     next.Description,
				"status":          next.Status,
				"deletion_status": next.DeletionStatus,
				"deleted_at":      next.DeletedAt,
				"updated_at":      next.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		next.ID, next.UserID, next.CreatedAt = prev.ID, prev.UserID, prev.CreatedAt
		curr = next
		return nil
	})
	if err != nil {
		return domain.Task{}, domain.Task{}, err
	}
	return prev, curr, nil
}

// Ping verifies the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	return database.PingSQLite(ctx, s.db)
}

package task

import (
	"fmt"
	"time"
)

// Status represents the progress state of a task.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusArchived  Status = "ARCHIVED"
)

// Valid reports whether s is one of the named statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ParseStatus normalizes a stored status value. Anything that is not
// COMPLETED or ARCHIVED is the active default.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusCompleted:
		return StatusCompleted
	case StatusArchived:
		return StatusArchived
	default:
		return StatusActive
	}
}

// Scan implements sql.Scanner. Stored values are normalized with ParseStatus.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = ParseStatus(v)
	case []byte:
		*s = ParseStatus(string(v))
	case nil:
		*s = StatusActive
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
	return nil
}

// DeletionStatus tracks soft deletion independently of Status.
type DeletionStatus string

const (
	NotDeleted  DeletionStatus = "NOT_DELETED"
	SoftDeleted DeletionStatus = "SOFT_DELETED"
)

// Task is the core domain entity representing a todo item owned by one user.
type Task struct {
	ID             string         `gorm:"primaryKey;type:text" json:"id"`
	UserID         string         `gorm:"index;not null;type:text" json:"userId"`
	Title          string         `gorm:"size:120;not null" json:"title"`
	Description    *string        `gorm:"size:500" json:"description"`
	Status         Status         `gorm:"type:text;not null;default:ACTIVE;index" json:"status"`
	DeletionStatus DeletionStatus `gorm:"type:text;not null;default:NOT_DELETED;index" json:"deletionStatus"`
	DeletedAt      *time.Time     `json:"deletedAt"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// IsDeleted reports whether the task is soft deleted.
func (t Task) IsDeleted() bool {
	return t.DeletionStatus == SoftDeleted
}

// Clone returns a deep copy so snapshots never share pointer fields.
func (t Task) Clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		c.DeletedAt = &at
	}
	return c
}

// Stats holds per-state task counts for one user.
type Stats struct {
	TotalTasks     int `json:"totalTasks"`
	ActiveTasks    int `json:"activeTasks"`
	CompletedTasks int `json:"completedTasks"`
	ArchivedTasks  int `json:"archivedTasks"`
	DeletedTasks   int `json:"deletedTasks"`
}

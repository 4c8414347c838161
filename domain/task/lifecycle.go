package task

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-tracker/domain/apperror"
)

// Field limits.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 500
)

// Validation messages returned to callers.
const (
	MsgUserIDRequired     = "User ID is required"
	MsgTitleEmpty         = "Title cannot be empty"
	MsgTitleTooLong       = "Title should be under 120 characters"
	MsgDescriptionTooLong = "Description should be under 500 characters"
	MsgStatusInvalid      = "Task Status not provided!"
	MsgRefUserIDRequired  = "User ID not provided!"
	MsgRefTaskIDRequired  = "Task ID not provided!"
)

// Draft is a validated task that has not been persisted yet.
type Draft struct {
	UserID         string
	Title          string
	Description    *string
	Status         Status
	DeletionStatus DeletionStatus
}

// Patch lists the optional fields of an update. Nil means "keep".
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Create validates the input for a new task and returns its draft.
func Create(userID, title string, description *string) (Draft, error) {
	verr := &apperror.ValidationError{}
	if strings.TrimSpace(userID) == "" {
		verr.Add(MsgUserIDRequired)
	}
	validateTitle(verr, title)
	if description != nil {
		validateDescription(verr, *description)
	}
	if err := verr.OrNil(); err != nil {
		return Draft{}, err
	}

	return Draft{
		UserID:         userID,
		Title:          title,
		Description:    description,
		Status:         StatusActive,
		DeletionStatus: NotDeleted,
	}, nil
}

// NewTask materializes a draft into a task with the given id and timestamp.
func (d Draft) NewTask(id string, now time.Time) Task {
	return Task{
		ID:             id,
		UserID:         d.UserID,
		Title:          d.Title,
		Description:    d.Description,
		Status:         d.Status,
		DeletionStatus: d.DeletionStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SoftDelete marks t deleted at now. Already deleted tasks are re-stamped.
func SoftDelete(t Task, now time.Time) Task {
	out := t.Clone()
	out.DeletionStatus = SoftDeleted
	out.DeletedAt = &now
	return out
}

// Restore clears the deletion mark. Status is left untouched.
func Restore(t Task) Task {
	out := t.Clone()
	out.DeletionStatus = NotDeleted
	out.DeletedAt = nil
	return out
}

// Update applies the provided fields of p to t. Any status may move to any
// other status.
func Update(t Task, p Patch) (Task, error) {
	if err := p.Validate(); err != nil {
		return Task{}, err
	}

	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	return out, nil
}

// Validate checks the provided fields of p.
func (p Patch) Validate() error {
	verr := &apperror.ValidationError{}
	if p.Title != nil {
		validateTitle(verr, *p.Title)
	}
	if p.Description != nil {
		validateDescription(verr, *p.Description)
	}
	if p.Status != nil && !p.Status.Valid() {
		verr.Add(MsgStatusInvalid)
	}
	return verr.OrNil()
}

// ValidateRef checks the identifiers addressing a single task.
func ValidateRef(userID, taskID string) error {
	verr := &apperror.ValidationError{}
	if strings.TrimSpace(userID) == "" {
		verr.Add(MsgRefUserIDRequired)
	}
	if strings.TrimSpace(taskID) == "" {
		verr.Add(MsgRefTaskIDRequired)
	}
	return verr.OrNil()
}

func validateTitle(verr *apperror.ValidationError, title string) {
	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		verr.Add(MsgTitleEmpty)
	case n > MaxTitleLength:
		verr.Add(MsgTitleTooLong)
	}
}

func validateDescription(verr *apperror.ValidationError, description string) {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		verr.Add(MsgDescriptionTooLong)
	}
}

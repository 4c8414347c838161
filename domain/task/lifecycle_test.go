package task

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/apperror"
)

func strPtr(s string) *string { return &s }

func statusPtr(s Status) *Status { return &s }

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v (%T), want *apperror.ValidationError", err, err)
	}
	return verr.Messages
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		title       string
		description *string
		wantErr     []string
	}{
		{name: "minimal title", userID: "u1", title: "a"},
		{name: "max title", userID: "u1", title: strings.Repeat("t", 120)},
		{name: "max title multibyte", userID: "u1", title: strings.Repeat("é", 120)},
		{name: "empty description", userID: "u1", title: "x", description: strPtr("")},
		{name: "max description", userID: "u1", title: "x", description: strPtr(strings.Repeat("d", 500))},
		{name: "empty title", userID: "u1", title: "", wantErr: []string{MsgTitleEmpty}},
		{name: "long title", userID: "u1", title: strings.Repeat("t", 121), wantErr: []string{MsgTitleTooLong}},
		{
			name:        "long description",
			userID:      "u1",
			title:       "x",
			description: strPtr(strings.Repeat("d", 501)),
			wantErr:     []string{MsgDescriptionTooLong},
		},
		{
			name:        "all invalid",
			userID:      " ",
			title:       "",
			description: strPtr(strings.Repeat("d", 501)),
			wantErr:     []string{MsgUserIDRequired, MsgTitleEmpty, MsgDescriptionTooLong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := Create(tt.userID, tt.title, tt.description)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("Create() error = nil, want validation error")
				}
				if got := validationMessages(t, err); !reflect.DeepEqual(got, tt.wantErr) {
					t.Errorf("messages = %v, want %v", got, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if draft.Status != StatusActive {
				t.Errorf("Status = %q, want %q", draft.Status, StatusActive)
			}
			if draft.DeletionStatus != NotDeleted {
				t.Errorf("DeletionStatus = %q, want %q", draft.DeletionStatus, NotDeleted)
			}

			task := draft.NewTask("id-1", time.Now())
			if task.DeletedAt != nil {
				t.Errorf("DeletedAt = %v, want nil", task.DeletedAt)
			}
			if task.UserID != tt.userID || task.Title != tt.title {
				t.Errorf("NewTask() = %+v, fields not carried over", task)
			}
		})
	}
}

func TestSoftDelete(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	for _, prior := range []DeletionStatus{NotDeleted, SoftDeleted} {
		t.Run(string(prior), func(t *testing.T) {
			in := Task{ID: "t1", Status: StatusArchived, DeletionStatus: prior}
			out := SoftDelete(in, first)
			if out.DeletionStatus != SoftDeleted {
				t.Errorf("DeletionStatus = %q, want %q", out.DeletionStatus, SoftDeleted)
			}
			if out.DeletedAt == nil || !out.DeletedAt.Equal(first) {
				t.Errorf("DeletedAt = %v, want %v", out.DeletedAt, first)
			}
			if out.Status != StatusArchived {
				t.Errorf("Status = %q, want unchanged", out.Status)
			}

			again := SoftDelete(out, second)
			if !again.DeletedAt.Equal(second) {
				t.Errorf("re-delete DeletedAt = %v, want %v", again.DeletedAt, second)
			}
			if !out.DeletedAt.Equal(first) {
				t.Error("SoftDelete() mutated its input")
			}
		})
	}
}

func TestRestoreAfterSoftDelete(t *testing.T) {
	for _, status := range []Status{StatusActive, StatusCompleted, StatusArchived} {
		t.Run(string(status), func(t *testing.T) {
			in := Task{ID: "t1", Status: status, DeletionStatus: NotDeleted}
			out := Restore(SoftDelete(in, time.Now()))
			if out.DeletionStatus != NotDeleted {
				t.Errorf("DeletionStatus = %q, want %q", out.DeletionStatus, NotDeleted)
			}
			if out.DeletedAt != nil {
				t.Errorf("DeletedAt = %v, want nil", out.DeletedAt)
			}
			if out.Status != status {
				t.Errorf("Status = %q, want %q", out.Status, status)
			}
		})
	}
}

func TestRestore_NotDeletedIsNoop(t *testing.T) {
	in := Task{ID: "t1", Title: "x", Status: StatusCompleted, DeletionStatus: NotDeleted}
	if out := Restore(in); !reflect.DeepEqual(out, in) {
		t.Errorf("Restore() = %+v, want %+v", out, in)
	}
}

func TestUpdate(t *testing.T) {
	base := Task{
		ID:             "t1",
		Title:          "before",
		Description:    strPtr("desc"),
		Status:         StatusActive,
		DeletionStatus: NotDeleted,
	}

	t.Run("status only keeps text fields", func(t *testing.T) {
		out, err := Update(base, Patch{Status: statusPtr(StatusCompleted)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if out.Status != StatusCompleted {
			t.Errorf("Status = %q, want %q", out.Status, StatusCompleted)
		}
		if out.Title != "before" || *out.Description != "desc" {
			t.Errorf("text fields changed: %+v", out)
		}
		if base.Status != StatusActive {
			t.Error("Update() mutated its input")
		}
	})

	t.Run("title and description only keep status", func(t *testing.T) {
		out, err := Update(base, Patch{Title: strPtr("after"), Description: strPtr("")})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if out.Title != "after" || *out.Description != "" || out.Status != StatusActive {
			t.Errorf("Update() = %+v", out)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		out, err := Update(base, Patch{})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !reflect.DeepEqual(out, base) {
			t.Errorf("Update() = %+v, want %+v", out, base)
		}
	})

	t.Run("any transition allowed", func(t *testing.T) {
		all := []Status{StatusActive, StatusCompleted, StatusArchived}
		for _, from := range all {
			for _, to := range all {
				in := base
				in.Status = from
				out, err := Update(in, Patch{Status: statusPtr(to)})
				if err != nil {
					t.Fatalf("Update(%s -> %s) error = %v", from, to, err)
				}
				if out.Status != to {
					t.Errorf("Update(%s -> %s) Status = %q", from, to, out.Status)
				}
			}
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := Update(base, Patch{
			Title:  strPtr(""),
			Status: statusPtr(Status("DONE")),
		})
		want := []string{MsgTitleEmpty, MsgStatusInvalid}
		if got := validationMessages(t, err); !reflect.DeepEqual(got, want) {
			t.Errorf("messages = %v, want %v", got, want)
		}
	})
}

func TestValidateRef(t *testing.T) {
	if err := ValidateRef("u1", "t1"); err != nil {
		t.Fatalf("ValidateRef() error = %v", err)
	}
	got := validationMessages(t, ValidateRef("", ""))
	want := []string{MsgRefUserIDRequired, MsgRefTaskIDRequired}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("messages = %v, want %v", got, want)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"ACTIVE":    StatusActive,
		"COMPLETED": StatusCompleted,
		"ARCHIVED":  StatusArchived,
		"":          StatusActive,
		"PENDING":   StatusActive,
	}
	for raw, want := range tests {
		if got := ParseStatus(raw); got != want {
			t.Errorf("ParseStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestStatus_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Status
	}{
		{"string", "COMPLETED", StatusCompleted},
		{"bytes", []byte("ARCHIVED"), StatusArchived},
		{"legacy value", "NOT_STARTED", StatusActive},
		{"null", nil, StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			if err := s.Scan(tt.src); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if s != tt.want {
				t.Errorf("Scan(%v) = %q, want %q", tt.src, s, tt.want)
			}
		})
	}

	var s Status
	if err := s.Scan(42); err == nil {
		t.Error("Scan(42) error = nil, want error")
	}
}

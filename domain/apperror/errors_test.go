package apperror

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"validation", NewValidation("Title cannot be empty"), ErrValidation},
		{"not found", NewNotFound("User Id does not exist!"), ErrNotFound},
		{"conflict", NewConflict("User Already Exists! Try different email!"), ErrConflict},
		{"wrapped", fmt.Errorf("create task: %w", NewNotFound("x")), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.target)
			}
		})
	}

	if errors.Is(NewNotFound("x"), ErrValidation) {
		t.Error("NotFoundError should not match ErrValidation")
	}
}

func TestValidationError_OrNil(t *testing.T) {
	var empty ValidationError
	if err := empty.OrNil(); err != nil {
		t.Errorf("OrNil() on empty = %v, want nil", err)
	}

	v := &ValidationError{}
	v.Add("a")
	v.Add("b")
	if err := v.OrNil(); err == nil {
		t.Fatal("OrNil() = nil, want error")
	}
	if v.Error() != "a; b" {
		t.Errorf("Error() = %q, want %q", v.Error(), "a; b")
	}
}

func TestFaultRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"validation", NewValidation("one", "two"), KindValidation},
		{"not found", NewNotFound("missing"), KindNotFound},
		{"conflict", NewConflict("dup"), KindConflict},
		{"internal", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ToFault(tt.err)
			if f.Kind != tt.kind {
				t.Fatalf("Kind = %q, want %q", f.Kind, tt.kind)
			}
			back := f.Err()
			if back.Error() != tt.err.Error() {
				t.Errorf("Err().Error() = %q, want %q", back.Error(), tt.err.Error())
			}
			if reflect.TypeOf(back) != reflect.TypeOf(tt.err) && tt.kind != KindInternal {
				t.Errorf("Err() type = %T, want %T", back, tt.err)
			}
		})
	}

	if ToFault(nil) != nil {
		t.Error("ToFault(nil) should be nil")
	}
	var nilFault *Fault
	if nilFault.Err() != nil {
		t.Error("nil Fault.Err() should be nil")
	}
}

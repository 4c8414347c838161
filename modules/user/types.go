package user

import (
	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName,omitempty"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries a session token for register and login.
type AuthResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.SafeUser `json:"user,omitempty"`
	Fault *apperror.Fault  `json:"fault,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UserExistsRequest asks whether a user id is registered.
type UserExistsRequest struct {
	UserID string `json:"user_id"`
}

// UserExistsResponse answers UserExistsRequest.
type UserExistsResponse struct {
	Exists bool            `json:"exists"`
	Fault  *apperror.Fault `json:"fault,omitempty"`
}

// ListUsersRequest is the empty request of the list-users service.
type ListUsersRequest struct{}

// ListUsersResponse holds every registered user.
type ListUsersResponse struct {
	Users []domain.SafeUser `json:"users"`
	Fault *apperror.Fault   `json:"fault,omitempty"`
}

// GetUserByUsernameRequest looks a user up by username.
type GetUserByUsernameRequest struct {
	Username string `json:"username"`
}

// GetUserByUsernameResponse holds the user found by username.
type GetUserByUsernameResponse struct {
	User  *domain.SafeUser `json:"user,omitempty"`
	Fault *apperror.Fault  `json:"fault,omitempty"`
}

// UpdateUserRequest changes the profile fields of a user.
type UpdateUserRequest struct {
	ID   string         `json:"id"`
	User domain.Profile `json:"user"`
}

// UpdateUserResponse holds the user before and after an update.
type UpdateUserResponse struct {
	PreviousUser *domain.SafeUser `json:"previousUser,omitempty"`
	CurrentUser  *domain.SafeUser `json:"currentUser,omitempty"`
	Fault        *apperror.Fault  `json:"fault,omitempty"`
}

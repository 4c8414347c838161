package user

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Service names registered by the user module.
const (
	ServiceRegister          = "register"
	ServiceLogin             = "login"
	ServiceValidateToken     = "validate-token"
	ServiceUserExists        = "user-exists"
	ServiceListUsers         = "list-users"
	ServiceGetUserByUsername = "get-user-by-username"
	ServiceUpdateUser        = "update-user"
)

// UserPort is the port other modules use to reach accounts.
type UserPort interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	UserExists(ctx context.Context, id string) (bool, error)
	ListUsers(ctx context.Context) ([]domain.SafeUser, error)
	GetByUsername(ctx context.Context, username string) (*domain.SafeUser, error)
	UpdateProfile(ctx context.Context, id string, p domain.Profile) (previous, current domain.SafeUser, err error)
}

var (
	_ UserPort = (*Service)(nil)
	_ UserPort = (*UserAdapter)(nil)
)

// UserAdapter implements UserPort over the service container.
type UserAdapter struct {
	container mono.ServiceContainer
}

// NewUserAdapter creates a new UserAdapter.
func NewUserAdapter(container mono.ServiceContainer) *UserAdapter {
	if container == nil {
		panic("user adapter requires non-nil ServiceContainer")
	}
	return &UserAdapter{container: container}
}

// callService invokes a request-reply service and decodes the reply into resp.
func callService[Resp any](ctx context.Context, container mono.ServiceContainer, service string, req any, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Register creates an account and returns its session token.
func (a *UserAdapter) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	req := RegisterRequest{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	}
	var resp AuthResponse
	if err := callService(ctx, a.container, ServiceRegister, &req, &resp); err != nil {
		return nil, err
	}
	return authResult(resp)
}

// Login authenticates a user and returns a session token.
func (a *UserAdapter) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp AuthResponse
	if err := callService(ctx, a.container, ServiceLogin, &req, &resp); err != nil {
		return nil, err
	}
	return authResult(resp)
}

func authResult(resp AuthResponse) (*AuthResult, error) {
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("auth reply missing user")
	}
	return &AuthResult{Token: resp.Token, User: *resp.User}, nil
}

// ValidateToken validates a session token and returns its claims.
func (a *UserAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := callService(ctx, a.container, ServiceValidateToken, &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return &domain.Claims{UserID: resp.UserID}, nil
}

// UserExists reports whether id is a registered user.
func (a *UserAdapter) UserExists(ctx context.Context, id string) (bool, error) {
	req := UserExistsRequest{UserID: id}
	var resp UserExistsResponse
	if err := callService(ctx, a.container, ServiceUserExists, &req, &resp); err != nil {
		return false, err
	}
	if err := resp.Fault.Err(); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// ListUsers returns every registered user.
func (a *UserAdapter) ListUsers(ctx context.Context) ([]domain.SafeUser, error) {
	var resp ListUsersResponse
	if err := callService(ctx, a.container, ServiceListUsers, &ListUsersRequest{}, &resp); err != nil {
		return nil, err
	}
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// GetByUsername returns the user registered under username.
func (a *UserAdapter) GetByUsername(ctx context.Context, username string) (*domain.SafeUser, error) {
	req := GetUserByUsernameRequest{Username: username}
	var resp GetUserByUsernameResponse
	if err := callService(ctx, a.container, ServiceGetUserByUsername, &req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// UpdateProfile changes the profile of the user with id.
func (a *UserAdapter) UpdateProfile(ctx context.Context, id string, p domain.Profile) (previous, current domain.SafeUser, err error) {
	req := UpdateUserRequest{ID: id, User: p}
	var resp UpdateUserResponse
	if err := callService(ctx, a.container, ServiceUpdateUser, &req, &resp); err != nil {
		return previous, current, err
	}
	if err := resp.Fault.Err(); err != nil {
		return previous, current, err
	}
	if resp.PreviousUser != nil {
		previous = *resp.PreviousUser
	}
	if resp.CurrentUser != nil {
		current = *resp.CurrentUser
	}
	return previous, current, nil
}

package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/task-tracker/domain/apperror"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/rs/zerolog"
)

// Module provides account and session services.
type Module struct {
	repo    Repository
	service *Service
	logger  zerolog.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new user Module over an opened repository.
func NewModule(repo Repository, hasher PasswordHasher, tokens *TokenManager, logger zerolog.Logger) *Module {
	return &Module{
		repo:    repo,
		service: NewService(repo, hasher, tokens),
		logger:  logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "user"
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info().Msg("module started")
	return nil
}

// Stop stops the module. The repository is owned by the caller.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info().Msg("module stopped")
	return nil
}

// Health pings the backing store.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.repo.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRegister, json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRegister, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceLogin, json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceLogin, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceValidateToken, json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceValidateToken, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUserExists, json.Unmarshal, json.Marshal, m.handleUserExists,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUserExists, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListUsers, json.Unmarshal, json.Marshal, m.handleListUsers,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListUsers, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetUserByUsername, json.Unmarshal, json.Marshal, m.handleGetUserByUsername,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetUserByUsername, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateUser, json.Unmarshal, json.Marshal, m.handleUpdateUser,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateUser, err)
	}

	m.logger.Info().
		Strs("services", []string{
			ServiceRegister, ServiceLogin, ServiceValidateToken, ServiceUserExists,
			ServiceListUsers, ServiceGetUserByUsername, ServiceUpdateUser,
		}).
		Msg("registered services")
	return nil
}

// fault converts err for a reply, logging anything that is not a caller error.
func (m *Module) fault(service string, err error) *apperror.Fault {
	f := apperror.ToFault(err)
	if f != nil && f.Kind == apperror.KindInternal {
		m.logger.Error().Err(err).Str("service", service).Msg("service failed")
	}
	return f
}

func (m *Module) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (AuthResponse, error) {
	res, err := m.service.Register(ctx, RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return AuthResponse{Fault: m.fault(ServiceRegister, err)}, nil
	}
	m.logger.Info().Str("user_id", res.User.ID).Msg("user registered")
	return AuthResponse{Token: res.Token, User: &res.User}, nil
}

func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (AuthResponse, error) {
	res, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return AuthResponse{Fault: m.fault(ServiceLogin, err)}, nil
	}
	return AuthResponse{Token: res.Token, User: &res.User}, nil
}

func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateTokenResponse{Valid: false, Error: errMsg}, nil
	}
	return ValidateTokenResponse{Valid: true, UserID: claims.UserID}, nil
}

func (m *Module) handleUserExists(ctx context.Context, req UserExistsRequest, _ *mono.Msg) (UserExistsResponse, error) {
	exists, err := m.service.UserExists(ctx, req.UserID)
	if err != nil {
		return UserExistsResponse{Fault: m.fault(ServiceUserExists, err)}, nil
	}
	return UserExistsResponse{Exists: exists}, nil
}

func (m *Module) handleListUsers(ctx context.Context, _ ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	users, err := m.service.ListUsers(ctx)
	if err != nil {
		return ListUsersResponse{Fault: m.fault(ServiceListUsers, err)}, nil
	}
	return ListUsersResponse{Users: users}, nil
}

func (m *Module) handleGetUserByUsername(ctx context.Context, req GetUserByUsernameRequest, _ *mono.Msg) (GetUserByUsernameResponse, error) {
	user, err := m.service.GetByUsername(ctx, req.Username)
	if err != nil {
		return GetUserByUsernameResponse{Fault: m.fault(ServiceGetUserByUsername, err)}, nil
	}
	return GetUserByUsernameResponse{User: user}, nil
}

func (m *Module) handleUpdateUser(ctx context.Context, req UpdateUserRequest, _ *mono.Msg) (UpdateUserResponse, error) {
	previous, current, err := m.service.UpdateProfile(ctx, req.ID, req.User)
	if err != nil {
		return UpdateUserResponse{Fault: m.fault(ServiceUpdateUser, err)}, nil
	}
	return UpdateUserResponse{PreviousUser: &previous, CurrentUser: &current}, nil
}

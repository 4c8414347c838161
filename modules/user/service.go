package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/user"
	"github.com/google/uuid"
)

// Messages returned to API callers.
const (
	MsgUsernameMissing  = "Username not provided!"
	MsgUsernameShort    = "Username should be atleast 8 characters long."
	MsgFirstNameShort   = "First Name should be atleast 1 character long."
	MsgEmailInvalid     = "Email not provided!"
	MsgPasswordMissing  = "Password not provided!"
	MsgPasswordShort    = "Password should be atleast 8 characters!"
	MsgPasswordTooLong  = "Password should be at most 72 characters!"
	MsgEmailTaken       = "User Already Exists! Try different email!"
	MsgUsernameTaken    = "Username already taken!"
	MsgUserMissing      = "User does not exist!"
	MsgWrongPassword    = "Wrong Password!"
	MsgUserNotFound     = "User not found!"
	MsgUsernameNotFound = "Username not found!"
	MsgNothingToUpdate  = "Cannot update if the username is the same!"
)

const (
	minUsernameLength = 8
	minPasswordLength = 8
	maxPasswordLength = 72
)

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  *string
	Email     string
	Password  string
}

// AuthResult is a signed session token and the authenticated user.
type AuthResult struct {
	Token string
	User  domain.SafeUser
}

// Service handles account business logic.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens *TokenManager
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(repo Repository, hasher PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates a new account and signs a session token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	verr := &apperror.ValidationError{}
	validateUsername(verr, in.Username)
	if utf8.RuneCountInString(in.FirstName) < 1 {
		verr.Add(MsgFirstNameShort)
	}
	validateEmail(verr, in.Email)
	validatePassword(verr, in.Password)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict(MsgEmailTaken)
	}
	exists, err = s.repo.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict(MsgUsernameTaken)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:        uuid.New().String(),
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, apperror.NewConflict(MsgEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// Login authenticates username and password and signs a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	verr := &apperror.ValidationError{}
	validateUsername(verr, username)
	validatePassword(verr, password)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewNotFound(MsgUserMissing)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, apperror.NewValidation(MsgWrongPassword)
	}
	return s.issue(user)
}

// ValidateToken verifies a session token and returns its claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return &domain.Claims{UserID: userID}, nil
}

// UserExists reports whether id references a registered user.
func (s *Service) UserExists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	_, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	return true, nil
}

// ListUsers returns every user without password hashes.
func (s *Service) ListUsers(ctx context.Context) ([]domain.SafeUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]domain.SafeUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Safe())
	}
	return out, nil
}

// GetByUsername returns the user registered under username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.SafeUser, error) {
	verr := &apperror.ValidationError{}
	validateUsername(verr, username)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewNotFound(MsgUsernameNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	safe := user.Safe()
	return &safe, nil
}

// UpdateProfile applies the provided fields of p to the user with id and
// returns the user before and after the change.
func (s *Service) UpdateProfile(ctx context.Context, id string, p domain.Profile) (previous, current domain.SafeUser, err error) {
	verr := &apperror.ValidationError{}
	if p.Username != nil {
		validateUsername(verr, *p.Username)
	}
	if p.FirstName != nil && utf8.RuneCountInString(*p.FirstName) < 1 {
		verr.Add(MsgFirstNameShort)
	}
	if p.Email != nil {
		validateEmail(verr, *p.Email)
	}
	if err := verr.OrNil(); err != nil {
		return previous, current, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return previous, current, apperror.NewNotFound(MsgUserNotFound)
		}
		return previous, current, fmt.Errorf("failed to find user: %w", err)
	}
	previous = user.Safe()

	if !profileChanges(user, p) {
		return domain.SafeUser{}, current, apperror.NewValidation(MsgNothingToUpdate)
	}

	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		last := *p.LastName
		user.LastName = &last
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			return domain.SafeUser{}, current, apperror.NewConflict(MsgEmailTaken)
		case errors.Is(err, ErrUserNotFound):
			return domain.SafeUser{}, current, apperror.NewNotFound(MsgUserNotFound)
		}
		return domain.SafeUser{}, current, fmt.Errorf("failed to update user: %w", err)
	}
	return previous, user.Safe(), nil
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Safe()}, nil
}

// profileChanges reports whether any provided field differs from u.
func profileChanges(u *domain.User, p domain.Profile) bool {
	if p.Username != nil && *p.Username != u.Username {
		return true
	}
	if p.FirstName != nil && *p.FirstName != u.FirstName {
		return true
	}
	if p.LastName != nil && (u.LastName == nil || *p.LastName != *u.LastName) {
		return true
	}
	if p.Email != nil && *p.Email != u.Email {
		return true
	}
	return false
}

func validateUsername(verr *apperror.ValidationError, username string) {
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		verr.Add(MsgUsernameMissing)
	case n < minUsernameLength:
		verr.Add(MsgUsernameShort)
	}
}

func validateEmail(verr *apperror.ValidationError, email string) {
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add(MsgEmailInvalid)
	}
}

func validatePassword(verr *apperror.ValidationError, password string) {
	switch n := len(password); {
	case n == 0:
		verr.Add(MsgPasswordMissing)
	case utf8.RuneCountInString(password) < minPasswordLength:
		verr.Add(MsgPasswordShort)
	case n > maxPasswordLength:
		verr.Add(MsgPasswordTooLong)
	}
}

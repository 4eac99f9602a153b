// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer mints bearer tokens. Implemented by [sec.TokenService].
type TokenIssuer interface {
	Issue(userID string, role sec.Role) (string, error)
}

// invalidCredentials is shared by every login failure so callers cannot
// distinguish an unknown email from a wrong password.
const invalidCredentials = "Invalid email or password"

// Service implements user authentication use cases.
type Service struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register hashes the password and persists a new account with role "user".

The uniqueness pre-checks give friendly messages; the unique indexes on the
account table remain the authority under concurrent registrations.

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
	}

	if err := service.users.Create(ctx, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

/*
Login validates credentials and issues a bearer token. It never mutates the store.

Returns:
  - *LoginResult: User and token
  - error: Unauthenticated, ServerMisconfiguration or internal failures
*/
func (service *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := service.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthenticated(invalidCredentials)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthenticated(invalidCredentials)
	}

	token, err := service.tokens.Issue(user.ID, user.Role)
	if err != nil {
		if errors.Is(err, sec.ErrSigningSecretMissing) {
			return nil, apperr.ServerMisconfiguration(err)
		}
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_logged_in", slog.String("user_id", user.ID))
	return &LoginResult{User: user, Token: token}, nil
}

// Me returns the current account of the authenticated caller.
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

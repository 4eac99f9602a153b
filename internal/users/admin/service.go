// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/users/auth"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

// Service implements admin use cases.
type Service struct {
	users     UserRepository
	publisher events.Publisher
}

// NewService constructs a new admin [Service].
func NewService(users UserRepository, publisher events.Publisher) *Service {
	return &Service{users: users, publisher: publisher}
}

// ListUsers returns one page of all accounts.
func (service *Service) ListUsers(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.users.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("admin_service_list_failed: %w", err)
	}
	return users, total, nil
}

// SearchByEmail returns accounts whose email contains fragment.
func (service *Service) SearchByEmail(ctx context.Context, fragment string, params pagination.Params) ([]*auth.User, int, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, 0, apperr.ValidationError("Email query is required",
			apperr.FieldError{Field: auth.FieldEmail, Message: "This field is required"})
	}

	users, total, err := service.users.SearchByEmail(ctx, fragment, params)
	if err != nil {
		return nil, 0, fmt.Errorf("admin_service_search_failed: %w", err)
	}
	return users, total, nil
}

/*
UpdateRole assigns newRole to userID.

An admin cannot demote their own account, so the last admin can never lock
everyone out of role management.

Returns:
  - *auth.User: The updated account
  - error: Validation, NotFound or storage failures
*/
func (service *Service) UpdateRole(ctx context.Context, actor *sec.Identity, userID string, newRole sec.Role) (*auth.User, error) {
	if actor.UserID == userID && newRole != sec.RoleAdmin {
		return nil, apperr.ValidationError("You cannot remove your own admin role")
	}

	user, err := service.users.UpdateRole(ctx, userID, newRole)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("admin_service_update_role_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "role_updated",
		slog.String("target_user_id", userID),
		slog.String("new_role", newRole.String()),
	)

	events.Emit(ctx, service.publisher, events.TypeUserRoleChanged, RoleChange{
		UserID:    userID,
		NewRole:   newRole,
		ChangedBy: actor.UserID,
	})

	return user, nil
}

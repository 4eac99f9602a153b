// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements the admin-only user directory and role management.

Every route sits behind the gate plus the admin-only predicate, which is
evaluated against the role stored at request time.
*/
package admin

import (
	"context"

	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/users/auth"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

// UserRepository defines the persistence contract for the admin directory.
type UserRepository interface {
	// List returns one page of accounts, newest first, plus the total count.
	List(ctx context.Context, params pagination.Params) ([]*auth.User, int, error)

	// SearchByEmail returns accounts whose email contains fragment, case-insensitively.
	SearchByEmail(ctx context.Context, fragment string, params pagination.Params) ([]*auth.User, int, error)

	// UpdateRole sets the role of userID and returns the updated account.
	// Returns apperr.NotFound when the account does not exist.
	UpdateRole(ctx context.Context, userID string, role sec.Role) (*auth.User, error)
}

// RoleChange is the payload of the user.role_changed event.
type RoleChange struct {
	UserID    string   `json:"userId"`
	NewRole   sec.Role `json:"newRole"`
	ChangedBy string   `json:"changedBy"`
}

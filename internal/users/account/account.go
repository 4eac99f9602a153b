// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles self-service profile management.

Every route is guarded by the self-or-admin predicate: a user may read and
edit only their own account, while admins may act on any account.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Storage: Avatars are written to object storage; only the URL is persisted.
*/
package account

import (
	"context"

	"github.com/taibuivan/tahmin/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for profile management.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	/*
		UpdateProfile persists username and bio.

		Returns:
		  - error: apperr.Conflict on a duplicate username, or storage failures
	*/
	UpdateProfile(ctx context.Context, user *auth.User) error

	/*
		UpdateAvatar persists only the avatar URL.
	*/
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
}

// # Input Types

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Username *string
	Bio      *string
}

// AvatarUpload is a validated image ready to be stored.
type AvatarUpload struct {
	Data        []byte
	ContentType string
	Extension   string
}

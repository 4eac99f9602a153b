// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for the auth flows.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive),
		including its password hash.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username (case-insensitive).

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.Conflict on a unique violation, or persistence failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		FindRoleByID returns only the stored role string of an account.
		Called by the authorization gate on every protected request.

		Returns:
		  - string: Raw role column value
		  - error: apperr.NotFound or database failures
	*/
	FindRoleByID(ctx context.Context, id string) (string, error)
}

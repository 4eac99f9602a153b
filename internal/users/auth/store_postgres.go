// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/database/schema"
	"github.com/taibuivan/tahmin/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var accountSelect = fmt.Sprintf(`SELECT %s, %s FROM %s`,
	strings.Join(schema.UserAccount.Columns(), ", "),
	schema.UserAccount.Password,
	schema.UserAccount.Table,
)

// ScanUser hydrates a User from a row produced by the account column list
// followed by the password hash.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var bio, avatarURL *string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&bio,
		&avatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	if bio != nil {
		user.Bio = *bio
	}
	if avatarURL != nil {
		user.AvatarURL = *avatarURL
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Returns:
  - error: apperr.Conflict naming the duplicated field, or database errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return ClassifyAccountError(err)
	}

	return nil
}

// ClassifyAccountError turns unique violations on the account table into
// field-specific conflicts.
func ClassifyAccountError(err error) error {
	switch {
	case dberr.IsUniqueViolation(err, ConstraintEmail):
		return apperr.Conflict("Email is already registered")
	case dberr.IsUniqueViolation(err, ConstraintUsername):
		return apperr.Conflict("Username is already taken")
	default:
		return dberr.Wrap(err, "User")
	}
}

/*
FindByEmail retrieves a user record by email, case-insensitively.
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := accountSelect + fmt.Sprintf(` WHERE LOWER(%s) = LOWER($1)`, schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
FindByUsername retrieves a user record by username, case-insensitively.
*/
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := accountSelect + fmt.Sprintf(` WHERE LOWER(%s) = LOWER($1)`, schema.UserAccount.Username)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
FindByID retrieves a user record by primary key.
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := accountSelect + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
FindRoleByID reads only the role column.
*/
func (repository *PostgresUserRepository) FindRoleByID(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.Role, schema.UserAccount.Table, schema.UserAccount.ID)

	var role string
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&role); err != nil {
		return "", dberr.Wrap(err, "User")
	}
	return role, nil
}

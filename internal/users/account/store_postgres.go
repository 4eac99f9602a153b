// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/database/schema"
	"github.com/taibuivan/tahmin/internal/platform/dberr"
	"github.com/taibuivan/tahmin/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository].
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByID retrieves a user by primary key.
*/
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Password,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
UpdateProfile persists username and bio.
*/
func (repository *PostgresAccountRepository) UpdateProfile(ctx context.Context, user *auth.User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NULLIF($3, ''), %s = $4 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Bio, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	user.UpdatedAt = time.Now().UTC()
	tag, err := repository.pool.Exec(ctx, query, user.ID, user.Username, user.Bio, user.UpdatedAt)
	if err != nil {
		return auth.ClassifyAccountError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
UpdateAvatar persists the avatar URL.
*/
func (repository *PostgresAccountRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.AvatarURL, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, userID, avatarURL)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

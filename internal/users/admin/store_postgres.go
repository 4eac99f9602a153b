// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tahmin/internal/platform/database/schema"
	"github.com/taibuivan/tahmin/internal/platform/dberr"
	"github.com/taibuivan/tahmin/internal/platform/postgres"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/users/auth"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

// PostgresUserRepository implements [UserRepository].
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL admin repository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// selectPage runs a filtered, paginated account listing using COUNT(*) OVER().
func (repository *PostgresUserRepository) selectPage(ctx context.Context, where string, args []any, params pagination.Params) ([]*auth.User, int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s, %s, COUNT(*) OVER() FROM %s`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Password,
		schema.UserAccount.Table,
	)
	if where != "" {
		sb.WriteString(" WHERE " + where)
	}
	fmt.Fprintf(&sb, ` ORDER BY %s DESC LIMIT $%d OFFSET $%d`,
		schema.UserAccount.CreatedAt, len(args)+1, len(args)+2)

	args = append(args, params.Limit, params.Offset())
	rows, err := repository.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	var users []*auth.User
	total := 0
	for rows.Next() {
		user := &auth.User{}
		var bio, avatarURL *string
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.Role, &bio, &avatarURL,
			&user.CreatedAt, &user.UpdatedAt, &user.PasswordHash, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "User")
		}
		if bio != nil {
			user.Bio = *bio
		}
		if avatarURL != nil {
			user.AvatarURL = *avatarURL
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)
	if where != "" {
		countQuery += " WHERE " + where
	}
	total, err = postgres.PageTotal(ctx, repository.pool, total, len(users), params.Offset(), countQuery, args[:len(args)-2]...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	return users, total, nil
}

// List implements [UserRepository].
func (repository *PostgresUserRepository) List(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	return repository.selectPage(ctx, "", nil, params)
}

// SearchByEmail implements [UserRepository].
func (repository *PostgresUserRepository) SearchByEmail(ctx context.Context, fragment string, params pagination.Params) ([]*auth.User, int, error) {
	where := fmt.Sprintf(`%s ILIKE '%%' || $1 || '%%'`, schema.UserAccount.Email)
	return repository.selectPage(ctx, where, []any{escapeLike(fragment)}, params)
}

// UpdateRole implements [UserRepository].
func (repository *PostgresUserRepository) UpdateRole(ctx context.Context, userID string, role sec.Role) (*auth.User, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Role, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Password,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, userID, string(role)))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

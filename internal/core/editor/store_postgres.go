// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/database/schema"
	"github.com/taibuivan/tahmin/internal/platform/dberr"
	"github.com/taibuivan/tahmin/internal/platform/postgres"
	"github.com/taibuivan/tahmin/internal/platform/sec"
)

const resourceName = "Editor"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed editor store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Directory Queries

// directoryQuery selects editors with aggregated stats. join and where are
// spliced in verbatim and may reference u (account) and p (prediction).
func directoryQuery(join, where, tail string) string {
	u, p, f := schema.UserAccount, schema.CorePrediction, schema.UserFollow
	return fmt.Sprintf(`
		SELECT
			u.%s, u.%s, u.%s, u.%s, u.%s,
			(SELECT COUNT(*) FROM %s f WHERE f.%s = u.%s) AS followers,
			COUNT(p.%s) AS predictions,
			COUNT(p.%s) FILTER (WHERE p.%s = 'WON') AS won,
			COUNT(p.%s) FILTER (WHERE p.%s = 'LOST') AS lost,
			COUNT(*) OVER() AS total
		FROM %s u
		%s
		LEFT JOIN %s p ON p.%s = u.%s
		WHERE u.%s = '%s' %s
		GROUP BY u.%s
		%s`,
		u.ID, u.Username, u.Bio, u.AvatarURL, u.CreatedAt,
		f.Table, f.FollowingID, u.ID,
		p.ID,
		p.ID, p.Status,
		p.ID, p.Status,
		u.Table,
		join,
		p.Table, p.AuthorID, u.ID,
		u.Role, sec.RoleEditor, where,
		u.ID,
		tail,
	)
}

func scanEditor(row pgx.Row, total *int) (*Editor, error) {
	editor := &Editor{}
	var bio, avatarURL *string
	err := row.Scan(
		&editor.ID, &editor.Username, &bio, &avatarURL, &editor.CreatedAt,
		&editor.Stats.Followers, &editor.Stats.Predictions, &editor.Stats.Won, &editor.Stats.Lost,
		total,
	)
	if err != nil {
		return nil, err
	}
	if bio != nil {
		editor.Bio = *bio
	}
	if avatarURL != nil {
		editor.AvatarURL = *avatarURL
	}
	return editor, nil
}

// queryEditors reads one directory page. countQuery takes filterArgs and
// backs the total when the page is past the end.
func (repository *PostgresRepository) queryEditors(ctx context.Context, query, countQuery string, filterArgs []any, limit, offset int) ([]*Editor, int, error) {
	args := append(append([]any{}, filterArgs...), limit, offset)
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	editors := []*Editor{}
	var total int
	for rows.Next() {
		editor, err := scanEditor(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		editors = append(editors, editor)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	total, err = postgres.PageTotal(ctx, repository.db, total, len(editors), offset, countQuery, filterArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	return editors, total, nil
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Editor, int, error) {
	u := schema.UserAccount
	query := directoryQuery("", "", fmt.Sprintf(
		"ORDER BY followers DESC, u.%s DESC LIMIT $1 OFFSET $2", u.CreatedAt))
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = '%s'`, u.Table, u.Role, sec.RoleEditor)

	return repository.queryEditors(ctx, query, countQuery, nil, limit, offset)
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Editor, error) {
	query := directoryQuery("", fmt.Sprintf("AND u.%s = $1", schema.UserAccount.ID), "")

	var total int
	editor, err := scanEditor(repository.db.QueryRow(ctx, query, id), &total)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return editor, nil
}

// ListFollowing implements [Repository].
func (repository *PostgresRepository) ListFollowing(ctx context.Context, followerID string, limit, offset int) ([]*Editor, int, error) {
	f := schema.UserFollow
	join := fmt.Sprintf("JOIN %s fl ON fl.%s = u.%s AND fl.%s = $1",
		f.Table, f.FollowingID, schema.UserAccount.ID, f.FollowerID)
	tail := fmt.Sprintf("ORDER BY MAX(fl.%s) DESC LIMIT $2 OFFSET $3", f.CreatedAt)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s fl JOIN %s u ON u.%s = fl.%s WHERE fl.%s = $1 AND u.%s = '%s'`,
		f.Table, schema.UserAccount.Table, schema.UserAccount.ID, f.FollowingID, f.FollowerID,
		schema.UserAccount.Role, sec.RoleEditor)

	return repository.queryEditors(ctx, directoryQuery(join, "", tail), countQuery, []any{followerID}, limit, offset)
}

// FindRole implements [Repository].
func (repository *PostgresRepository) FindRole(ctx context.Context, id string) (sec.Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.Role, schema.UserAccount.Table, schema.UserAccount.ID)

	var raw string
	if err := repository.db.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		return "", dberr.Wrap(err, "User")
	}

	role, err := sec.ParseRole(raw)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return role, nil
}

// # Follow Graph

// Follow implements [Repository].
func (repository *PostgresRepository) Follow(ctx context.Context, followerID, editorID string) (bool, error) {
	f := schema.UserFollow
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW()) ON CONFLICT DO NOTHING`,
		f.Table, f.FollowerID, f.FollowingID, f.CreatedAt)

	tag, err := repository.db.Exec(ctx, query, followerID, editorID)
	if err != nil {
		return false, dberr.Wrap(err, "Follow")
	}
	return tag.RowsAffected() == 1, nil
}

// Unfollow implements [Repository].
func (repository *PostgresRepository) Unfollow(ctx context.Context, followerID, editorID string) (bool, error) {
	f := schema.UserFollow
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, f.Table, f.FollowerID, f.FollowingID)

	tag, err := repository.db.Exec(ctx, query, followerID, editorID)
	if err != nil {
		return false, dberr.Wrap(err, "Follow")
	}
	return tag.RowsAffected() == 1, nil
}

// IsFollowing implements [Repository].
func (repository *PostgresRepository) IsFollowing(ctx context.Context, followerID, editorID string) (bool, error) {
	f := schema.UserFollow
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		f.Table, f.FollowerID, f.FollowingID)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, followerID, editorID).Scan(&exists); err != nil {
		// A malformed id cannot be followed.
		if apperr.IsNotFound(dberr.Wrap(err, "Follow")) {
			return false, nil
		}
		return false, dberr.Wrap(err, "Follow")
	}
	return exists, nil
}

// CountFollowers implements [Repository].
func (repository *PostgresRepository) CountFollowers(ctx context.Context, editorID string) (int, error) {
	f := schema.UserFollow
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, f.Table, f.FollowingID)

	var count int
	if err := repository.db.QueryRow(ctx, query, editorID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Follow")
	}
	return count, nil
}

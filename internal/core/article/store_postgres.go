// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/database/schema"
	"github.com/taibuivan/tahmin/internal/platform/dberr"
	"github.com/taibuivan/tahmin/internal/platform/postgres"
)

const resourceName = "Article"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed article store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns lists article columns followed by the author summary.
func selectColumns() string {
	a, u := schema.CoreArticle, schema.UserAccount
	return fmt.Sprintf(`a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, u.%s, u.%s`,
		a.ID, a.AuthorID, a.Title, a.Slug, a.Content, a.ImageURL, a.CreatedAt, a.UpdatedAt,
		u.Username, u.AvatarURL,
	)
}

func fromClause() string {
	return fmt.Sprintf(`%s a JOIN %s u ON u.%s = a.%s`,
		schema.CoreArticle.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreArticle.AuthorID)
}

// scanArticle reads a row produced by selectColumns, plus any trailing destinations.
func scanArticle(row pgx.Row, extra ...any) (*Article, error) {
	article := &Article{}
	var imageURL, avatarURL *string
	author := &Author{}

	dest := []any{
		&article.ID, &article.AuthorID, &article.Title, &article.Slug, &article.Content, &imageURL,
		&article.CreatedAt, &article.UpdatedAt, &author.Username, &avatarURL,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if imageURL != nil {
		article.ImageURL = *imageURL
	}
	if avatarURL != nil {
		author.AvatarURL = *avatarURL
	}
	author.ID = article.AuthorID
	article.Author = author
	return article, nil
}

// # Article Retrieval

/*
List returns a filtered and paginated list of articles.

Description: Uses COUNT(*) OVER() for total metadata.

Returns:
  - []*Article: Slice of matching articles
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	var where strings.Builder
	args := []any{}

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		fmt.Fprintf(&where, " AND a.%s = $%d", schema.CoreArticle.AuthorID, len(args))
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s WHERE TRUE%s ORDER BY a.%s DESC LIMIT $%d OFFSET $%d`,
		selectColumns(), fromClause(), where.String(), schema.CoreArticle.CreatedAt, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	articles := []*Article{}
	var total int
	for rows.Next() {
		article, err := scanArticle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE TRUE%s`, fromClause(), where.String())
	total, err = postgres.PageTotal(ctx, repository.db, total, len(articles), offset, countQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return articles, total, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE a.%s = $1`, selectColumns(), fromClause(), schema.CoreArticle.ID)

	article, err := scanArticle(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return article, nil
}

// # Article Mutation

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, article *Article) error {
	a := schema.CoreArticle
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), NOW())
		RETURNING %s, %s`,
		a.Table, a.ID, a.AuthorID, a.Title, a.Slug, a.Content, a.ImageURL, a.CreatedAt, a.UpdatedAt,
		a.CreatedAt, a.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		article.ID, article.AuthorID, article.Title, article.Slug, article.Content, article.ImageURL,
	).Scan(&article.CreatedAt, &article.UpdatedAt)

	return dberr.Wrap(err, resourceName)
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, article *Article) error {
	a := schema.CoreArticle
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NULLIF($4, ''), %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		a.Table, a.Title, a.Content, a.ImageURL, a.UpdatedAt,
		a.ID,
		a.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		article.ID, article.Title, article.Content, article.ImageURL,
	).Scan(&article.UpdatedAt)

	return dberr.Wrap(err, resourceName)
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreArticle.Table, schema.CoreArticle.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceName)
	}
	return nil
}

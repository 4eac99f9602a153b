// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prediction

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
	"github.com/taibuivan/tahmin/pkg/uuid"
)

const (
	resourcePrediction = "Prediction"
	resourceMatch      = "Match"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed prediction store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Column Lists

func prefixed(alias string, columns []string) string {
	out := make([]string, len(columns))
	for i, column := range columns {
		out[i] = alias + "." + column
	}
	return strings.Join(out, ", ")
}

func matchColumns(alias string) string {
	return prefixed(alias, schema.CoreMatch.Columns())
}

func predictionColumns() string {
	p := schema.CorePrediction
	return fmt.Sprintf(`p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s::float8, p.%s, p.%s, p.%s, p.%s`,
		p.ID, p.AuthorID, p.MatchID, p.Title, p.Content, p.Pick, p.Odds, p.Confidence, p.Status, p.CreatedAt, p.UpdatedAt)
}

func selectColumns() string {
	return fmt.Sprintf(`%s, %s, u.%s, u.%s`,
		predictionColumns(), matchColumns("m"), schema.UserAccount.Username, schema.UserAccount.AvatarURL)
}

func fromClause() string {
	return fmt.Sprintf(`%s p JOIN %s m ON m.%s = p.%s JOIN %s u ON u.%s = p.%s`,
		schema.CorePrediction.Table,
		schema.CoreMatch.Table, schema.CoreMatch.ID, schema.CorePrediction.MatchID,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CorePrediction.AuthorID,
	)
}

// # Scanning

func matchDest(match *Match) []any {
	return []any{
		&match.ID, &match.ExternalID, &match.HomeTeam, &match.AwayTeam, &match.League, &match.KickoffAt,
		&match.HomeScore, &match.AwayScore, &match.Status, &match.CreatedAt, &match.UpdatedAt,
	}
}

func scanPrediction(row pgx.Row, extra ...any) (*Prediction, error) {
	prediction := &Prediction{Match: &Match{}, Author: &Author{}}
	var avatarURL *string

	dest := []any{
		&prediction.ID, &prediction.AuthorID, &prediction.MatchID, &prediction.Title, &prediction.Content,
		&prediction.Pick, &prediction.Odds, &prediction.Confidence, &prediction.Status,
		&prediction.CreatedAt, &prediction.UpdatedAt,
	}
	dest = append(dest, matchDest(prediction.Match)...)
	dest = append(dest, &prediction.Author.Username, &avatarURL)

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	prediction.Author.ID = prediction.AuthorID
	if avatarURL != nil {
		prediction.Author.AvatarURL = *avatarURL
	}
	return prediction, nil
}

// # Prediction Retrieval

/*
List returns a filtered and paginated list of predictions.

Description: Uses COUNT(*) OVER() for total metadata, with a plain count for pages past the end.

Returns:
  - []*Prediction: Slice of matching predictions
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Prediction, int, error) {
	var where strings.Builder
	args := []any{}

	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		fmt.Fprintf(&where, " AND p.%s = $%d", schema.CorePrediction.AuthorID, len(args))
	}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&where, " AND p.%s = $%d", schema.CorePrediction.Status, len(args))
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s WHERE TRUE%s ORDER BY p.%s DESC LIMIT $%d OFFSET $%d`,
		selectColumns(), fromClause(), where.String(), schema.CorePrediction.CreatedAt, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourcePrediction)
	}
	defer rows.Close()

	predictions := []*Prediction{}
	var total int
	for rows.Next() {
		prediction, err := scanPrediction(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourcePrediction)
		}
		predictions = append(predictions, prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourcePrediction)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE TRUE%s`, fromClause(), where.String())
	total, err = postgres.PageTotal(ctx, repository.db, total, len(predictions), offset, countQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourcePrediction)
	}

	return predictions, total, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE p.%s = $1`, selectColumns(), fromClause(), schema.CorePrediction.ID)

	prediction, err := scanPrediction(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourcePrediction)
	}
	return prediction, nil
}

// FindMatchByID implements [Repository].
func (repository *PostgresRepository) FindMatchByID(ctx context.Context, id string) (*Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = $1`, matchColumns("m"), schema.CoreMatch.Table, schema.CoreMatch.ID)

	match := &Match{}
	if err := repository.db.QueryRow(ctx, query, id).Scan(matchDest(match)...); err != nil {
		return nil, dberr.Wrap(err, resourceMatch)
	}
	return match, nil
}

// # Prediction Mutation

/*
Create inserts a prediction, upserting its inline match first when given.

Description: Both writes share one transaction so a failed prediction insert
never leaves an orphaned match behind.
*/
func (repository *PostgresRepository) Create(ctx context.Context, prediction *Prediction, match *Match) error {
	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		if match != nil {
			if err := upsertMatch(ctx, tx, match); err != nil {
				return err
			}
			prediction.MatchID = match.ID
		}

		p := schema.CorePrediction
		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING %s, %s`,
			p.Table, p.ID, p.AuthorID, p.MatchID, p.Title, p.Content, p.Pick, p.Odds, p.Confidence, p.Status, p.CreatedAt, p.UpdatedAt,
			p.CreatedAt, p.UpdatedAt,
		)

		err := tx.QueryRow(ctx, query,
			prediction.ID, prediction.AuthorID, prediction.MatchID, prediction.Title, prediction.Content,
			prediction.Pick, prediction.Odds, prediction.Confidence, string(prediction.Status),
		).Scan(&prediction.CreatedAt, &prediction.UpdatedAt)
		return insertError(err)
	})
}

// insertError classifies a prediction insert failure. The only client-supplied
// uuid is matchId, so a dangling or malformed value means the match is unknown.
func insertError(err error) error {
	if err == nil {
		return nil
	}
	if dberr.IsForeignKeyViolation(err) || dberr.IsInvalidText(err) {
		return apperr.NotFound(resourceMatch).WithCause(err)
	}
	return dberr.Wrap(err, resourcePrediction)
}

// upsertMatch inserts match, or adopts the stored row when ExternalID is
// already known. Other predictions reference that row, so its fields are
// never overwritten here; match is refreshed from what is stored.
func upsertMatch(ctx context.Context, tx pgx.Tx, match *Match) error {
	m := schema.CoreMatch
	if match.ID == "" {
		match.ID = uuid.New()
	}

	// The no-op update makes RETURNING yield the conflicting row.
	query := fmt.Sprintf(`
		INSERT INTO %s AS existing (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET %s = existing.%s
		RETURNING %s`,
		m.Table, m.ID, m.ExternalID, m.HomeTeam, m.AwayTeam, m.League, m.KickoffAt, m.HomeScore, m.AwayScore, m.Status, m.CreatedAt, m.UpdatedAt,
		m.ExternalID, m.ExternalID, m.ExternalID,
		matchColumns("existing"),
	)

	err := tx.QueryRow(ctx, query,
		match.ID, match.ExternalID, match.HomeTeam, match.AwayTeam, match.League, match.KickoffAt,
		match.HomeScore, match.AwayScore, string(match.Status),
	).Scan(matchDest(match)...)

	return dberr.Wrap(err, resourceMatch)
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, prediction *Prediction) error {
	p := schema.CorePrediction
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		p.Table, p.Title, p.Content, p.Pick, p.Odds, p.Confidence, p.UpdatedAt,
		p.ID,
		p.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		prediction.ID, prediction.Title, prediction.Content, prediction.Pick, prediction.Odds, prediction.Confidence,
	).Scan(&prediction.UpdatedAt)

	return dberr.Wrap(err, resourcePrediction)
}

// UpdateStatus implements [Repository].
func (repository *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	p := schema.CorePrediction
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`, p.Table, p.Status, p.UpdatedAt, p.ID)

	tag, err := repository.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return dberr.Wrap(err, resourcePrediction)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourcePrediction)
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CorePrediction.Table, schema.CorePrediction.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, resourcePrediction)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourcePrediction)
	}
	return nil
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RowQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

/*
PageTotal resolves the total for a page read with COUNT(*) OVER().

The window total only exists on returned rows. A page past the end yields no
rows, so countQuery (same filters, no LIMIT/OFFSET) is run instead.

Parameters:
  - windowTotal: Total scanned from the page rows (0 when none)
  - rows: Number of rows the page returned
  - offset: Offset the page was read with
*/
func PageTotal(ctx context.Context, db RowQuerier, windowTotal, rows, offset int, countQuery string, args ...any) (int, error) {
	if rows > 0 || offset == 0 {
		return windowTotal, nil
	}

	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

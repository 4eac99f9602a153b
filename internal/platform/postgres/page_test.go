// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countRow struct {
	total int
	err   error
}

func (r countRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.total
	return nil
}

// countingQuerier answers every QueryRow with a fixed count.
type countingQuerier struct {
	row   countRow
	calls int
	sql   string
	args  []any
}

func (q *countingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	q.sql = sql
	q.args = args
	return q.row
}

/*
TestPageTotal verifies the window total is trusted whenever the page has rows.
*/
func TestPageTotal(t *testing.T) {
	tests := []struct {
		name        string
		windowTotal int
		rows        int
		offset      int
		want        int
		wantCount   bool
	}{
		{name: "page with rows", windowTotal: 25, rows: 10, offset: 10, want: 25},
		{name: "empty first page", windowTotal: 0, rows: 0, offset: 0, want: 0},
		{name: "past the last page", windowTotal: 0, rows: 0, offset: 30, want: 25, wantCount: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &countingQuerier{row: countRow{total: 25}}

			got, err := PageTotal(context.Background(), db, tt.windowTotal, tt.rows, tt.offset,
				"SELECT COUNT(*) FROM core.article a WHERE TRUE AND a.authorid = $1", "e1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, db.calls == 1)
			if tt.wantCount {
				assert.Equal(t, []any{"e1"}, db.args)
			}
		})
	}
}

/*
TestPageTotal_CountError verifies a failing count query is reported.
*/
func TestPageTotal_CountError(t *testing.T) {
	db := &countingQuerier{row: countRow{err: errors.New("connection reset")}}

	_, err := PageTotal(context.Background(), db, 0, 0, 40, "SELECT COUNT(*) FROM users.account")
	assert.Error(t, err)
}

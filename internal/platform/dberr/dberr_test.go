// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "account_email_key"}

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique", unique, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: "23503"}, apperr.CodeValidation},
		{"malformed_uuid", &pgconn.PgError{Code: "22P02"}, apperr.CodeNotFound},
		{"value_too_long", &pgconn.PgError{Code: "22001"}, apperr.CodeValidation},
		{"other", errors.New("boom"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.IsCode(dberr.Wrap(tt.err, "User"), tt.code))
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "User"))
	assert.True(t, dberr.IsUniqueViolation(unique, "account_email_key"))
	assert.False(t, dberr.IsUniqueViolation(unique, "account_username_key"))
	assert.True(t, dberr.IsForeignKeyViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, dberr.IsForeignKeyViolation(unique))
	assert.True(t, dberr.IsInvalidText(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22P02"})))
	assert.False(t, dberr.IsInvalidText(unique))
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db:5432/tahmin", "pgx5://u:p@db:5432/tahmin"},
		{"postgresql://u:p@db/tahmin?sslmode=disable", "pgx5://u:p@db/tahmin?sslmode=disable"},
		{"pgx5://u:p@db/tahmin", "pgx5://u:p@db/tahmin"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
	}
}

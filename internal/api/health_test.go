// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ok := func(context.Context) error { return nil }

	t.Run("Liveness", func(t *testing.T) {
		liveness, _ := NewHealthHandlers(HealthDependencies{}, logger)
		rec := httptest.NewRecorder()
		liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Ready without optional cache", func(t *testing.T) {
		_, readiness := NewHealthHandlers(HealthDependencies{CheckDatabase: ok}, logger)
		rec := httptest.NewRecorder()
		readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status string        `json:"status"`
			Checks []checkResult `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body.Status)
		assert.Len(t, body.Checks, 1)
	})

	t.Run("Degraded", func(t *testing.T) {
		_, readiness := NewHealthHandlers(HealthDependencies{
			CheckDatabase: ok,
			CheckCache:    func(context.Context) error { return errors.New("redis: ping failed") },
		}, logger)
		rec := httptest.NewRecorder()
		readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"degraded"`)
	})
}

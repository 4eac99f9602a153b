// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package football

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/pkg/pointer"
)

const liveBody = `{
	"get": "fixtures",
	"errors": [],
	"results": 1,
	"response": [{
		"fixture": {"id": 1035000, "date": "2026-04-10T18:00:00+00:00", "status": {"short": "2H", "elapsed": 67}},
		"league": {"id": 203, "name": "Süper Lig", "country": "Turkey"},
		"teams": {"home": {"name": "Galatasaray"}, "away": {"name": "Fenerbahçe"}},
		"goals": {"home": 2, "away": 1}
	}]
}`

const standingsBody = `{
	"errors": {},
	"response": [{
		"league": {"id": 203, "season": 2025, "standings": [[
			{"rank": 1, "points": 70, "form": "WWDWW", "team": {"name": "Galatasaray"},
			 "all": {"played": 30, "win": 22, "draw": 4, "lose": 4, "goals": {"for": 68, "against": 25}}},
			{"rank": 2, "points": 66, "form": "WLWWD", "team": {"name": "Fenerbahçe"},
			 "all": {"played": 30, "win": 20, "draw": 6, "lose": 4, "goals": {"for": 61, "against": 28}}}
		]]}
	}]
}`

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient_LiveScores(t *testing.T) {
	server := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("live"))
		assert.Equal(t, "key-123", r.Header.Get(HeaderAPIKey))
		_, _ = w.Write([]byte(liveBody))
	})

	fixtures, err := NewClient(server.URL, "key-123", time.Second).LiveScores(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 1)

	assert.Equal(t, Fixture{
		ID:        1035000,
		League:    "Süper Lig",
		Country:   "Turkey",
		HomeTeam:  "Galatasaray",
		AwayTeam:  "Fenerbahçe",
		Score:     Score{Home: pointer.To(2), Away: pointer.To(1)},
		Status:    "2H",
		Elapsed:   pointer.To(67),
		KickoffAt: time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC),
	}, fixtures[0])
}

func TestClient_Standings(t *testing.T) {
	server := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings", r.URL.Path)
		assert.Equal(t, "203", r.URL.Query().Get("league"))
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		_, _ = w.Write([]byte(standingsBody))
	})

	rows, err := NewClient(server.URL, "key", time.Second).Standings(context.Background(), 203, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, StandingRow{
		Rank: 1, Team: "Galatasaray", Played: 30, Won: 22, Drawn: 4, Lost: 4,
		GoalsFor: 68, GoalsAgainst: 25, Points: 70, Form: "WWDWW",
	}, rows[0])
}

func TestClient_Fixtures(t *testing.T) {
	server := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-04-10", r.URL.Query().Get("date"))
		assert.Empty(t, r.URL.Query().Get("league"))
		_, _ = w.Write([]byte(`{"errors": [], "response": []}`))
	})

	fixtures, err := NewClient(server.URL, "key", time.Second).Fixtures(context.Background(), "2026-04-10", 0)
	require.NoError(t, err)
	assert.Empty(t, fixtures)
}

func TestClient_Failures(t *testing.T) {
	t.Run("Missing key", func(t *testing.T) {
		_, err := NewClient("http://unused", "", time.Second).LiveScores(context.Background())
		assert.True(t, apperr.IsCode(err, apperr.CodeServerMisconfiguration))
	})

	t.Run("Non-2xx status", func(t *testing.T) {
		server := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := NewClient(server.URL, "key", time.Second).LiveScores(context.Background())
		assert.True(t, apperr.IsCode(err, apperr.CodeUpstreamFailure))
	})

	t.Run("Provider errors payload", func(t *testing.T) {
		server := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"errors": {"token": "Error/Missing application key."}, "response": []}`))
		})
		_, err := NewClient(server.URL, "key", time.Second).LiveScores(context.Background())
		assert.True(t, apperr.IsCode(err, apperr.CodeUpstreamFailure))
	})

	t.Run("Malformed body", func(t *testing.T) {
		server := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})
		_, err := NewClient(server.URL, "key", time.Second).LiveScores(context.Background())
		assert.True(t, apperr.IsCode(err, apperr.CodeUpstreamFailure))
	})

	t.Run("Timeout", func(t *testing.T) {
		server := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(liveBody))
		})
		_, err := NewClient(server.URL, "key", 20*time.Millisecond).LiveScores(context.Background())
		assert.True(t, apperr.IsCode(err, apperr.CodeUpstreamFailure))
	})
}

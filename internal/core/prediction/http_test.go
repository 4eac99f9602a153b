// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/pkg/pagination"
	"github.com/taibuivan/tahmin/pkg/uuid"
)

type memoryPredictions struct {
	mu          sync.Mutex
	roles       map[string]sec.Role
	matches     map[string]*Match
	predictions map[string]*Prediction
	writes      int
}

func (m *memoryPredictions) FindRoleByID(_ context.Context, id string) (string, error) {
	role, ok := m.roles[id]
	if !ok {
		return "", apperr.NotFound("User")
	}
	return string(role), nil
}

func (m *memoryPredictions) hydrate(p *Prediction) *Prediction {
	clone := *p
	match := *m.matches[p.MatchID]
	clone.Match = &match
	clone.Author = &Author{ID: p.AuthorID, Username: p.AuthorID}
	return &clone
}

func (m *memoryPredictions) List(_ context.Context, filter Filter, limit, offset int) ([]*Prediction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*Prediction
	for _, p := range m.predictions {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		all = append(all, m.hydrate(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := min(offset, len(all))
	end := min(start+limit, len(all))
	return all[start:end], len(all), nil
}

func (m *memoryPredictions) FindByID(_ context.Context, id string) (*Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.predictions[id]
	if !ok {
		return nil, apperr.NotFound(resourcePrediction)
	}
	return m.hydrate(p), nil
}

func (m *memoryPredictions) Create(_ context.Context, p *Prediction, match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match != nil {
		adopted := false
		for _, existing := range m.matches {
			if match.ExternalID != nil && existing.ExternalID != nil && *existing.ExternalID == *match.ExternalID {
				*match = *existing
				adopted = true
			}
		}
		if !adopted {
			if match.ID == "" {
				match.ID = uuid.New()
			}
			clone := *match
			m.matches[match.ID] = &clone
		}
		p.MatchID = match.ID
	}
	if _, ok := m.matches[p.MatchID]; !ok {
		return apperr.NotFound(resourceMatch)
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	m.predictions[p.ID] = &clone
	m.writes++
	return nil
}

func (m *memoryPredictions) Update(_ context.Context, p *Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *p
	clone.Match, clone.Author = nil, nil
	m.predictions[p.ID] = &clone
	m.writes++
	return nil
}

func (m *memoryPredictions) UpdateStatus(_ context.Context, id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.predictions[id]
	if !ok {
		return apperr.NotFound(resourcePrediction)
	}
	p.Status = status
	m.writes++
	return nil
}

func (m *memoryPredictions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.predictions, id)
	m.writes++
	return nil
}

func (m *memoryPredictions) FindMatchByID(_ context.Context, id string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[id]
	if !ok {
		return nil, apperr.NotFound(resourceMatch)
	}
	clone := *match
	return &clone, nil
}

func (m *memoryPredictions) get(id string) *Prediction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.predictions[id]
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.types = append(p.types, event.Type)
	return nil
}

type fixture struct {
	router    http.Handler
	matches   http.Handler
	tokens    *sec.TokenService
	store     *memoryPredictions
	publisher *recordingPublisher
}

func newFixture() *fixture {
	base := time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC)
	externalID := "fx-1001"
	store := &memoryPredictions{
		roles: map[string]sec.Role{
			"u1": sec.RoleUser,
			"e1": sec.RoleEditor,
			"e2": sec.RoleEditor,
			"a1": sec.RoleAdmin,
		},
		matches: map[string]*Match{
			"m1": {ID: "m1", ExternalID: &externalID, HomeTeam: "Galatasaray", AwayTeam: "Fenerbahçe", League: "Süper Lig", KickoffAt: base, Status: MatchScheduled},
		},
		predictions: map[string]*Prediction{
			"p1": {ID: "p1", AuthorID: "e1", MatchID: "m1", Title: "Derbi", Content: "...", Pick: "KG Var", Odds: 1.85, Confidence: 7, Status: StatusPending, CreatedAt: base.Add(-2 * time.Hour)},
			"p2": {ID: "p2", AuthorID: "e2", MatchID: "m1", Title: "Alt", Content: "...", Pick: "2.5 Alt", Odds: 2.10, Confidence: 5, Status: StatusWon, CreatedAt: base.Add(-time.Hour)},
		},
	}
	tokens := sec.NewTokenService("secret", "tahmin.app", time.Hour)
	gate := middleware.NewGate(tokens, store)
	publisher := &recordingPublisher{}
	handler := NewHandler(NewService(store, publisher), gate.Authenticate)
	return &fixture{
		router:    handler.Routes(),
		matches:   handler.MatchRoutes(),
		tokens:    tokens,
		store:     store,
		publisher: publisher,
	}
}

func (f *fixture) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := f.tokens.Issue(userID, sec.RoleUser)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"won", "Won", " WON "} {
		status, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, StatusWon, status)
	}

	_, err := ParseStatus("void")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPrediction_List(t *testing.T) {
	f := newFixture()

	t.Run("Status filter is case-insensitive", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/?status=won", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body pagination.Page[Prediction]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "p2", body.Items[0].ID)
		assert.Equal(t, "Galatasaray", body.Items[0].Match.HomeTeam)
	})

	t.Run("Author filter", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/?authorId=e1", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body pagination.Page[Prediction]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "p1", body.Items[0].ID)
	})

	t.Run("Unknown status filter", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/?status=void", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPrediction_Create(t *testing.T) {
	t.Run("Against existing match", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/", `{"matchId":"m1","title":"Ev sahibi","content":"Form iyi","pick":"MS 1","odds":2.05,"confidence":6}`, "e1")
		require.Equal(t, http.StatusCreated, rec.Code)

		var created Prediction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, StatusPending, created.Status)
		assert.Equal(t, "m1", created.MatchID)
		assert.Equal(t, []string{events.TypePredictionPublished}, f.publisher.types)
	})

	t.Run("Inline match upserted by external id", func(t *testing.T) {
		f := newFixture()

		body := `{"match":{"externalId":"fx-1001","homeTeam":"Galatasaray","awayTeam":"Fenerbahçe","kickoffAt":"2026-04-10T18:00:00Z"},
			"title":"Derbi 2","content":"...","pick":"KG Var","odds":1.9,"confidence":8}`
		rec := f.do(t, http.MethodPost, "/", body, "e2")
		require.Equal(t, http.StatusCreated, rec.Code)

		var created Prediction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "m1", created.MatchID)
		assert.Len(t, f.store.matches, 1)
	})

	t.Run("Shared external id keeps the stored match", func(t *testing.T) {
		f := newFixture()

		body := `{"match":{"externalId":"fx-1001","homeTeam":"Başka","awayTeam":"Takım","league":"Amatör",
			"kickoffAt":"2027-01-01T00:00:00Z","homeScore":9,"awayScore":0,"status":"FINISHED"},
			"title":"Derbi 3","content":"...","pick":"MS 2","odds":4.5,"confidence":3}`
		rec := f.do(t, http.MethodPost, "/", body, "e2")
		require.Equal(t, http.StatusCreated, rec.Code)

		var created Prediction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "m1", created.MatchID)

		stored := f.store.matches["m1"]
		assert.Equal(t, "Galatasaray", stored.HomeTeam)
		assert.Equal(t, "Süper Lig", stored.League)
		assert.Equal(t, MatchScheduled, stored.Status)
		assert.Nil(t, stored.HomeScore)
		assert.Equal(t, "Galatasaray", f.store.hydrate(f.store.get("p1")).Match.HomeTeam)
	})

	t.Run("Overlong inline match fields rejected", func(t *testing.T) {
		f := newFixture()

		body := `{"match":{"externalId":"` + strings.Repeat("x", MaxExternalIDLength+1) + `","homeTeam":"A","awayTeam":"B",
			"league":"` + strings.Repeat("L", MaxLeagueLength+1) + `","kickoffAt":"2026-04-12T16:00:00Z"},
			"title":"t","content":"c","pick":"p","odds":1.5,"confidence":5}`
		rec := f.do(t, http.MethodPost, "/", body, "e1")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), FieldLeague)
		assert.Contains(t, rec.Body.String(), FieldExternalID)
		assert.Zero(t, f.store.writes)
		assert.Len(t, f.store.matches, 1)
	})

	t.Run("Inline match without external id creates a match", func(t *testing.T) {
		f := newFixture()

		body := `{"match":{"homeTeam":"Trabzonspor","awayTeam":"Beşiktaş","league":"Süper Lig","kickoffAt":"2026-04-12T16:00:00Z"},
			"title":"Karadeniz","content":"...","pick":"MS X","odds":3.2,"confidence":4}`
		rec := f.do(t, http.MethodPost, "/", body, "e1")
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, f.store.matches, 2)
	})

	t.Run("Both matchId and match rejected", func(t *testing.T) {
		f := newFixture()

		body := `{"matchId":"m1","match":{"homeTeam":"A","awayTeam":"B","kickoffAt":"2026-04-12T16:00:00Z"},
			"title":"t","content":"c","pick":"p","odds":1.5,"confidence":5}`
		rec := f.do(t, http.MethodPost, "/", body, "e1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, f.store.writes)
	})

	t.Run("Out of range values rejected", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/", `{"matchId":"m1","title":"t","content":"c","pick":"p","odds":0.5,"confidence":11}`, "e1")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), FieldOdds)
		assert.Contains(t, rec.Body.String(), FieldConfidence)
	})

	t.Run("Unknown match", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/", `{"matchId":"nope","title":"t","content":"c","pick":"p","odds":1.5,"confidence":5}`, "e1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Plain user forbidden", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/", `{"matchId":"m1","title":"t","content":"c","pick":"p","odds":1.5,"confidence":5}`, "u1")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, f.store.writes)
	})
}

func TestPrediction_OwnerOrAdmin(t *testing.T) {
	t.Run("Non-owner cannot update", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPut, "/p1", `{"pick":"MS 2"}`, "e2")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "KG Var", f.store.get("p1").Pick)
		assert.Zero(t, f.store.writes)
	})

	t.Run("Owner updates partially", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPut, "/p1", `{"odds":1.95}`, "e1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 1.95, f.store.get("p1").Odds, 0.0001)
		assert.Equal(t, "KG Var", f.store.get("p1").Pick)
	})

	t.Run("Owner settles with lowercase status", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPatch, "/p1/status", `{"status":"lost"}`, "e1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, StatusLost, f.store.get("p1").Status)
		assert.Equal(t, []string{events.TypePredictionSettled}, f.publisher.types)
	})

	t.Run("Invalid status", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPatch, "/p1/status", `{"status":"void"}`, "e1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, StatusPending, f.store.get("p1").Status)
	})

	t.Run("Non-owner cannot settle", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPatch, "/p1/status", `{"status":"WON"}`, "u1")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, StatusPending, f.store.get("p1").Status)
	})

	t.Run("Admin deletes", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodDelete, "/p2", "", "a1")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Nil(t, f.store.get("p2"))
	})
}

func TestMatch_Get(t *testing.T) {
	f := newFixture()

	rec := httptest.NewRecorder()
	f.matches.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/m1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var match Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &match))
	assert.Equal(t, "Fenerbahçe", match.AwayTeam)

	rec = httptest.NewRecorder()
	f.matches.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

/*
TestInsertError verifies unknown or malformed match ids read as a missing match.
*/
func TestInsertError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"dangling match id", &pgconn.PgError{Code: "23503"}, apperr.CodeNotFound, "Match not found"},
		{"malformed match id", &pgconn.PgError{Code: "22P02"}, apperr.CodeNotFound, "Match not found"},
		{"title too long", &pgconn.PgError{Code: "22001"}, apperr.CodeValidation, ""},
		{"unexpected", errors.New("connection reset"), apperr.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := insertError(tt.err)
			require.True(t, apperr.IsCode(err, tt.code), err)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}

	assert.NoError(t, insertError(nil))
}

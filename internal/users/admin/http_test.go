// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/users/auth"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func (m *memoryUsers) FindRoleByID(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return "", apperr.NotFound("User")
	}
	return string(user.Role), nil
}

func (m *memoryUsers) page(match func(*auth.User) bool, params pagination.Params) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*auth.User
	for _, user := range m.users {
		if match(user) {
			clone := *user
			all = append(all, &clone)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	start := min(params.Offset(), total)
	end := min(start+params.Limit, total)
	return all[start:end], total, nil
}

func (m *memoryUsers) List(_ context.Context, params pagination.Params) ([]*auth.User, int, error) {
	return m.page(func(*auth.User) bool { return true }, params)
}

func (m *memoryUsers) SearchByEmail(_ context.Context, fragment string, params pagination.Params) ([]*auth.User, int, error) {
	fragment = strings.ToLower(fragment)
	return m.page(func(u *auth.User) bool { return strings.Contains(strings.ToLower(u.Email), fragment) }, params)
}

func (m *memoryUsers) UpdateRole(_ context.Context, userID string, role sec.Role) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Role = role
	clone := *user
	return &clone, nil
}

func (m *memoryUsers) role(id string) sec.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Role
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	router    http.Handler
	tokens    *sec.TokenService
	store     *memoryUsers
	publisher *recordingPublisher
}

func newFixture() *fixture {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryUsers{users: map[string]*auth.User{
		"u1": {ID: "u1", Username: "ayse", Email: "ayse@tahmin.app", Role: sec.RoleUser, CreatedAt: base},
		"u2": {ID: "u2", Username: "burak", Email: "burak@example.com", Role: sec.RoleUser, CreatedAt: base.Add(time.Hour)},
		"e1": {ID: "e1", Username: "editor", Email: "editor@tahmin.app", Role: sec.RoleEditor, CreatedAt: base.Add(2 * time.Hour)},
		"a1": {ID: "a1", Username: "admin", Email: "admin@tahmin.app", Role: sec.RoleAdmin, CreatedAt: base.Add(3 * time.Hour)},
	}}
	tokens := sec.NewTokenService("secret", "tahmin.app", time.Hour)
	gate := middleware.NewGate(tokens, store)
	publisher := &recordingPublisher{}
	return &fixture{
		router:    NewHandler(NewService(store, publisher), gate.Authenticate).Routes(),
		tokens:    tokens,
		store:     store,
		publisher: publisher,
	}
}

func (f *fixture) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	// The token role is irrelevant: the gate reads the stored role.
	token, err := f.tokens.Issue(userID, sec.RoleUser)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type pageBody struct {
	Items      []auth.User     `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

func TestAdmin_ListUsers(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/users?page=1&limit=2", "", "a1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body pageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "a1", body.Items[0].ID)
	assert.Equal(t, "e1", body.Items[1].ID)
	assert.Equal(t, 4, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestAdmin_NonAdminForbidden(t *testing.T) {
	f := newFixture()

	for _, caller := range []string{"u1", "e1"} {
		rec := f.do(t, http.MethodGet, "/users", "", caller)
		assert.Equal(t, http.StatusForbidden, rec.Code, caller)
	}
}

func TestAdmin_SearchByEmail(t *testing.T) {
	f := newFixture()

	t.Run("Matches fragment case-insensitively", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/users/search?email=EXAMPLE", "", "a1")
		require.Equal(t, http.StatusOK, rec.Code)

		var body pageBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, "u2", body.Items[0].ID)
	})

	t.Run("Empty query rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/users/search?email=%20", "", "a1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdmin_UpdateRole(t *testing.T) {
	t.Run("Promotes user and emits event", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"userId":"u1","newRole":"EDITOR"}`, "a1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, sec.RoleEditor, f.store.role("u1"))

		var body struct {
			User auth.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, sec.RoleEditor, body.User.Role)

		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.TypeUserRoleChanged, f.publisher.events[0].Type)
	})

	t.Run("Promoted user gains access immediately", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"userId":"u1","newRole":"admin"}`, "a1")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodGet, "/users", "", "u1")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Editor cannot change roles", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"userId":"u1","newRole":"admin"}`, "e1")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, sec.RoleUser, f.store.role("u1"))
		assert.Empty(t, f.publisher.events)
	})

	t.Run("Invalid role rejected", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"userId":"u1","newRole":"superuser"}`, "a1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, sec.RoleUser, f.store.role("u1"))
	})

	t.Run("Missing fields rejected", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"newRole":"editor"}`, "a1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown user", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"userId":"ghost","newRole":"editor"}`, "a1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Admin cannot demote self", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodPost, "/users/update-role", `{"userId":"a1","newRole":"user"}`, "a1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, sec.RoleAdmin, f.store.role("a1"))
	})
}

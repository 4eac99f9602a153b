// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	"github.com/taibuivan/tahmin/internal/platform/sec"
)

// fakeAccounts is an in-memory AccountLookup.
type fakeAccounts struct {
	mu    sync.Mutex
	roles map[string]string
}

func (f *fakeAccounts) FindRoleByID(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.roles[userID]
	if !ok {
		return "", apperr.NotFound("User")
	}
	return role, nil
}

func (f *fakeAccounts) set(userID, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = role
}

// spy records whether the protected handler ran and with which identity.
type spy struct {
	calls    int
	identity *sec.Identity
}

func (s *spy) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.calls++
	s.identity = ctxutil.GetIdentity(request.Context())
	writer.WriteHeader(http.StatusOK)
}

type harness struct {
	tokens   *sec.TokenService
	accounts *fakeAccounts
	spy      *spy
	router   chi.Router
}

func newHarness(secret string) *harness {
	h := &harness{
		tokens:   sec.NewTokenService(secret, "tahmin.app", time.Hour),
		accounts: &fakeAccounts{roles: map[string]string{}},
		spy:      &spy{},
	}
	gate := middleware.NewGate(h.tokens, h.accounts)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(gate.Authenticate)
		r.Get("/me", h.spy.ServeHTTP)
		r.With(middleware.EditorOrAdmin).Post("/articles", h.spy.ServeHTTP)
		r.With(middleware.AdminOnly).Get("/admin/users", h.spy.ServeHTTP)
		r.With(middleware.RequireSelfOrAdmin("id")).Put("/users/{id}", h.spy.ServeHTTP)
		r.Options("/admin/users", h.spy.ServeHTTP)
	})
	h.router = r
	return h
}

func (h *harness) token(t *testing.T, userID string, role sec.Role) string {
	t.Helper()
	token, err := h.tokens.Issue(userID, role)
	require.NoError(t, err)
	return token
}

func (h *harness) do(method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"])
	code, _ := body["code"].(string)
	return code
}

/*
TestGate_MissingOrMalformedHeader verifies that the handler never runs without a
well-formed bearer credential.
*/
func TestGate_MissingOrMalformedHeader(t *testing.T) {
	h := newHarness("secret")

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer   ", "abc"} {
		rec := h.do(http.MethodGet, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, apperr.CodeUnauthenticated, errorCode(t, rec), header)
	}
	assert.Zero(t, h.spy.calls)
}

/*
TestGate_InvalidToken verifies bad tokens are distinct from missing ones.
*/
func TestGate_InvalidToken(t *testing.T) {
	h := newHarness("secret")
	foreign := sec.NewTokenService("other", "tahmin.app", time.Hour)
	token, err := foreign.Issue("u1", sec.RoleAdmin)
	require.NoError(t, err)
	h.accounts.set("u1", "admin")

	rec := h.do(http.MethodGet, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperr.CodeInvalidToken, errorCode(t, rec))
	assert.Zero(t, h.spy.calls)
}

/*
TestGate_MissingSecret verifies an unset secret is a server misconfiguration.
*/
func TestGate_MissingSecret(t *testing.T) {
	h := newHarness("")

	rec := h.do(http.MethodGet, "/me", "Bearer whatever")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperr.CodeServerMisconfiguration, errorCode(t, rec))
	assert.Zero(t, h.spy.calls)
}

/*
TestGate_UnknownUser verifies a valid token for a deleted account is rejected.
*/
func TestGate_UnknownUser(t *testing.T) {
	h := newHarness("secret")

	rec := h.do(http.MethodGet, "/me", "Bearer "+h.token(t, "ghost", sec.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperr.CodeUnknownUser, errorCode(t, rec))
	assert.Zero(t, h.spy.calls)
}

/*
TestGate_UserRoleForbidden verifies stored role "user" cannot reach editor or admin routes.
*/
func TestGate_UserRoleForbidden(t *testing.T) {
	h := newHarness("secret")
	h.accounts.set("u1", "user")
	bearer := "Bearer " + h.token(t, "u1", sec.RoleUser)

	rec := h.do(http.MethodPost, "/articles", bearer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperr.CodeForbidden, errorCode(t, rec))

	rec = h.do(http.MethodGet, "/admin/users", bearer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, h.spy.calls)
}

/*
TestGate_StoredRoleWinsOverToken verifies that promotion and demotion take effect
without a new token.
*/
func TestGate_StoredRoleWinsOverToken(t *testing.T) {
	h := newHarness("secret")
	h.accounts.set("u1", "user")
	bearer := "Bearer " + h.token(t, "u1", sec.RoleUser)

	// 1. Promoted in the store after login
	h.accounts.set("u1", "ADMIN")
	rec := h.do(http.MethodGet, "/admin/users", bearer)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, h.spy.identity)
	assert.Equal(t, sec.RoleAdmin, h.spy.identity.Role)

	// 2. Demoted again: the admin claim in an old token does not linger
	adminBearer := "Bearer " + h.token(t, "u1", sec.RoleAdmin)
	h.accounts.set("u1", "user")
	rec = h.do(http.MethodGet, "/admin/users", adminBearer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

/*
TestGate_EditorAllowed verifies editors pass the editor-or-admin predicate.
*/
func TestGate_EditorAllowed(t *testing.T) {
	h := newHarness("secret")
	h.accounts.set("e1", "Editor")

	rec := h.do(http.MethodPost, "/articles", "bearer "+h.token(t, "e1", sec.RoleEditor))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.spy.calls)
}

/*
TestGate_SelfOrAdmin covers the path-parameter predicate.
*/
func TestGate_SelfOrAdmin(t *testing.T) {
	h := newHarness("secret")
	h.accounts.set("u1", "user")
	h.accounts.set("u2", "user")
	h.accounts.set("a1", "admin")

	assert.Equal(t, http.StatusOK, h.do(http.MethodPut, "/users/u1", "Bearer "+h.token(t, "u1", sec.RoleUser)).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPut, "/users/u1", "Bearer "+h.token(t, "u2", sec.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodPut, "/users/u1", "Bearer "+h.token(t, "a1", sec.RoleAdmin)).Code)
}

/*
TestGate_Preflight verifies OPTIONS short-circuits before any token check.
*/
func TestGate_Preflight(t *testing.T) {
	h := newHarness("")

	rec := h.do(http.MethodOptions, "/admin/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, h.spy.calls)
}

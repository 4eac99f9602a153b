// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/platform/storage"
	"github.com/taibuivan/tahmin/internal/users/auth"
)

type memoryAccounts struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (m *memoryAccounts) FindRoleByID(ctx context.Context, id string) (string, error) {
	user, err := m.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return string(user.Role), nil
}

func (m *memoryAccounts) UpdateProfile(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, other := range m.users {
		if id != user.ID && strings.EqualFold(other.Username, user.Username) {
			return apperr.Conflict("Username is already taken")
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryAccounts) UpdateAvatar(_ context.Context, userID, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID].AvatarURL = avatarURL
	return nil
}

type memoryObjects struct {
	objects map[string][]byte
}

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryObjects) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryObjects) URL(key string) string { return "https://cdn.tahmin.app/" + key }

func (m *memoryObjects) KeyFromURL(url string) string {
	key, ok := strings.CutPrefix(url, "https://cdn.tahmin.app/")
	if !ok {
		return ""
	}
	return key
}

type fixture struct {
	router  http.Handler
	tokens  *sec.TokenService
	store   *memoryAccounts
	objects *memoryObjects
}

func newFixture(objects storage.ObjectStorage) *fixture {
	store := &memoryAccounts{users: map[string]*auth.User{
		"u1": {ID: "u1", Username: "ayse", Email: "ayse@tahmin.app", Role: sec.RoleUser},
		"u2": {ID: "u2", Username: "burak", Email: "burak@tahmin.app", Role: sec.RoleUser},
		"a1": {ID: "a1", Username: "admin", Email: "admin@tahmin.app", Role: sec.RoleAdmin},
	}}
	tokens := sec.NewTokenService("secret", "tahmin.app", time.Hour)
	gate := middleware.NewGate(tokens, store)
	f := &fixture{tokens: tokens, store: store}
	if mem, ok := objects.(*memoryObjects); ok {
		f.objects = mem
	}
	f.router = NewHandler(NewService(store, objects), gate.Authenticate).Routes()
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request, userID string, role sec.Role) *httptest.ResponseRecorder {
	t.Helper()
	token, err := f.tokens.Issue(userID, role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

/*
TestAccount_SelfOrAdmin verifies only the owner or an admin can read and edit a profile.
*/
func TestAccount_SelfOrAdmin(t *testing.T) {
	f := newFixture(&memoryObjects{objects: map[string][]byte{}})

	assert.Equal(t, http.StatusOK, f.do(t, httptest.NewRequest(http.MethodGet, "/u1", nil), "u1", sec.RoleUser).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, httptest.NewRequest(http.MethodGet, "/u1", nil), "u2", sec.RoleUser).Code)
	assert.Equal(t, http.StatusOK, f.do(t, httptest.NewRequest(http.MethodGet, "/u1", nil), "a1", sec.RoleAdmin).Code)

	rec := f.do(t, httptest.NewRequest(http.MethodPut, "/u1", strings.NewReader(`{"bio":"hacked"}`)), "u2", sec.RoleUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.store.users["u1"].Bio)
}

/*
TestAccount_UpdateProfile covers partial updates and username conflicts.
*/
func TestAccount_UpdateProfile(t *testing.T) {
	f := newFixture(&memoryObjects{objects: map[string][]byte{}})

	rec := f.do(t, httptest.NewRequest(http.MethodPut, "/u1", strings.NewReader(`{"bio":"Galatasaray fan"}`)), "u1", sec.RoleUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var body userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Galatasaray fan", body.User.Bio)
	assert.Equal(t, "ayse", body.User.Username)

	rec = f.do(t, httptest.NewRequest(http.MethodPut, "/u1", strings.NewReader(`{"username":"Burak"}`)), "u1", sec.RoleUser)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodPut, "/u1", strings.NewReader(`{"username":"x"}`)), "u1", sec.RoleUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func avatarRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/u1/avatar", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

/*
TestAccount_UploadAvatar stores a sniffed PNG and records its URL.
*/
func TestAccount_UploadAvatar(t *testing.T) {
	f := newFixture(&memoryObjects{objects: map[string][]byte{}})

	rec := f.do(t, avatarRequest(t, pngHeader), "u1", sec.RoleUser)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, f.objects.objects, 1)
	for key := range f.objects.objects {
		assert.True(t, strings.HasPrefix(key, "avatars/u1/"))
		assert.True(t, strings.HasSuffix(key, ".png"))
		assert.Equal(t, "https://cdn.tahmin.app/"+key, f.store.users["u1"].AvatarURL)
	}
}

/*
TestAccount_UploadAvatarReplaces verifies the previous avatar object is removed.
*/
func TestAccount_UploadAvatarReplaces(t *testing.T) {
	f := newFixture(&memoryObjects{objects: map[string][]byte{}})

	rec := f.do(t, avatarRequest(t, pngHeader), "u1", sec.RoleUser)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := f.store.users["u1"].AvatarURL

	rec = f.do(t, avatarRequest(t, pngHeader), "u1", sec.RoleUser)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, f.objects.objects, 1)
	assert.NotEqual(t, first, f.store.users["u1"].AvatarURL)
}

/*
TestAccount_UploadAvatarRejects covers unsupported and oversized files.
*/
func TestAccount_UploadAvatarRejects(t *testing.T) {
	f := newFixture(&memoryObjects{objects: map[string][]byte{}})

	rec := f.do(t, avatarRequest(t, []byte("just some text")), "u1", sec.RoleUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := append(append([]byte{}, pngHeader...), make([]byte, 3<<20)...)
	rec = f.do(t, avatarRequest(t, big), "u1", sec.RoleUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, f.objects.objects)
}

/*
TestAccount_UploadAvatarStorageDisabled verifies a missing bucket is a server misconfiguration.
*/
func TestAccount_UploadAvatarStorageDisabled(t *testing.T) {
	f := newFixture(storage.Disabled{})

	rec := f.do(t, avatarRequest(t, pngHeader), "u1", sec.RoleUser)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperr.CodeServerMisconfiguration)
}

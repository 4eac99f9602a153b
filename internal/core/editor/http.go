// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tahmin/internal/platform/request"
	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for editors and follows.
type Handler struct {
	service      *Service
	authenticate func(http.Handler) http.Handler
}

// NewHandler constructs a new editor [Handler].
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] configured with editor endpoints.
//
// # Endpoints
//   - GET    /                 : Public editor directory.
//   - GET    /{id}             : Public editor profile.
//   - POST   /follow           : Follow an editor.
//   - DELETE /follow           : Unfollow an editor.
//   - GET    /follow/status    : Whether the caller follows an editor.
//   - GET    /following        : Editors the caller follows.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listEditors)
	router.Get("/{id}", handler.getEditor)

	// ## Authenticated
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)

		r.Post("/follow", handler.follow)
		r.Delete("/follow", handler.unfollow)
		r.Get("/follow/status", handler.followStatus)
		r.Get("/following", handler.listFollowing)
	})

	return router
}

type followRequest struct {
	EditorID string `json:"editorId"`
}

type followStatusResponse struct {
	IsFollowing bool `json:"isFollowing"`
}

// # Directory Endpoints

/*
GET /api/v1/editors.

Response:
  - 200: {items: []Editor, pagination}
*/
func (handler *Handler) listEditors(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	editors, total, err := handler.service.ListEditors(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, editors, params, total)
}

/*
GET /api/v1/editors/{id}.

Response:
  - 200: Profile
  - 404: Not an editor
*/
func (handler *Handler) getEditor(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
GET /api/v1/editors/following.

Response:
  - 200: {items: []Editor, pagination}
*/
func (handler *Handler) listFollowing(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	editors, total, err := handler.service.ListFollowing(request.Context(), actor, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, editors, params, total)
}

// # Follow Endpoints

/*
POST /api/v1/editors/follow.

Request:
  - Body: {editorId}

Response:
  - 200: {isFollowing: true, followers}
  - 400: Missing editorId or self-follow
  - 404: Target is not an editor
*/
func (handler *Handler) follow(writer http.ResponseWriter, request *http.Request) {
	handler.mutateFollow(writer, request, handler.service.Follow)
}

/*
DELETE /api/v1/editors/follow.

Request:
  - Body: {editorId}

Response:
  - 200: {isFollowing: false, followers}
  - 400: Missing editorId or self-unfollow
  - 404: Target account does not exist
*/
func (handler *Handler) unfollow(writer http.ResponseWriter, request *http.Request) {
	handler.mutateFollow(writer, request, handler.service.Unfollow)
}

/*
GET /api/v1/editors/follow/status?editorId=.

Response:
  - 200: {isFollowing}
  - 400: Missing editorId
*/
func (handler *Handler) followStatus(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	following, err := handler.service.IsFollowing(request.Context(), actor, request.URL.Query().Get(FieldEditorID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, followStatusResponse{IsFollowing: following})
}

func (handler *Handler) mutateFollow(
	writer http.ResponseWriter,
	request *http.Request,
	mutate func(ctx context.Context, actor *sec.Identity, editorID string) (*FollowState, error),
) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input followRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := mutate(request.Context(), actor, input.EditorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

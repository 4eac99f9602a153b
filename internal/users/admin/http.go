// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tahmin/internal/platform/middleware"
	requestutil "github.com/taibuivan/tahmin/internal/platform/request"
	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/platform/validate"
	"github.com/taibuivan/tahmin/internal/users/auth"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

// Handler implements the /admin endpoints.
type Handler struct {
	adminService *Service
	authenticate func(http.Handler) http.Handler
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{adminService: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] for the admin endpoints.
//
// # Endpoints
//   - GET  /users               : Paginated user list.
//   - GET  /users/search?email= : Case-insensitive email search.
//   - POST /users/update-role   : Change a user's role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)
		r.Use(middleware.AdminOnly)

		r.Get("/users", handler.listUsers)
		r.Get("/users/search", handler.searchUsers)
		r.Post("/users/update-role", handler.updateRole)
	})

	return router
}

type updateRoleRequest struct {
	UserID  string `json:"userId"`
	NewRole string `json:"newRole"`
}

type userResponse struct {
	User *auth.User `json:"user"`
}

/*
GET /api/v1/admin/users?page&limit

Response:
  - 200: {items, pagination}
  - 403: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.adminService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, params, total)
}

/*
GET /api/v1/admin/users/search?email=

Response:
  - 200: {items, pagination}
  - 400: Empty email query
*/
func (handler *Handler) searchUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.adminService.SearchByEmail(request.Context(), request.URL.Query().Get("email"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, params, total)
}

/*
POST /api/v1/admin/users/update-role

Request:
  - Body: updateRoleRequest (userId, newRole: user|editor|admin, any case)

Response:
  - 200: {user}
  - 400: Missing fields or unknown role
  - 404: User not found
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(auth.FieldUserID, input.UserID).Required(auth.FieldRole, input.NewRole)

	role, roleErr := sec.ParseRole(input.NewRole)
	v.Custom(auth.FieldRole, input.NewRole != "" && roleErr != nil, "Must be one of: user, editor, admin")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.UpdateRole(request.Context(), actor, input.UserID, role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, userResponse{User: user})
}

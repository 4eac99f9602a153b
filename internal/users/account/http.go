// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/constants"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	requestutil "github.com/taibuivan/tahmin/internal/platform/request"
	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/validate"
	"github.com/taibuivan/tahmin/internal/users/auth"
)

// allowedAvatarTypes maps sniffed content types to file extensions.
var allowedAvatarTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Handler implements the /users endpoints.
type Handler struct {
	accountService *Service
	authenticate   func(http.Handler) http.Handler
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{accountService: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] for the account endpoints.
//
// # Endpoints
//   - GET  /{id}        : Read a profile (self or admin).
//   - PUT  /{id}        : Update username and bio (self or admin).
//   - POST /{id}/avatar : Upload an avatar image (self or admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)
		r.Use(middleware.RequireSelfOrAdmin("id"))

		r.Get("/{id}", handler.getUser)
		r.Put("/{id}", handler.updateUser)
		r.Post("/{id}/avatar", handler.uploadAvatar)
	})

	return router
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

type userResponse struct {
	User *auth.User `json:"user"`
}

/*
GET /api/v1/users/{id}

Response:
  - 200: {user}
  - 403: Not self and not admin
  - 404: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, userResponse{User: user})
}

/*
PUT /api/v1/users/{id}

Request:
  - Body: updateUserRequest (username?, bio?)

Response:
  - 200: {user}
  - 400: Validation failure
  - 409: Username already taken
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	var input updateUserRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Username != nil {
		v.Required(auth.FieldUsername, *input.Username).
			MinLen(auth.FieldUsername, *input.Username, auth.MinUsernameLength).
			MaxLen(auth.FieldUsername, *input.Username, auth.MaxUsernameLength)
	}
	if input.Bio != nil {
		v.MaxLen(auth.FieldBio, *input.Bio, auth.MaxBioLength)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), requestutil.Param(request, "id"), UpdateProfileInput{
		Username: input.Username,
		Bio:      input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, userResponse{User: user})
}

/*
POST /api/v1/users/{id}/avatar

Request:
  - Body: multipart/form-data with an "avatar" file (jpeg, png or webp, at most 2 MiB)

Response:
  - 200: {user}
  - 400: Missing, oversized or unsupported file
*/
func (handler *Handler) uploadAvatar(writer http.ResponseWriter, request *http.Request) {
	upload, err := readAvatar(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UploadAvatar(request.Context(), requestutil.Param(request, "id"), *upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, userResponse{User: user})
}

// readAvatar extracts and sniffs the "avatar" multipart file.
func readAvatar(writer http.ResponseWriter, request *http.Request) (*AvatarUpload, error) {

	// Room for the multipart envelope on top of the file itself.
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxAvatarBytes+64<<10)

	file, _, err := request.FormFile(auth.FieldAvatar)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, validate.RequiredError(auth.FieldAvatar, "File must be at most 2 MiB")
		}
		return nil, validate.RequiredError(auth.FieldAvatar, "An image file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxAvatarBytes+1))
	if err != nil {
		return nil, apperr.ValidationError("Could not read uploaded file")
	}
	if len(data) == 0 {
		return nil, validate.RequiredError(auth.FieldAvatar, "An image file is required")
	}
	if len(data) > constants.MaxAvatarBytes {
		return nil, validate.RequiredError(auth.FieldAvatar, "File must be at most 2 MiB")
	}

	contentType := http.DetectContentType(data)
	extension, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, validate.RequiredError(auth.FieldAvatar, "Only JPEG, PNG or WebP images are allowed")
	}

	return &AvatarUpload{Data: data, ContentType: contentType, Extension: extension}, nil
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tahmin/internal/platform/middleware"
	requestutil "github.com/taibuivan/tahmin/internal/platform/request"
	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/validate"
	"github.com/taibuivan/tahmin/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for articles.
type Handler struct {
	service      *Service
	authenticate func(http.Handler) http.Handler
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] configured with article endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listArticles)
	router.Get("/{id}", handler.getArticle)

	// ## Authenticated
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)

		r.With(middleware.EditorOrAdmin).Post("/", handler.createArticle)

		// Ownership is checked per article in the service.
		r.Put("/{id}", handler.updateArticle)
		r.Delete("/{id}", handler.deleteArticle)
	})

	return router
}

type createArticleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type updateArticleRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// # Article Endpoints

/*
GET /api/v1/articles.

Request:
  - authorId: string (optional)
  - page, limit: int

Response:
  - 200: {items, pagination}
*/
func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{AuthorID: request.URL.Query().Get(FieldAuthorID)}

	articles, total, err := handler.service.ListArticles(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, params, total)
}

/*
GET /api/v1/articles/{id}.

Response:
  - 200: Article
  - 404: Article not found
*/
func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.GetArticle(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

/*
POST /api/v1/articles.

Request:
  - Body: createArticleRequest

Response:
  - 201: Article
  - 400: Validation failure
  - 403: Caller is not an editor or admin
*/
func (handler *Handler) createArticle(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createArticleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldContent, input.Content).
		URL(FieldImageURL, input.ImageURL)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.CreateArticle(request.Context(), actor, CreateInput{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

/*
PUT /api/v1/articles/{id}.

Response:
  - 200: Article
  - 403: Caller neither owns the article nor is an admin
  - 404: Article not found
*/
func (handler *Handler) updateArticle(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateArticleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Content != nil {
		v.Required(FieldContent, *input.Content)
	}
	if input.ImageURL != nil {
		v.URL(FieldImageURL, *input.ImageURL)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.UpdateArticle(request.Context(), actor, requestutil.Param(request, "id"), UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

/*
DELETE /api/v1/articles/{id}.

Response:
  - 204: Deleted
  - 403: Caller neither owns the article nor is an admin
  - 404: Article not found
*/
func (handler *Handler) deleteArticle(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteArticle(request.Context(), actor, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prediction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tahmin/internal/platform/request"
	"github.com/taibuivan/tahmin/internal/platform/respond"
)

// MatchRoutes returns a [chi.Router] for the public match endpoints.
//
// # Endpoints
//   - GET /{id} : Match detail.
func (handler *Handler) MatchRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{id}", handler.getMatch)
	return router
}

/*
GET /api/v1/matches/{id}.

Response:
  - 200: Match
  - 404: Match not found
*/
func (handler *Handler) getMatch(writer http.ResponseWriter, request *http.Request) {
	match, err := handler.service.GetMatch(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, match)
}

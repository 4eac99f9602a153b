// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prediction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	requestutil "github.com/taibuivan/tahmin/internal/platform/request"
	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/validate"
	"github.com/taibuivan/tahmin/pkg/pagination"
	"github.com/taibuivan/tahmin/pkg/pointer"
)

// # Handler Implementation

// Handler implements the HTTP layer for predictions and matches.
type Handler struct {
	service      *Service
	authenticate func(http.Handler) http.Handler
}

// NewHandler constructs a new prediction [Handler].
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] configured with prediction endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listPredictions)
	router.Get("/{id}", handler.getPrediction)

	// ## Authenticated
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)

		r.With(middleware.EditorOrAdmin).Post("/", handler.createPrediction)

		// Ownership is checked per prediction in the service.
		r.Put("/{id}", handler.updatePrediction)
		r.Patch("/{id}/status", handler.settlePrediction)
		r.Delete("/{id}", handler.deletePrediction)
	})

	return router
}

type matchRequest struct {
	ExternalID string    `json:"externalId"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	League     string    `json:"league"`
	KickoffAt  time.Time `json:"kickoffAt"`
	HomeScore  *int      `json:"homeScore"`
	AwayScore  *int      `json:"awayScore"`
	Status     string    `json:"status"`
}

type createPredictionRequest struct {
	MatchID    string        `json:"matchId"`
	Match      *matchRequest `json:"match"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Pick       string        `json:"pick"`
	Odds       float64       `json:"odds"`
	Confidence int           `json:"confidence"`
}

type updatePredictionRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Pick       *string  `json:"pick"`
	Odds       *float64 `json:"odds"`
	Confidence *int     `json:"confidence"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// toMatch validates the inline match and converts it into a [Match].
func (m *matchRequest) toMatch(v *validate.Validator) *Match {
	v.Required(FieldHomeTeam, m.HomeTeam).
		MaxLen(FieldHomeTeam, m.HomeTeam, MaxTeamLength).
		Required(FieldAwayTeam, m.AwayTeam).
		MaxLen(FieldAwayTeam, m.AwayTeam, MaxTeamLength).
		MaxLen(FieldLeague, m.League, MaxLeagueLength).
		MaxLen(FieldExternalID, m.ExternalID, MaxExternalIDLength).
		Custom(FieldKickoffAt, m.KickoffAt.IsZero(), "This field is required")

	status, ok := ParseMatchStatus(m.Status)
	v.Custom("match.status", !ok, "Must be one of: SCHEDULED, LIVE, FINISHED, POSTPONED, CANCELLED")

	match := &Match{
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		League:    m.League,
		KickoffAt: m.KickoffAt.UTC(),
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Status:    status,
	}
	if m.ExternalID != "" {
		match.ExternalID = pointer.To(m.ExternalID)
	}
	return match
}

// # Prediction Endpoints

/*
GET /api/v1/predictions.

Request:
  - authorId: string (optional)
  - status: PENDING|WON|LOST, any case (optional)
  - page, limit: int

Response:
  - 200: {items, pagination}
  - 400: Unknown status filter
*/
func (handler *Handler) listPredictions(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{AuthorID: query.Get(FieldAuthorID)}
	if raw := query.Get(FieldStatus); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldStatus, "Must be one of: PENDING, WON, LOST"))
			return
		}
		filter.Status = status
	}

	predictions, total, err := handler.service.ListPredictions(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, predictions, params, total)
}

/*
GET /api/v1/predictions/{id}.

Response:
  - 200: Prediction
  - 404: Prediction not found
*/
func (handler *Handler) getPrediction(writer http.ResponseWriter, request *http.Request) {
	prediction, err := handler.service.GetPrediction(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, prediction)
}

/*
POST /api/v1/predictions.

Request:
  - Body: createPredictionRequest (matchId or inline match)

Response:
  - 201: Prediction
  - 400: Validation failure
  - 403: Caller is not an editor or admin
  - 404: matchId does not exist
*/
func (handler *Handler) createPrediction(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPredictionRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldContent, input.Content).
		Required(FieldPick, input.Pick).
		MaxLen(FieldPick, input.Pick, MaxPickLength).
		FloatRange(FieldOdds, input.Odds, MinOdds, MaxOdds).
		Range(FieldConfidence, input.Confidence, MinConfidence, MaxConfidence)

	var match *Match
	if input.Match != nil {
		match = input.Match.toMatch(v)
	}
	v.Custom(FieldMatchID, (input.MatchID == "") == (input.Match == nil), "Exactly one of matchId or match is required")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prediction, err := handler.service.CreatePrediction(request.Context(), actor, CreateInput{
		MatchID:    input.MatchID,
		Match:      match,
		Title:      input.Title,
		Content:    input.Content,
		Pick:       input.Pick,
		Odds:       input.Odds,
		Confidence: input.Confidence,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, prediction)
}

/*
PUT /api/v1/predictions/{id}.

Response:
  - 200: Prediction
  - 403: Caller neither owns the prediction nor is an admin
  - 404: Prediction not found
*/
func (handler *Handler) updatePrediction(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePredictionRequest
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
	if input.Pick != nil {
		v.Required(FieldPick, *input.Pick).MaxLen(FieldPick, *input.Pick, MaxPickLength)
	}
	if input.Odds != nil {
		v.FloatRange(FieldOdds, *input.Odds, MinOdds, MaxOdds)
	}
	if input.Confidence != nil {
		v.Range(FieldConfidence, *input.Confidence, MinConfidence, MaxConfidence)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prediction, err := handler.service.UpdatePrediction(request.Context(), actor, requestutil.Param(request, "id"), UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, prediction)
}

/*
PATCH /api/v1/predictions/{id}/status.

Request:
  - Body: {status: PENDING|WON|LOST}, any case

Response:
  - 200: Prediction
  - 400: Unknown status
  - 403: Caller neither owns the prediction nor is an admin
*/
func (handler *Handler) settlePrediction(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := ParseStatus(input.Status)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid status",
			apperr.FieldError{Field: FieldStatus, Message: "Must be one of: PENDING, WON, LOST"}))
		return
	}

	prediction, err := handler.service.SettlePrediction(request.Context(), actor, requestutil.Param(request, "id"), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, prediction)
}

/*
DELETE /api/v1/predictions/{id}.

Response:
  - 204: Deleted
  - 403: Caller neither owns the prediction nor is an admin
  - 404: Prediction not found
*/
func (handler *Handler) deletePrediction(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePrediction(request.Context(), actor, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package football

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/validate"
	"github.com/taibuivan/tahmin/pkg/convert"
)

// Handler implements the public football data endpoints.
type Handler struct {
	service *Service
	now     func() time.Time
}

// NewHandler constructs a football [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// Routes returns a [chi.Router] for the football endpoints.
//
// # Endpoints
//   - GET /live                     : Fixtures in play.
//   - GET /standings?league&season  : League table.
//   - GET /fixtures?date&league     : Fixtures on a day (default today, UTC).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/live", handler.live)
	router.Get("/standings", handler.standings)
	router.Get("/fixtures", handler.fixtures)
	return router
}

type fixturesResponse struct {
	Fixtures []Fixture `json:"fixtures"`
}

type standingsResponse struct {
	League    int           `json:"league"`
	Season    int           `json:"season"`
	Standings []StandingRow `json:"standings"`
}

/*
GET /api/v1/football/live.

Response:
  - 200: {fixtures}
  - 502: Provider unavailable
*/
func (handler *Handler) live(writer http.ResponseWriter, request *http.Request) {
	fixtures, err := handler.service.LiveScores(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, fixturesResponse{Fixtures: nonNil(fixtures)})
}

/*
GET /api/v1/football/standings?league&season.

Response:
  - 200: {league, season, standings}
  - 400: Missing or non-numeric league/season
  - 502: Provider unavailable
*/
func (handler *Handler) standings(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	league := convert.ToInt(query.Get(FieldLeague))
	season := convert.ToInt(query.Get(FieldSeason))

	v := &validate.Validator{}
	v.Custom(FieldLeague, league <= 0, "Must be a positive league id").
		Custom(FieldSeason, season < 1900, "Must be a four-digit season year")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rows, err := handler.service.Standings(request.Context(), league, season)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, standingsResponse{League: league, Season: season, Standings: nonNil(rows)})
}

/*
GET /api/v1/football/fixtures?date&league.

Response:
  - 200: {fixtures}
  - 400: Malformed date or league
  - 502: Provider unavailable
*/
func (handler *Handler) fixtures(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	date := query.Get(FieldDate)
	if date == "" {
		date = handler.now().UTC().Format(DateLayout)
	}
	_, dateErr := time.Parse(DateLayout, date)

	rawLeague := query.Get(FieldLeague)
	league := convert.ToIntD(rawLeague, 0)

	v := &validate.Validator{}
	v.Custom(FieldDate, dateErr != nil, "Must be formatted as YYYY-MM-DD").
		Custom(FieldLeague, rawLeague != "" && league <= 0, "Must be a positive league id")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	fixtures, err := handler.service.Fixtures(request.Context(), date, league)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, fixturesResponse{Fixtures: nonNil(fixtures)})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

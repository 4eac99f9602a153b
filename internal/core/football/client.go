// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package football

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/pkg/slice"
)

// HeaderAPIKey carries the provider credential.
const HeaderAPIKey = "x-apisports-key"

// maxResponseBytes bounds an upstream body.
const maxResponseBytes = 4 << 20

// ErrMissingAPIKey is returned when no provider key is configured.
var ErrMissingAPIKey = errors.New("football: api key is not configured")

// Client calls the provider over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs a provider [Client] with a per-call timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// # Provider Payloads

type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response json.RawMessage `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int       `json:"id"`
		Date   time.Time `json:"date"`
		Status struct {
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals Score `json:"goals"`
}

type standingItem struct {
	League struct {
		Standings [][]struct {
			Rank   int    `json:"rank"`
			Points int    `json:"points"`
			Form   string `json:"form"`
			Team   struct {
				Name string `json:"name"`
			} `json:"team"`
			All struct {
				Played int `json:"played"`
				Win    int `json:"win"`
				Draw   int `json:"draw"`
				Lose   int `json:"lose"`
				Goals  struct {
					For     int `json:"for"`
					Against int `json:"against"`
				} `json:"goals"`
			} `json:"all"`
		} `json:"standings"`
	} `json:"league"`
}

// # Provider Implementation

// LiveScores implements [Provider].
func (client *Client) LiveScores(ctx context.Context) ([]Fixture, error) {
	var items []fixtureItem
	if err := client.get(ctx, "/fixtures", url.Values{"live": {"all"}}, &items); err != nil {
		return nil, err
	}
	return slice.Map(items, toFixture), nil
}

// Fixtures implements [Provider]. league 0 means all leagues.
func (client *Client) Fixtures(ctx context.Context, date string, league int) ([]Fixture, error) {
	query := url.Values{"date": {date}}
	if league > 0 {
		query.Set("league", strconv.Itoa(league))
	}

	var items []fixtureItem
	if err := client.get(ctx, "/fixtures", query, &items); err != nil {
		return nil, err
	}
	return slice.Map(items, toFixture), nil
}

// Standings implements [Provider].
func (client *Client) Standings(ctx context.Context, league, season int) ([]StandingRow, error) {
	query := url.Values{
		"league": {strconv.Itoa(league)},
		"season": {strconv.Itoa(season)},
	}

	var items []standingItem
	if err := client.get(ctx, "/standings", query, &items); err != nil {
		return nil, err
	}

	rows := []StandingRow{}
	for _, item := range items {
		// Only the first group is returned; split-league tables are rare upstream.
		if len(item.League.Standings) == 0 {
			continue
		}
		for _, s := range item.League.Standings[0] {
			rows = append(rows, StandingRow{
				Rank:         s.Rank,
				Team:         s.Team.Name,
				Played:       s.All.Played,
				Won:          s.All.Win,
				Drawn:        s.All.Draw,
				Lost:         s.All.Lose,
				GoalsFor:     s.All.Goals.For,
				GoalsAgainst: s.All.Goals.Against,
				Points:       s.Points,
				Form:         s.Form,
			})
		}
	}
	return rows, nil
}

/*
get performs one GET against the provider and decodes the "response" field into out.

Returns:
  - error: apperr.ServerMisconfiguration without a key, apperr.UpstreamFailure
    for transport errors, non-2xx statuses, provider errors or bad payloads
*/
func (client *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if client.apiKey == "" {
		return apperr.ServerMisconfiguration(ErrMissingAPIKey)
	}

	endpoint := client.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	req.Header.Set(HeaderAPIKey, client.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := client.http.Do(req)
	if err != nil {
		return apperr.UpstreamFailure(fmt.Errorf("football: request %s: %w", path, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperr.UpstreamFailure(fmt.Errorf("football: read %s: %w", path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.UpstreamFailure(fmt.Errorf("football: %s returned %s", path, resp.Status))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apperr.UpstreamFailure(fmt.Errorf("football: decode %s: %w", path, err))
	}
	if hasErrors(env.Errors) {
		return apperr.UpstreamFailure(fmt.Errorf("football: %s reported errors: %s", path, env.Errors))
	}

	if len(env.Response) == 0 || bytes.Equal(env.Response, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return apperr.UpstreamFailure(fmt.Errorf("football: decode %s response: %w", path, err))
	}
	return nil
}

// hasErrors reports whether the provider's errors field is non-empty. The
// provider sends either an empty array or an object keyed by error kind.
func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return false
	}
	return true
}

func toFixture(item fixtureItem) Fixture {
	return Fixture{
		ID:        item.Fixture.ID,
		League:    item.League.Name,
		Country:   item.League.Country,
		HomeTeam:  item.Teams.Home.Name,
		AwayTeam:  item.Teams.Away.Name,
		Score:     item.Goals,
		Status:    item.Fixture.Status.Short,
		Elapsed:   item.Fixture.Status.Elapsed,
		KickoffAt: item.Fixture.Date.UTC(),
	}
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package football proxies live scores, fixtures and standings from an
API-Football compatible provider.

Upstream payloads are reshaped into [Fixture] and [StandingRow] so clients
never depend on the provider's format. Responses may be cached in Redis for
a short TTL; the cache is best effort and never fails a request.

# Upstream Contract

Every call is a single attempt bounded by the client timeout. A non-2xx
status or a non-empty "errors" field is reported as an upstream failure.
*/
package football

import (
	"context"
	"time"
)

// # Core Entities

// Score holds the goals of each side; nil before kickoff.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Fixture is a single match as reported by the provider.
type Fixture struct {
	ID        int       `json:"id"`
	League    string    `json:"league"`
	Country   string    `json:"country,omitempty"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	Score     Score     `json:"score"`
	Status    string    `json:"status"`
	Elapsed   *int      `json:"elapsed,omitempty"`
	KickoffAt time.Time `json:"kickoffAt"`
}

// StandingRow is one team's line in a league table.
type StandingRow struct {
	Rank         int    `json:"rank"`
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
	Form         string `json:"form,omitempty"`
}

// # Contracts

// Provider is the upstream data source.
type Provider interface {
	LiveScores(ctx context.Context) ([]Fixture, error)
	Fixtures(ctx context.Context, date string, league int) ([]Fixture, error)
	Standings(ctx context.Context, league, season int) ([]StandingRow, error)
}

// Cache is a byte cache with a fixed TTL. Implemented by the Redis cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// # Field Identifiers

const (
	FieldLeague = "league"
	FieldSeason = "season"
	FieldDate   = "date"
)

// DateLayout is the provider's fixture date format.
const DateLayout = "2006-01-02"

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package prediction manages editor predictions and the matches they reference.

# Core Responsibility

  - Entities: Defines [Prediction] and [Match].
  - Publishing: Editors and admins publish predictions against an existing
    match or an inline match that is upserted by its external id.
  - Settlement: Owners and admins move a prediction from PENDING to WON or LOST.

Settled predictions feed the editor success rate computed by the editor package.
*/
package prediction

import (
	"errors"
	"strings"
	"time"
)

// # Enums

// Status is the settlement state of a prediction.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
)

// ErrUnknownStatus is returned by [ParseStatus] for values outside the enum.
var ErrUnknownStatus = errors.New("prediction: unknown status")

// ParseStatus normalizes s case-insensitively into a [Status].
func ParseStatus(s string) (Status, error) {
	switch status := Status(strings.ToUpper(strings.TrimSpace(s))); status {
	case StatusPending, StatusWon, StatusLost:
		return status, nil
	}
	return "", ErrUnknownStatus
}

// MatchStatus is the lifecycle state of a fixture.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchLive      MatchStatus = "LIVE"
	MatchFinished  MatchStatus = "FINISHED"
	MatchPostponed MatchStatus = "POSTPONED"
	MatchCancelled MatchStatus = "CANCELLED"
)

// ParseMatchStatus normalizes s case-insensitively; empty means scheduled.
func ParseMatchStatus(s string) (MatchStatus, bool) {
	status := MatchStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case "":
		return MatchScheduled, true
	case MatchScheduled, MatchLive, MatchFinished, MatchPostponed, MatchCancelled:
		return status, true
	}
	return "", false
}

// # Core Entities

// Match is a fixture predictions are made against.
type Match struct {
	ID         string      `json:"id"`
	ExternalID *string     `json:"externalId,omitempty"`
	HomeTeam   string      `json:"homeTeam"`
	AwayTeam   string      `json:"awayTeam"`
	League     string      `json:"league"`
	KickoffAt  time.Time   `json:"kickoffAt"`
	HomeScore  *int        `json:"homeScore,omitempty"`
	AwayScore  *int        `json:"awayScore,omitempty"`
	Status     MatchStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Author is the public summary of the account that published a prediction.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Prediction is an editor's pick on a match.
type Prediction struct {
	ID         string    `json:"id"` // UUIDv7
	AuthorID   string    `json:"authorId"`
	Author     *Author   `json:"author,omitempty"`
	MatchID    string    `json:"matchId"`
	Match      *Match    `json:"match,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Pick       string    `json:"pick"`
	Odds       float64   `json:"odds"`
	Confidence int       `json:"confidence"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// # Search & Filtering

// Filter holds parameters for listing predictions.
type Filter struct {
	AuthorID string
	Status   Status
}

// # Field Identifiers

const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldPick       = "pick"
	FieldOdds       = "odds"
	FieldConfidence = "confidence"
	FieldStatus     = "status"
	FieldMatchID    = "matchId"
	FieldMatch      = "match"
	FieldHomeTeam   = "match.homeTeam"
	FieldAwayTeam   = "match.awayTeam"
	FieldKickoffAt  = "match.kickoffAt"
	FieldLeague     = "match.league"
	FieldExternalID = "match.externalId"
	FieldAuthorID   = "authorId"
)

// # Constraints

const (
	MinConfidence  = 1
	MaxConfidence  = 10
	MinOdds        = 1.0
	MaxOdds        = 999999.99
	MaxTitleLength = 200
	MaxPickLength  = 120
	MaxTeamLength  = 120

	MaxLeagueLength     = 120
	MaxExternalIDLength = 64
)

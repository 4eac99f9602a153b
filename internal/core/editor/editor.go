// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package editor exposes the public editor directory and the follow graph.

# Core Responsibility

  - Directory: Lists accounts with the editor role together with their
    follower count and prediction record.
  - Profile: Editor detail with the latest predictions and articles.
  - Follows: A directed, deduplicated edge from follower to editor.

# Follow State Machine

Each (follower, editor) pair is either following or not. Follow and unfollow
are idempotent in both directions, and a self-targeted request is rejected
before the current state is inspected.
*/
package editor

import (
	"math"
	"time"

	"github.com/taibuivan/tahmin/internal/core/article"
	"github.com/taibuivan/tahmin/internal/core/prediction"
)

// # Core Entities

// Stats summarizes an editor's audience and track record.
type Stats struct {
	Followers   int     `json:"followers"`
	Predictions int     `json:"predictions"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	SuccessRate float64 `json:"successRate"`
}

// Editor is the public view of an account with the editor role.
type Editor struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Stats     Stats     `json:"stats"`
}

// Profile is the editor detail view.
type Profile struct {
	*Editor
	LatestPredictions []*prediction.Prediction `json:"latestPredictions"`
	LatestArticles    []*article.Article       `json:"latestArticles"`
}

// FollowState is the response of follow and unfollow.
type FollowState struct {
	IsFollowing bool `json:"isFollowing"`
	Followers   int  `json:"followers"`
}

// SuccessRate returns won/(won+lost) as a percentage rounded to one decimal.
// It is 0 when nothing has been settled.
func SuccessRate(won, lost int) float64 {
	settled := won + lost
	if settled == 0 {
		return 0
	}
	return math.Round(float64(won)/float64(settled)*1000) / 10
}

// # Field Identifiers

const (
	FieldEditorID = "editorId"
)

// LatestLimit is the number of recent predictions and articles on a profile.
const LatestLimit = 5

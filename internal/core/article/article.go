// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article manages editorial articles.

Articles are written by editors and admins, listed publicly, and may only be
changed by their author or an admin.

# Core Responsibility

  - Entity: Defines [Article] and the embedded [Author] summary.
  - Ownership: Updates and deletes pass the owner-or-admin policy.
  - Slugs: Every article carries a unique, human-readable slug.
*/
package article

import "time"

// # Core Entities

// Author is the public summary of the account that wrote an article.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Article represents a published editorial piece.
type Article struct {
	ID        string    `json:"id"` // UUIDv7
	AuthorID  string    `json:"authorId"`
	Author    *Author   `json:"author,omitempty"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// # Search & Filtering

// Filter holds parameters for listing articles.
type Filter struct {
	AuthorID string
}

// # Field Identifiers

const (
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldImageURL = "imageUrl"
	FieldAuthorID = "authorId"
)

// # Constraints

const (
	MaxTitleLength = 200

	// MaxSlugLength matches the slug column width, suffix included.
	MaxSlugLength = 240
)

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"

	"github.com/taibuivan/tahmin/internal/platform/sec"
)

// Repository defines the persistence contract for editors and follows.
//
// Stats are returned with SuccessRate unset; the service derives it.
type Repository interface {
	// List returns one page of editors, most followed first.
	List(ctx context.Context, limit, offset int) ([]*Editor, int, error)

	// FindByID returns an editor. Returns apperr.NotFound when the account
	// does not exist or does not hold the editor role.
	FindByID(ctx context.Context, id string) (*Editor, error)

	// ListFollowing returns one page of editors followed by followerID.
	ListFollowing(ctx context.Context, followerID string, limit, offset int) ([]*Editor, int, error)

	// FindRole returns the stored role of an account.
	FindRole(ctx context.Context, id string) (sec.Role, error)

	// Follow creates the edge; created is false when it already existed.
	Follow(ctx context.Context, followerID, editorID string) (created bool, err error)

	// Unfollow removes the edge; removed is false when it did not exist.
	Unfollow(ctx context.Context, followerID, editorID string) (removed bool, err error)

	// IsFollowing reports whether the edge exists.
	IsFollowing(ctx context.Context, followerID, editorID string) (bool, error)

	// CountFollowers returns the number of followers of editorID.
	CountFollowers(ctx context.Context, editorID string) (int, error)
}

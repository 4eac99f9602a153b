// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tahmin/internal/core/article"
	"github.com/taibuivan/tahmin/internal/core/prediction"
	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/sec"
)

// PredictionLister is the slice of the prediction service a profile needs.
type PredictionLister interface {
	ListPredictions(ctx context.Context, filter prediction.Filter, limit, offset int) ([]*prediction.Prediction, int, error)
}

// ArticleLister is the slice of the article service a profile needs.
type ArticleLister interface {
	ListArticles(ctx context.Context, filter article.Filter, limit, offset int) ([]*article.Article, int, error)
}

// Service implements the editor directory and follow use cases.
type Service struct {
	repo        Repository
	predictions PredictionLister
	articles    ArticleLister
	publisher   events.Publisher
}

// NewService constructs a new editor [Service].
func NewService(repo Repository, predictions PredictionLister, articles ArticleLister, publisher events.Publisher) *Service {
	return &Service{repo: repo, predictions: predictions, articles: articles, publisher: publisher}
}

// followEvent is the payload of editor.followed.
type followEvent struct {
	FollowerID string `json:"followerId"`
	EditorID   string `json:"editorId"`
}

// # Directory

// ListEditors returns a page of editors with their stats.
func (service *Service) ListEditors(ctx context.Context, limit, offset int) ([]*Editor, int, error) {
	editors, total, err := service.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("editor_service_list_failed: %w", err)
	}
	withSuccessRate(editors...)
	return editors, total, nil
}

/*
GetProfile returns an editor with stats and their latest work.

Returns:
  - *Profile: Editor, stats, latest predictions and articles
  - error: apperr.NotFound when id is not an editor
*/
func (service *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	editor, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	withSuccessRate(editor)

	predictions, _, err := service.predictions.ListPredictions(ctx, prediction.Filter{AuthorID: id}, LatestLimit, 0)
	if err != nil {
		return nil, err
	}

	articles, _, err := service.articles.ListArticles(ctx, article.Filter{AuthorID: id}, LatestLimit, 0)
	if err != nil {
		return nil, err
	}

	return &Profile{Editor: editor, LatestPredictions: predictions, LatestArticles: articles}, nil
}

// ListFollowing returns a page of editors actor follows.
func (service *Service) ListFollowing(ctx context.Context, actor *sec.Identity, limit, offset int) ([]*Editor, int, error) {
	editors, total, err := service.repo.ListFollowing(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("editor_service_following_failed: %w", err)
	}
	withSuccessRate(editors...)
	return editors, total, nil
}

// # Follow Graph

/*
Follow makes actor follow editorID.

Self-targeting is rejected before any lookup. Following an editor that is
already followed succeeds without creating a second edge.
*/
func (service *Service) Follow(ctx context.Context, actor *sec.Identity, editorID string) (*FollowState, error) {
	editorID, err := service.checkTarget(ctx, actor, editorID, true)
	if err != nil {
		return nil, err
	}

	created, err := service.repo.Follow(ctx, actor.UserID, editorID)
	if err != nil {
		return nil, fmt.Errorf("editor_service_follow_failed: %w", err)
	}

	if created {
		ctxutil.GetLogger(ctx).InfoContext(ctx, "editor_followed", slog.String("editor_id", editorID))
		events.Emit(ctx, service.publisher, events.TypeEditorFollowed, followEvent{
			FollowerID: actor.UserID,
			EditorID:   editorID,
		})
	}

	return service.state(ctx, editorID, true)
}

// Unfollow removes the edge from actor to editorID. Unfollowing an account
// that is not followed succeeds.
func (service *Service) Unfollow(ctx context.Context, actor *sec.Identity, editorID string) (*FollowState, error) {
	editorID, err := service.checkTarget(ctx, actor, editorID, false)
	if err != nil {
		return nil, err
	}

	removed, err := service.repo.Unfollow(ctx, actor.UserID, editorID)
	if err != nil {
		return nil, fmt.Errorf("editor_service_unfollow_failed: %w", err)
	}
	if removed {
		ctxutil.GetLogger(ctx).InfoContext(ctx, "editor_unfollowed", slog.String("editor_id", editorID))
	}

	return service.state(ctx, editorID, false)
}

// IsFollowing reports whether actor follows editorID.
func (service *Service) IsFollowing(ctx context.Context, actor *sec.Identity, editorID string) (bool, error) {
	editorID = strings.TrimSpace(editorID)
	if editorID == "" {
		return false, requiredEditorID()
	}
	return service.repo.IsFollowing(ctx, actor.UserID, editorID)
}

// checkTarget validates a follow target. Follows require the editor role;
// unfollows only require the account to exist so a demoted editor can still
// be unfollowed.
func (service *Service) checkTarget(ctx context.Context, actor *sec.Identity, editorID string, requireEditor bool) (string, error) {
	editorID = strings.TrimSpace(editorID)
	if editorID == "" {
		return "", requiredEditorID()
	}
	if editorID == actor.UserID {
		return "", apperr.ValidationError("You cannot follow yourself",
			apperr.FieldError{Field: FieldEditorID, Message: "Must not be your own id"})
	}

	role, err := service.repo.FindRole(ctx, editorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound(resourceName)
		}
		return "", err
	}
	if requireEditor && role != sec.RoleEditor {
		return "", apperr.NotFound(resourceName)
	}
	return editorID, nil
}

func (service *Service) state(ctx context.Context, editorID string, following bool) (*FollowState, error) {
	followers, err := service.repo.CountFollowers(ctx, editorID)
	if err != nil {
		return nil, fmt.Errorf("editor_service_count_failed: %w", err)
	}
	return &FollowState{IsFollowing: following, Followers: followers}, nil
}

func requiredEditorID() error {
	return apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: FieldEditorID, Message: "This field is required"})
}

func withSuccessRate(editors ...*Editor) {
	for _, editor := range editors {
		editor.Stats.SuccessRate = SuccessRate(editor.Stats.Won, editor.Stats.Lost)
	}
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/pkg/slug"
	"github.com/taibuivan/tahmin/pkg/uuid"
)

// Service implements article use cases.
type Service struct {
	repo      Repository
	publisher events.Publisher
}

// NewService constructs a new article [Service].
func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// CreateInput carries the fields of a new article.
type CreateInput struct {
	Title    string
	Content  string
	ImageURL string
}

// UpdateInput carries a partial article update; nil fields are left unchanged.
type UpdateInput struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// # Retrieval

// ListArticles returns a page of articles matching filter.
func (service *Service) ListArticles(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	articles, total, err := service.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("article_service_list_failed: %w", err)
	}
	return articles, total, nil
}

// GetArticle returns a single article by id.
func (service *Service) GetArticle(ctx context.Context, id string) (*Article, error) {
	return service.repo.FindByID(ctx, id)
}

// # Mutation

/*
CreateArticle publishes a new article authored by actor.

The slug is derived from the title and suffixed with a short random id so two
articles with the same title never collide.
*/
func (service *Service) CreateArticle(ctx context.Context, actor *sec.Identity, input CreateInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)

	article := &Article{
		ID:       uuid.New(),
		AuthorID: actor.UserID,
		Title:    title,
		Slug:     buildSlug(title),
		Content:  input.Content,
		ImageURL: strings.TrimSpace(input.ImageURL),
	}

	if err := service.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("article_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "article_created",
		slog.String("article_id", article.ID),
		slog.String("author_id", article.AuthorID),
	)

	events.Emit(ctx, service.publisher, events.TypeArticlePublished, map[string]string{
		"articleId": article.ID,
		"authorId":  article.AuthorID,
	})

	return service.repo.FindByID(ctx, article.ID)
}

// UpdateArticle applies input to the article when actor owns it or is an admin.
func (service *Service) UpdateArticle(ctx context.Context, actor *sec.Identity, id string, input UpdateInput) (*Article, error) {
	article, err := service.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.ImageURL != nil {
		article.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	if err := service.repo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("article_service_update_failed: %w", err)
	}
	return article, nil
}

// DeleteArticle removes the article when actor owns it or is an admin.
func (service *Service) DeleteArticle(ctx context.Context, actor *sec.Identity, id string) error {
	if _, err := service.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("article_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "article_deleted", slog.String("article_id", id))
	return nil
}

// authorize loads the article and applies the owner-or-admin policy.
func (service *Service) authorize(ctx context.Context, actor *sec.Identity, id string) (*Article, error) {
	article, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sec.CanModify(actor, article.AuthorID) {
		return nil, apperr.Forbidden("You can only modify your own articles")
	}
	return article, nil
}

// buildSlug appends a short id to the title slug. Folding can expand a
// letter (ß becomes ss), so the base is cut to leave room for the suffix.
func buildSlug(title string) string {
	suffix := uuid.Short()
	base := slug.From(title)
	if limit := MaxSlugLength - len(suffix) - 1; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

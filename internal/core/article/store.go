// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import "context"

// Repository defines the persistence contract for articles.
type Repository interface {
	// List returns one page of articles, newest first, plus the total count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error)

	// FindByID returns the article with its author summary.
	FindByID(ctx context.Context, id string) (*Article, error)

	// Create persists a new article and fills in its timestamps.
	Create(ctx context.Context, article *Article) error

	// Update writes the mutable fields of article and refreshes UpdatedAt.
	Update(ctx context.Context, article *Article) error

	// Delete removes an article by id.
	Delete(ctx context.Context, id string) error
}

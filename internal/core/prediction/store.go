// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prediction

import "context"

// Repository defines the persistence contract for predictions and matches.
type Repository interface {
	// List returns one page of predictions, newest first, with match and author summaries.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Prediction, int, error)

	// FindByID returns a prediction with its match and author summaries.
	FindByID(ctx context.Context, id string) (*Prediction, error)

	// Create persists prediction. When match is non-nil it is upserted first
	// (by ExternalID when set) in the same transaction and prediction.MatchID
	// is set to the stored match id.
	Create(ctx context.Context, prediction *Prediction, match *Match) error

	// Update writes the editable fields of prediction.
	Update(ctx context.Context, prediction *Prediction) error

	// UpdateStatus settles a prediction.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Delete removes a prediction by id.
	Delete(ctx context.Context, id string) error

	// FindMatchByID returns a single match.
	FindMatchByID(ctx context.Context, id string) (*Match, error)
}

// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/events"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/pkg/uuid"
)

// Service implements prediction and match use cases.
type Service struct {
	repo      Repository
	publisher events.Publisher
}

// NewService constructs a new prediction [Service].
func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// CreateInput carries a new prediction. Exactly one of MatchID or Match is set.
type CreateInput struct {
	MatchID    string
	Match      *Match
	Title      string
	Content    string
	Pick       string
	Odds       float64
	Confidence int
}

// UpdateInput carries a partial prediction update; nil fields are left unchanged.
type UpdateInput struct {
	Title      *string
	Content    *string
	Pick       *string
	Odds       *float64
	Confidence *int
}

// publishedEvent is the payload of prediction.published and prediction.settled.
type publishedEvent struct {
	PredictionID string `json:"predictionId"`
	AuthorID     string `json:"authorId"`
	MatchID      string `json:"matchId"`
	Status       Status `json:"status"`
}

// # Retrieval

// ListPredictions returns a page of predictions matching filter.
func (service *Service) ListPredictions(ctx context.Context, filter Filter, limit, offset int) ([]*Prediction, int, error) {
	predictions, total, err := service.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("prediction_service_list_failed: %w", err)
	}
	return predictions, total, nil
}

// GetPrediction returns a single prediction by id.
func (service *Service) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	return service.repo.FindByID(ctx, id)
}

// GetMatch returns a single match by id.
func (service *Service) GetMatch(ctx context.Context, id string) (*Match, error) {
	return service.repo.FindMatchByID(ctx, id)
}

// # Mutation

/*
CreatePrediction publishes a new PENDING prediction authored by actor.

When input carries an inline match it is upserted in the same transaction as
the prediction.
*/
func (service *Service) CreatePrediction(ctx context.Context, actor *sec.Identity, input CreateInput) (*Prediction, error) {
	if (input.MatchID == "") == (input.Match == nil) {
		return nil, apperr.ValidationError("Provide either matchId or match",
			apperr.FieldError{Field: FieldMatchID, Message: "Exactly one of matchId or match is required"})
	}

	prediction := &Prediction{
		ID:         uuid.New(),
		AuthorID:   actor.UserID,
		MatchID:    input.MatchID,
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		Pick:       strings.TrimSpace(input.Pick),
		Odds:       input.Odds,
		Confidence: input.Confidence,
		Status:     StatusPending,
	}

	if err := service.repo.Create(ctx, prediction, input.Match); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("prediction_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "prediction_created",
		slog.String("prediction_id", prediction.ID),
		slog.String("match_id", prediction.MatchID),
	)

	events.Emit(ctx, service.publisher, events.TypePredictionPublished, publishedEvent{
		PredictionID: prediction.ID,
		AuthorID:     prediction.AuthorID,
		MatchID:      prediction.MatchID,
		Status:       prediction.Status,
	})

	return service.repo.FindByID(ctx, prediction.ID)
}

// UpdatePrediction applies input when actor owns the prediction or is an admin.
func (service *Service) UpdatePrediction(ctx context.Context, actor *sec.Identity, id string, input UpdateInput) (*Prediction, error) {
	prediction, err := service.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		prediction.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		prediction.Content = *input.Content
	}
	if input.Pick != nil {
		prediction.Pick = strings.TrimSpace(*input.Pick)
	}
	if input.Odds != nil {
		prediction.Odds = *input.Odds
	}
	if input.Confidence != nil {
		prediction.Confidence = *input.Confidence
	}

	if err := service.repo.Update(ctx, prediction); err != nil {
		return nil, fmt.Errorf("prediction_service_update_failed: %w", err)
	}
	return prediction, nil
}

// SettlePrediction sets the status when actor owns the prediction or is an admin.
func (service *Service) SettlePrediction(ctx context.Context, actor *sec.Identity, id string, status Status) (*Prediction, error) {
	prediction, err := service.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("prediction_service_settle_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "prediction_settled",
		slog.String("prediction_id", id),
		slog.String("from", string(prediction.Status)),
		slog.String("to", string(status)),
	)

	if status != StatusPending {
		events.Emit(ctx, service.publisher, events.TypePredictionSettled, publishedEvent{
			PredictionID: prediction.ID,
			AuthorID:     prediction.AuthorID,
			MatchID:      prediction.MatchID,
			Status:       status,
		})
	}

	return service.repo.FindByID(ctx, id)
}

// DeletePrediction removes the prediction when actor owns it or is an admin.
func (service *Service) DeletePrediction(ctx context.Context, actor *sec.Identity, id string) error {
	if _, err := service.authorize(ctx, actor, id); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("prediction_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "prediction_deleted", slog.String("prediction_id", id))
	return nil
}

// authorize loads the prediction and applies the owner-or-admin policy.
func (service *Service) authorize(ctx context.Context, actor *sec.Identity, id string) (*Prediction, error) {
	prediction, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sec.CanModify(actor, prediction.AuthorID) {
		return nil, apperr.Forbidden("You can only modify your own predictions")
	}
	return prediction, nil
}

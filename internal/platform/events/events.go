// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events publishes domain events (a prediction was published, a role
changed, an editor gained a follower) for downstream consumers such as
notification workers.

Publishing is fire-and-forget from the request's point of view: a broker
outage is logged and never fails the HTTP request that produced the event.
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
)

// # Event Types

const (
	TypePredictionPublished = "prediction.published"
	TypePredictionSettled   = "prediction.settled"
	TypeUserRoleChanged     = "user.role_changed"
	TypeEditorFollowed      = "editor.followed"
	TypeArticlePublished    = "article.published"
)

// Event is the envelope written to the broker.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	RequestID  string    `json:"requestId,omitempty"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Backend sends one serialized message. Implemented by [RabbitMQBackend].
type Backend interface {
	Publish(ctx context.Context, body []byte, headers map[string]string) error
	Close() error
}

// BrokerPublisher serializes events as JSON and hands them to a [Backend].
type BrokerPublisher struct {
	backend Backend
}

// NewBrokerPublisher creates a BrokerPublisher.
func NewBrokerPublisher(backend Backend) *BrokerPublisher {
	return &BrokerPublisher{backend: backend}
}

// Publish implements Publisher.
func (p *BrokerPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Type, err)
	}
	return p.backend.Publish(ctx, body, map[string]string{"type": event.Type})
}

// Close releases the backend.
func (p *BrokerPublisher) Close() error {
	return p.backend.Close()
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, Event) error { return nil }

// Emit builds an event and publishes it, logging instead of returning failures.
func Emit(ctx context.Context, publisher Publisher, eventType string, payload any) {
	if publisher == nil {
		return
	}

	event := Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		RequestID:  ctxutil.GetRequestID(ctx),
		Payload:    payload,
	}

	if err := publisher.Publish(ctx, event); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "event_publish_failed",
			slog.String("type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

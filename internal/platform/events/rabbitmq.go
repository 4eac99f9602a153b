// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQBackend publishes to a single durable queue.
type RabbitMQBackend struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewRabbitMQBackend dials url and declares queue.
func NewRabbitMQBackend(url, queue string) (*RabbitMQBackend, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("events: rabbitmq url is required")
	}
	if strings.TrimSpace(queue) == "" {
		return nil, errors.New("events: queue name is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: queue declare failed: %w", err)
	}

	return &RabbitMQBackend{conn: conn, channel: ch, queue: queue}, nil
}

// Publish implements Backend. amqp channels are not safe for concurrent publishing.
func (r *RabbitMQBackend) Publish(ctx context.Context, body []byte, headers map[string]string) error {
	table := amqp.Table{}
	for key, value := range headers {
		table[key] = value
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.channel.PublishWithContext(ctx, "", r.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Headers:      table,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("events: publish failed: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (r *RabbitMQBackend) Close() error {
	var errs []error
	if r.channel != nil {
		errs = append(errs, r.channel.Close())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}

// Package webhook hands license events to the external webhook delivery
// service via Redis pub/sub. Signing and retry live in the delivery service;
// this side only publishes.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// Event is the wire format handed to the delivery service
type Event struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Sub           string         `json:"sub"`
	TenantID      string         `json:"tenant_id"`
	ApplicationID string         `json:"application_id"`
	Payload       map[string]any `json:"payload,omitempty"`
	OccurredAt    int64          `json:"occurred_at"`
}

// Emitter publishes license events for webhook delivery
type Emitter interface {
	Emit(ctx context.Context, name, sub, tenantSID, applicationSID string, payload map[string]any) error
}

// RedisEmitter implements Emitter over Redis pub/sub
type RedisEmitter struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

// NewRedisEmitter creates a new Redis-based webhook emitter
func NewRedisEmitter(client *redis.Client, channel string, log logger.Interface) *RedisEmitter {
	return &RedisEmitter{
		client:  client,
		channel: channel,
		logger:  log,
	}
}

// Emit publishes one event. Callers run this post-commit and treat failures
// as best-effort; the error return exists for logging only.
func (e *RedisEmitter) Emit(ctx context.Context, name, sub, tenantSID, applicationSID string, payload map[string]any) error {
	event := Event{
		ID:            "evt_" + uuid.NewString(),
		Name:          name,
		Sub:           sub,
		TenantID:      tenantSID,
		ApplicationID: applicationSID,
		Payload:       payload,
		OccurredAt:    time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	if err := e.client.Publish(ctx, e.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event: %w", err)
	}

	e.logger.Debugw("webhook event published",
		"event_id", event.ID,
		"name", name,
		"tenant_id", tenantSID)

	return nil
}

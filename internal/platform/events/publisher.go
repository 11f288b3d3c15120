// Package events provides a fire-and-forget NATS publisher for engagement
// events. Every counter mutation in the service emits one of these so that
// downstream consumers (event log, future reconciliation jobs) can observe
// engagement without sitting on the request path.
package events

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject constants for every engagement event type.
const (
	// SubjectAll matches every engagement subject; the archive worker
	// subscribes to it.
	SubjectAll = "engagement.>"

	SubjectVideoLiked        = "engagement.video.reacted"
	SubjectVideoViewed       = "engagement.video.viewed"
	SubjectVideoUploaded     = "engagement.video.uploaded"
	SubjectVideoDeleted      = "engagement.video.deleted"
	SubjectCommentCreated    = "engagement.comment.created"
	SubjectCommentEdited     = "engagement.comment.edited"
	SubjectCommentDeleted    = "engagement.comment.deleted"
	SubjectCommentReacted    = "engagement.comment.reacted"
	SubjectUserSubscribed    = "engagement.user.subscribed"
	SubjectSubscriptionDrift = "engagement.subscription.drift"
)

const streamName = "ENGAGEMENT_EVENTS"

// Event is the canonical envelope sent to all engagement.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	ActorID    string         `json:"actor_id,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes engagement events to NATS JetStream.
// The zero value and a nil pointer are both safe no-op stubs.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
}

// New creates a Publisher using an existing JetStream context.
// Pass js=nil to get a no-op stub (useful in tests and runs without NATS).
func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	return &Publisher{js: js, log: log}
}

// EnsureStream creates the engagement stream if it does not exist yet.
func EnsureStream(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(streamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{SubjectAll},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	return err
}

// Publish sends an engagement event asynchronously (fire-and-forget).
// Failures are logged as warnings and never surface to the caller.
// The publisher is safe to call with a nil receiver.
func (p *Publisher) Publish(subject, eventName, actorID, entityID string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		ActorID:    actorID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

// Package worker consumes the engagement event stream and archives every
// event into Postgres. The archive feeds offline analytics and the
// subscription drift reconciliation; the event_id primary key makes redelivery
// a no-op.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/video-platform/internal/platform/events"
)

const (
	durableName   = "engagement_archiver"
	batchSize     = 100
	batchInterval = 2 * time.Second
)

// StartArchiver subscribes to engagement.> and archives batches until ctx is
// cancelled. It returns once the subscription is established; the loop runs in
// its own goroutine.
func StartArchiver(ctx context.Context, js nats.JetStreamContext, pool *pgxpool.Pool, log *zap.Logger) error {
	sub, err := js.PullSubscribe(events.SubjectAll, durableName)
	if err != nil {
		return err
	}

	go func() {
		defer func() { _ = sub.Unsubscribe() }()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			msgs, err := sub.Fetch(batchSize, nats.MaxWait(batchInterval))
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("event fetch failed", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			if len(msgs) == 0 {
				continue
			}

			if err := archiveBatch(ctx, pool, msgs); err != nil {
				log.Warn("event batch archive failed", zap.Error(err), zap.Int("batch", len(msgs)))
				nakAll(msgs, log)
				continue
			}
			for _, m := range msgs {
				if err := m.Ack(); err != nil {
					log.Warn("event ack failed", zap.Error(err))
				}
			}
		}
	}()
	return nil
}

// archiveBatch inserts one fetched batch in a single transaction. Events seen
// before hit the event_id conflict and are skipped.
func archiveBatch(ctx context.Context, pool *pgxpool.Pool, msgs []*nats.Msg) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, m := range msgs {
		var ev events.Event
		if err := json.Unmarshal(m.Data, &ev); err != nil || ev.EventID == "" {
			// Malformed events are dropped, not retried forever.
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO engagement_events (event_id, subject, event_name, actor_id, entity_id, occurred_at, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (event_id) DO NOTHING`,
			ev.EventID, m.Subject, ev.EventName, ev.ActorID, ev.EntityID, ev.OccurredAt, m.Data,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func nakAll(msgs []*nats.Msg, log *zap.Logger) {
	for _, m := range msgs {
		if err := m.Nak(); err != nil {
			log.Warn("event nak failed", zap.Error(err))
		}
	}
}

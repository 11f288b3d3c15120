package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/video-platform/internal/platform/events"
	"github.com/example/video-platform/services/engagement/internal/reaction"
	"github.com/example/video-platform/services/engagement/internal/store"
)

// SubscriptionState is the outcome of a subscription toggle.
type SubscriptionState struct {
	Subscribed      bool  `json:"subscribed"`
	SubscriberCount int64 `json:"subscriber_count"`
}

// ToggleSubscription flips the actor's subscription to a channel.
//
// The subscriber's channel list is the source of truth and is written first,
// guarded by the version. The channel's subscriber count is a derived counter
// adjusted relatively in a second write; if that second write fails the two
// entities have drifted and the call reports it instead of pretending success.
func (s *Service) ToggleSubscription(ctx context.Context, channelID string, actor Actor) (SubscriptionState, error) {
	if _, err := s.users.Get(ctx, channelID); err != nil {
		return SubscriptionState{}, err
	}

	for attempt := 0; attempt < conflictRetries; attempt++ {
		u, err := s.users.Get(ctx, actor.ID)
		if err != nil {
			return SubscriptionState{}, err
		}

		channels, delta, err := reaction.ToggleSubscription(u.SubscribedChannels, actor.ID, channelID)
		if errors.Is(err, reaction.ErrSelfSubscribe) {
			return SubscriptionState{}, fmt.Errorf("%w: cannot subscribe to yourself", store.ErrForbidden)
		}
		if err != nil {
			return SubscriptionState{}, err
		}

		if _, err := s.users.SaveChannels(ctx, u.ID, u.Version, channels); err != nil {
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			return SubscriptionState{}, err
		}

		count, err := s.users.AdjustSubscriberCount(ctx, channelID, delta)
		if err != nil {
			// The channel list committed but the counter did not. Flag the
			// drift for the reconciliation consumer and fail loudly.
			s.log.Error("subscriber count drifted after channel list write",
				zap.String("subscriber_id", actor.ID),
				zap.String("channel_id", channelID),
				zap.Int64("delta", delta),
				zap.Error(err))
			s.events.Publish(events.SubjectSubscriptionDrift, "subscription_drift", actor.ID, channelID,
				map[string]any{"delta": delta})
			return SubscriptionState{}, fmt.Errorf("%w: subscriber count update failed", store.ErrUnavailable)
		}

		subscribed := delta > 0
		name := "user_unsubscribed"
		if subscribed {
			name = "user_subscribed"
		}
		s.events.Publish(events.SubjectUserSubscribed, name, actor.ID, channelID,
			map[string]any{"subscriber_count": count})
		return SubscriptionState{Subscribed: subscribed, SubscriberCount: count}, nil
	}
	return SubscriptionState{}, store.ErrConflict
}

package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Publisher is the part of a Redis client used for publishing.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisNotifier publishes every notification as JSON on a channel. Publish
// errors are logged and dropped.
type RedisNotifier struct {
	pub     Publisher
	channel string
}

func NewRedisNotifier(pub Publisher, channel string) *RedisNotifier {
	return &RedisNotifier{pub: pub, channel: channel}
}

func (r *RedisNotifier) Notify(ctx context.Context, n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode notification")
		return
	}
	if err := r.pub.Publish(ctx, r.channel, payload).Err(); err != nil {
		log.Warn().Err(err).Str("channel", r.channel).Msg("failed to publish notification")
		return
	}
	log.Debug().Str("channel", r.channel).Str("title", n.Title).Msg("notification published")
}

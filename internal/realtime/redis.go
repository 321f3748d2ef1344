package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisPublisher broadcasts workout updates over Redis pub/sub, one channel
// per session.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher wraps an existing Redis client. The caller owns the
// client's lifecycle when sharing it; Close here closes it.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// ChannelFor returns the pub/sub channel name for a session.
func ChannelFor(sessionID fmt.Stringer) string {
	return "workout:" + sessionID.String()
}

func (p *RedisPublisher) Publish(ctx context.Context, update WorkoutUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling workout update: %w", err)
	}
	if err := p.rdb.Publish(ctx, ChannelFor(update.WorkoutSessionID), payload).Err(); err != nil {
		return fmt.Errorf("publishing workout update: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

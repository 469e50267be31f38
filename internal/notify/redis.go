package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "knowbase:notify:"

// RedisPublisher pushes events through a Redis channel per client id, for
// deployments where the routing layer runs in a different process than the
// ingestion worker.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(addr string) *RedisPublisher {
	return &RedisPublisher{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (p *RedisPublisher) Publish(ctx context.Context, clientID string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notify event: %w", err)
	}
	if err := p.rdb.Publish(ctx, channelPrefix+clientID, payload).Err(); err != nil {
		return fmt.Errorf("publish notify event: %w", err)
	}
	return nil
}

// Subscribe bridges the Redis channel back onto an Event channel, matching
// the MemoryHub connect lifecycle.
func (p *RedisPublisher) Subscribe(ctx context.Context, clientID string) (<-chan Event, func()) {
	sub := p.rdb.Subscribe(ctx, channelPrefix+clientID)
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()
	return out, func() { _ = sub.Close() }
}

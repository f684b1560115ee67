package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channel = "campaign_events"

// RedisPublisher broadcasts events over a Redis channel so every API
// instance can fan them out to its websocket clients.
type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.log.Error("publishing event", zap.String("type", e.Type), zap.Error(err))
		return err
	}
	return nil
}

// Subscriber consumes the events channel and hands each decoded event to a
// handler. Run blocks until the context is cancelled.
type Subscriber struct {
	client *redis.Client
	log    *zap.Logger
}

func NewSubscriber(client *redis.Client, log *zap.Logger) *Subscriber {
	return &Subscriber{client: client, log: log}
}

func (s *Subscriber) Run(ctx context.Context, handler func(Event)) error {
	sub := s.client.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				s.log.Warn("malformed event payload", zap.Error(err))
				continue
			}
			handler(e)
		}
	}
}

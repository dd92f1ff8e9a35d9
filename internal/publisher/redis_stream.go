package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream receives one entry per game stored by a load.
const DefaultStream = "games.loaded.retrosheet"

// GameLoaded is the payload published for each newly stored game.
type GameLoaded struct {
	ID         string `json:"id"`
	Home       string `json:"home"`
	Year       string `json:"year"`
	Events     int    `json:"events"`
	RunID      string `json:"run_id"`
	SourceFile string `json:"source_file"`
}

// RedisStreamPublisher publishes load notifications to a Redis stream
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	owned  bool
}

// NewRedisStreamPublisher creates a publisher from an existing client
func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
	}
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(redisURL, stream string) (*RedisStreamPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	p := NewRedisStreamPublisher(client, stream)
	p.owned = true
	return p, nil
}

// Stream returns the stream name entries are added to.
func (p *RedisStreamPublisher) Stream() string {
	return p.stream
}

// Close closes the Redis connection when the publisher opened it.
func (p *RedisStreamPublisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.client.Close()
}

// PublishGameLoaded adds evt to the stream.
func (p *RedisStreamPublisher) PublishGameLoaded(ctx context.Context, evt GameLoaded) error {
	args, err := streamArgs(p.stream, evt, time.Now())
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish game %s: %w", evt.ID, err)
	}
	return nil
}

func streamArgs(stream string, payload any, now time.Time) (*redis.XAddArgs, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stream payload: %w", err)
	}
	return &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": now.Unix(),
		},
	}, nil
}

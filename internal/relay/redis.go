// Package relay mirrors published frames to external systems so overlays
// running on other hosts can follow a session.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// DefaultPrefix namespaces every key and channel written by the relay.
const DefaultPrefix = "emuhud"

// RedisOptions configures a RedisPublisher.
type RedisOptions struct {
	Prefix string
	// TTL bounds how long the latest frame survives without updates. Zero
	// keeps it until overwritten.
	TTL time.Duration
}

// RedisPublisher stores the latest frame of each theme under
// "<prefix>:frame:<theme>" and publishes it on "<prefix>:frames:<theme>".
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisPublisher wraps client.
func NewRedisPublisher(client redis.UniversalClient, opts RedisOptions) *RedisPublisher {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix, ttl: opts.TTL}
}

// FrameKey returns the key holding the latest frame of themeName.
func (p *RedisPublisher) FrameKey(themeName string) string {
	return fmt.Sprintf("%s:frame:%s", p.prefix, themeName)
}

// Channel returns the pub/sub channel frames of themeName are sent on.
func (p *RedisPublisher) Channel(themeName string) string {
	return fmt.Sprintf("%s:frames:%s", p.prefix, themeName)
}

// Publish implements session.Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, f theme.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := p.client.Set(ctx, p.FrameKey(f.Theme), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("store frame: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(f.Theme), data).Err(); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

// Latest returns the stored frame of themeName. Body is decoded as generic
// JSON. The boolean is false when nothing has been stored.
func (p *RedisPublisher) Latest(ctx context.Context, themeName string) (theme.Frame, bool, error) {
	data, err := p.client.Get(ctx, p.FrameKey(themeName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return theme.Frame{}, false, nil
	}
	if err != nil {
		return theme.Frame{}, false, fmt.Errorf("load frame: %w", err)
	}
	var f theme.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return theme.Frame{}, false, fmt.Errorf("decode frame: %w", err)
	}
	return f, true, nil
}

// Dial parses url, connects and pings the server within timeout.
func Dial(ctx context.Context, url string, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

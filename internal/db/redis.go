// Package db holds the console's only piece of server-side state: the
// short-lived Redis store for cross-navigation edit handoffs.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/wizard"
)

// HandoffStore keeps stashed edit handoffs keyed by an opaque token. Values
// are plain JSON and expire after a TTL; Take removes on read so a handoff is
// consumed exactly once.
type HandoffStore struct {
	Client *redis.Client
}

// InitRedis connects to Redis and returns a HandoffStore.
func InitRedis(addr string) (*HandoffStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return &HandoffStore{Client: client}, nil
}

// NewHandoffStore wraps an existing client, used by tests with miniredis.
func NewHandoffStore(client *redis.Client) *HandoffStore {
	return &HandoffStore{Client: client}
}

func handoffKey(token string) string {
	return "handoff:campaign:" + token
}

// Put stashes a handoff under the token for at most ttl.
func (s *HandoffStore) Put(ctx context.Context, token string, h wizard.EditHandoff, ttl time.Duration) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal handoff: %w", err)
	}
	if err := s.Client.Set(ctx, handoffKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store handoff: %w", err)
	}
	return nil
}

// Take returns the handoff stored under the token and deletes it in the same
// call. A missing or expired token yields (nil, nil).
func (s *HandoffStore) Take(ctx context.Context, token string) (*wizard.EditHandoff, error) {
	payload, err := s.Client.GetDel(ctx, handoffKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("take handoff: %w", err)
	}
	var h wizard.EditHandoff
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, fmt.Errorf("decode handoff: %w", err)
	}
	return &h, nil
}

// Close releases the underlying client.
func (s *HandoffStore) Close() error {
	return s.Client.Close()
}

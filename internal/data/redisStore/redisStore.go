package redisStore

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

type Store struct {
	client *redis.Client
	Type   int
	logger *logger_i.Logger
}

// New connects to one logical redis database and checks it is reachable.
func New(ctx context.Context, addr, password string, dbType int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis at %s is offline: %w", addr, err)
	}

	logger := logger_i.NewLogger("Redis Store").With("db", dbType)
	logger.Info("Redis store initialised")
	return &Store{client: client, Type: dbType, logger: logger}, nil
}

// NewFromClient wraps an existing client, which tests point at miniredis.
func NewFromClient(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("Redis Store"),
	}
}

func (s *Store) Close() error {
	s.logger.Info("Closing Redis Store")
	return s.client.Close()
}

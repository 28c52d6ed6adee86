package redis

import (
	"context"
	"fmt"

	"github.com/courierhub/labelqr/internal/adapters/database/redis/renders"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Renders *renders.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
	// RendersDB is the database number that holds the render cache.
	RendersDB int
}

func New(ctx context.Context, opts Options) (*Client, error) {
	rendersStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.RendersDB,
	})
	if err := rendersStorage.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping renders storage: %w", err)
	}

	return &Client{
		Renders: renders.NewStorage(rendersStorage),
	}, nil
}

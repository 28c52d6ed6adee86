package renders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/courierhub/labelqr/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "render:"

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Get returns the cached render for key. A miss is reported with ok == false
// and a nil error.
func (s *Storage) Get(ctx context.Context, key string) (render entity.CachedRender, ok bool, err error) {
	data, err := s.redis.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.CachedRender{}, false, nil
	}
	if err != nil {
		return entity.CachedRender{}, false, err
	}

	if err = json.Unmarshal(data, &render); err != nil {
		return entity.CachedRender{}, false, err
	}
	return render, true, nil
}

func (s *Storage) Set(ctx context.Context, key string, render entity.CachedRender, expiration time.Duration) error {
	data, err := json.Marshal(render)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, keyPrefix+key, data, expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, key string) error {
	return s.redis.Del(ctx, keyPrefix+key).Err()
}

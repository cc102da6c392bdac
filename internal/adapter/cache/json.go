package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seu-repo/appliance-store/internal/ports"
)

// LoadJSON reads key into a T. A miss returns (nil, nil).
func LoadJSON[T any](ctx context.Context, c ports.Cache, key string) (*T, error) {
	raw, err := c.Get(ctx, key)
	if errors.Is(err, ports.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return &v, nil
}

func StoreJSON(ctx context.Context, c ports.Cache, key string, v any, expiration time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, string(data), expiration)
}

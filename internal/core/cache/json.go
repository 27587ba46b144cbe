package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Loader LoadJSON 需要的最小能力
type Loader interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
}

// LoadJSON 以 JSON 形式缓存 load 的结果；缓存内容无法解码时直接回源
func LoadJSON[T any](ctx context.Context, c Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return load(ctx)
	}
	return v, nil
}

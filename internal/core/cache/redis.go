package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb, Prefix: "user-admin"}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) key(k string) string {
	if c.Prefix == "" {
		return k
	}
	return c.Prefix + ":" + k
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	full := c.key(key)
	// 先读缓存；redis 出错也直接回源
	if b, err := c.RDB.Get(ctx, full).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(full, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, full, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Generation 命名空间当前代号；不存在视为 0
func (c *Cache) Generation(ctx context.Context, ns string) (int64, error) {
	n, err := c.RDB.Get(ctx, c.key(ns+":gen")).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Bump 代号 +1，旧代号下的 key 自然过期
func (c *Cache) Bump(ctx context.Context, ns string) error {
	return c.RDB.Incr(ctx, c.key(ns+":gen")).Err()
}

// GenKey ns:v{gen}:suffix
func GenKey(ns string, gen int64, suffix string) string {
	return fmt.Sprintf("%s:v%d:%s", ns, gen, suffix)
}

package cache

import (
	"context"
	"time"
)

// JSON で値を出し入れするキャッシュ。
// Get はキーが無ければ (false, nil)。
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// REDIS_ADDR 未設定のときに使う。常にミス。
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) { return false, nil }
func (NopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (NopCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (NopCache) Ping(ctx context.Context) error                   { return nil }

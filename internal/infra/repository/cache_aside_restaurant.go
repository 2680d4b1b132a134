package repository

import (
	"context"
	"fmt"
	"time"

	"delivery/internal/domain/model"
	"delivery/internal/infra/cache"
	repo "delivery/internal/repository"

	"github.com/rs/zerolog"
)

const activeRestaurantsKey = "restaurants:active"

func restaurantKey(id int64) string {
	return fmt.Sprintf("restaurant:%d", id)
}

// CacheAsideRestaurantRepo は読み取りをキャッシュし、書き込み後にキーを消す。
// キャッシュの失敗はログだけ残して DB の結果を返す。
type CacheAsideRestaurantRepo struct {
	repo.RestaurantRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheAsideRestaurantRepo(db repo.RestaurantRepository, c cache.Cache, ttl time.Duration) repo.RestaurantRepository {
	return &CacheAsideRestaurantRepo{RestaurantRepository: db, cache: c, ttl: ttl}
}

func (r *CacheAsideRestaurantRepo) FindByID(ctx context.Context, id int64) (model.Restaurant, error) {
	var cached model.Restaurant
	hit, err := r.cache.Get(ctx, restaurantKey(id), &cached)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("restaurant_id", id).Msg("cache get failed")
	}
	if hit {
		return cached, nil
	}

	rest, err := r.RestaurantRepository.FindByID(ctx, id)
	if err != nil {
		return model.Restaurant{}, err
	}
	if err := r.cache.Set(ctx, restaurantKey(id), rest, r.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("restaurant_id", id).Msg("cache set failed")
	}
	return rest, nil
}

func (r *CacheAsideRestaurantRepo) ListActive(ctx context.Context) ([]model.Restaurant, error) {
	var cached []model.Restaurant
	hit, err := r.cache.Get(ctx, activeRestaurantsKey, &cached)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache get failed")
	}
	if hit {
		return cached, nil
	}

	items, err := r.RestaurantRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, activeRestaurantsKey, items, r.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache set failed")
	}
	return items, nil
}

func (r *CacheAsideRestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	if err := r.RestaurantRepository.Create(ctx, rest); err != nil {
		return err
	}
	r.evict(ctx, activeRestaurantsKey)
	return nil
}

func (r *CacheAsideRestaurantRepo) Update(ctx context.Context, rest model.Restaurant) error {
	if err := r.RestaurantRepository.Update(ctx, rest); err != nil {
		return err
	}
	r.evict(ctx, restaurantKey(rest.ID), activeRestaurantsKey)
	return nil
}

// id が 0 なら一覧だけ消す（作成時）
func (r *CacheAsideRestaurantRepo) InvalidateRestaurant(ctx context.Context, id int64) {
	if id > 0 {
		r.evict(ctx, restaurantKey(id), activeRestaurantsKey)
		return
	}
	r.evict(ctx, activeRestaurantsKey)
}

func (r *CacheAsideRestaurantRepo) evict(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Strs("keys", keys).Msg("cache evict failed")
	}
}

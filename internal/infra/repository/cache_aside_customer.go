package repository

import (
	"context"
	"time"

	"delivery/internal/domain/model"
	"delivery/internal/infra/cache"
	repo "delivery/internal/repository"

	"github.com/rs/zerolog"
)

const activeCustomersKey = "customers:active"

// 有効な顧客一覧だけをキャッシュする。作成・更新で破棄。
type CacheAsideCustomerRepo struct {
	repo.CustomerRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheAsideCustomerRepo(db repo.CustomerRepository, c cache.Cache, ttl time.Duration) repo.CustomerRepository {
	return &CacheAsideCustomerRepo{CustomerRepository: db, cache: c, ttl: ttl}
}

func (r *CacheAsideCustomerRepo) ListActive(ctx context.Context) ([]model.Customer, error) {
	var cached []model.Customer
	hit, err := r.cache.Get(ctx, activeCustomersKey, &cached)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache get failed")
	}
	if hit {
		return cached, nil
	}

	items, err := r.CustomerRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, activeCustomersKey, items, r.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache set failed")
	}
	return items, nil
}

func (r *CacheAsideCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	if err := r.CustomerRepository.Create(ctx, c); err != nil {
		return err
	}
	r.evict(ctx)
	return nil
}

func (r *CacheAsideCustomerRepo) Update(ctx context.Context, c model.Customer) error {
	if err := r.CustomerRepository.Update(ctx, c); err != nil {
		return err
	}
	r.evict(ctx)
	return nil
}

func (r *CacheAsideCustomerRepo) evict(ctx context.Context) {
	if err := r.cache.Delete(ctx, activeCustomersKey); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache evict failed")
	}
}

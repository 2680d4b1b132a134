package repository

import (
	"context"

	"delivery/internal/domain/model"
)

type RestaurantListFilter struct {
	Category string
	Active   *bool
	Page     PageQuery
}

type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) error
	FindByID(ctx context.Context, id int64) (model.Restaurant, error)
	//名前の重複チェック用（大文字小文字は区別しない）
	FindByName(ctx context.Context, name string) (model.Restaurant, bool, error)
	List(ctx context.Context, f RestaurantListFilter) ([]model.Restaurant, int64, error)
	ListActive(ctx context.Context) ([]model.Restaurant, error)
	ListActiveByCategory(ctx context.Context, category string) ([]model.Restaurant, error)
	Update(ctx context.Context, r model.Restaurant) error
}

// キャッシュ付きの実装が満たす。tx 内の書き込みはキャッシュを通らないので commit 後に呼ぶ
type RestaurantCacheInvalidator interface {
	InvalidateRestaurant(ctx context.Context, id int64)
}

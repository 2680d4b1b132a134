package repository

import (
	"context"

	"delivery/internal/domain/model"
)

// 一覧検索（等値フィルタ + ページ）
type ProductListFilter struct {
	RestaurantID *int64
	Category     string
	Available    *bool
	Page         PageQuery
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id int64) (model.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]model.Product, int64, error)

	//レストランの商品（available が nil なら全件）
	ListByRestaurant(ctx context.Context, restaurantID int64, available *bool) ([]model.Product, error)
	//カテゴリの販売中商品
	ListAvailableByCategory(ctx context.Context, category string) ([]model.Product, error)
	//名前の部分一致（販売中のみ）
	SearchAvailableByName(ctx context.Context, name string) ([]model.Product, error)

	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}

package repository

import (
	"context"

	"delivery/internal/domain/model"
)

type OrderItemRepository interface {
	//items の ID は作成後に埋まる
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	//複数注文の明細をまとめて取る（order_id -> items）
	ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error)
	Update(ctx context.Context, item model.OrderItem) error
	Delete(ctx context.Context, itemID int64) error
	ExistsByProductID(ctx context.Context, productID int64) (bool, error)
}

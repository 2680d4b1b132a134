package repository

import (
	"context"
	"time"

	"delivery/internal/domain/model"
)

type OrderListFilter struct {
	Status *model.OrderStatus
	From   *time.Time
	To     *time.Time
	Page   PageQuery
}

// 注文ヘッダーの永続化。明細は OrderItemRepository で扱う。
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id int64) (model.Order, error)
	FindByNumber(ctx context.Context, number string) (model.Order, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	//version が一致するときだけ更新し、成功したら o.Version を +1 する。
	//一致しなければ ErrVersionConflict。
	Update(ctx context.Context, o *model.Order) error

	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int64, status *model.OrderStatus) ([]model.Order, error)
}

package repository

import (
	"context"

	"delivery/internal/domain/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActive(ctx context.Context) ([]model.Customer, error)
	//名前の部分一致（大文字小文字を区別しない）
	SearchByName(ctx context.Context, name string) ([]model.Customer, error)
	Update(ctx context.Context, c model.Customer) error
}

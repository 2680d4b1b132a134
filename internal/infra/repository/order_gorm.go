package repository

import (
	"context"
	"errors"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// ヘッダーのみ作成。明細は OrderItemGormRepository.CreateBulk で入れる。
func (r *OrderGormRepository) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) FindByNumber(ctx context.Context, number string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("order_number = ?", number).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// 楽観ロック付き更新
func (r *OrderGormRepository) Update(ctx context.Context, o *model.Order) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"delivery_address": o.DeliveryAddress,
			"subtotal":         o.Subtotal,
			"delivery_fee":     o.DeliveryFee,
			"total":            o.Total,
			"notes":            o.Notes,
			"status":           o.Status,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		//存在しないのか、version がずれているのかを区別する
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", o.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repo.ErrNotFound
		}
		return repo.ErrVersionConflict
	}

	o.Version++
	o.UpdatedAt = now
	return nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	err := q.Order(f.Page.OrderClause("created_at desc")).
		Limit(f.Page.Size).
		Offset(f.Page.Offset()).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

func (r *OrderGormRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByRestaurant(ctx context.Context, restaurantID int64, status *model.OrderStatus) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var items []model.Order
	if err := q.Order("created_at desc").Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

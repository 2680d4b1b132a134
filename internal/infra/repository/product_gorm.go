package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 等値フィルタ + ページング
func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if f.RestaurantID != nil {
		tx = tx.Where("restaurant_id = ?", *f.RestaurantID)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		tx = tx.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if f.Available != nil {
		tx = tx.Where("available = ?", *f.Available)
	}

	//total（件数）
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	var products []model.Product
	err := tx.Order(f.Page.OrderClause("id asc")).
		Offset(f.Page.Offset()).
		Limit(f.Page.Size).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

func (r *ProductGormRepository) ListByRestaurant(ctx context.Context, restaurantID int64, available *bool) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if available != nil {
		tx = tx.Where("available = ?", *available)
	}

	var products []model.Product
	if err := tx.Order("name asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) ListAvailableByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(category) = ? AND available = ?", strings.ToLower(strings.TrimSpace(category)), true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) SearchAvailableByName(ctx context.Context, name string) ([]model.Product, error) {
	like := "%" + strings.TrimSpace(name) + "%"

	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? AND available = ?", like, true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 更新。false も書き込むため map で渡す（restaurant_id は変更しない）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"category":    p.Category,
			"available":   p.Available,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

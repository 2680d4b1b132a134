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

type RestaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) *RestaurantGormRepository {
	return &RestaurantGormRepository{db: db}
}

func (r *RestaurantGormRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	return translateWriteError(r.db.WithContext(ctx).Create(rest).Error)
}

func (r *RestaurantGormRepository) FindByID(ctx context.Context, id int64) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).First(&rest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *RestaurantGormRepository) FindByName(ctx context.Context, name string) (model.Restaurant, bool, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, false, nil
	}
	if err != nil {
		return model.Restaurant{}, false, err
	}
	return rest, true, nil
}

func (r *RestaurantGormRepository) List(ctx context.Context, f repo.RestaurantListFilter) ([]model.Restaurant, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Restaurant{})

	if c := strings.TrimSpace(f.Category); c != "" {
		tx = tx.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if f.Active != nil {
		tx = tx.Where("active = ?", *f.Active)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	var items []model.Restaurant
	err := tx.Order(f.Page.OrderClause("id asc")).
		Offset(f.Page.Offset()).
		Limit(f.Page.Size).
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, 0, err
	}
	return items, total, nil
}

func (r *RestaurantGormRepository) ListActive(ctx context.Context) ([]model.Restaurant, error) {
	var items []model.Restaurant
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&items).Error; err != nil {
		return []model.Restaurant{}, err
	}
	return items, nil
}

func (r *RestaurantGormRepository) ListActiveByCategory(ctx context.Context, category string) ([]model.Restaurant, error) {
	var items []model.Restaurant
	err := r.db.WithContext(ctx).
		Where("LOWER(category) = ? AND active = ?", strings.ToLower(strings.TrimSpace(category)), true).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, err
	}
	return items, nil
}

func (r *RestaurantGormRepository) Update(ctx context.Context, rest model.Restaurant) error {
	res := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("id = ?", rest.ID).
		Updates(map[string]interface{}{
			"name":                  rest.Name,
			"category":              rest.Category,
			"address":               rest.Address,
			"phone":                 rest.Phone,
			"delivery_fee":          rest.DeliveryFee,
			"rating":                rest.Rating,
			"active":                rest.Active,
			"delivery_time_minutes": rest.DeliveryTimeMinutes,
			"opening_hours":         rest.OpeningHours,
			"updated_at":            time.Now(),
		})
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

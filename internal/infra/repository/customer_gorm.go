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

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) Create(ctx context.Context, c *model.Customer) error {
	return translateWriteError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) FindByEmail(ctx context.Context, email string) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CustomerGormRepository) ListActive(ctx context.Context) ([]model.Customer, error) {
	var items []model.Customer
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&items).Error; err != nil {
		return []model.Customer{}, err
	}
	return items, nil
}

func (r *CustomerGormRepository) SearchByName(ctx context.Context, name string) ([]model.Customer, error) {
	like := "%" + strings.TrimSpace(name) + "%"

	var items []model.Customer
	if err := r.db.WithContext(ctx).Where("name ILIKE ?", like).Order("name asc").Find(&items).Error; err != nil {
		return []model.Customer{}, err
	}
	return items, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"email":      c.Email,
			"phone":      c.Phone,
			"address":    c.Address,
			"active":     c.Active,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

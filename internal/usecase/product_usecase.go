package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx          repo.TransactionManager
	products    repo.ProductRepository
	restaurants repo.RestaurantRepository
	guard       *Guard
	clock       Clock
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	restaurants repo.RestaurantRepository,
	guard *Guard,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		tx:          tx,
		products:    products,
		restaurants: restaurants,
		guard:       guard,
		clock:       clock,
	}
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
}

type ListProductsInput struct {
	RestaurantID *int64
	Category     string
	Available    *bool
	Page         PageRequest
}

var productSortColumns = map[string]string{
	"id":       "id",
	"name":     "name",
	"price":    "price",
	"category": "category",
}

// 価格は 0 より大きいこと
func checkProductInput(in ProductInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "required"
	}
	if !in.Price.GreaterThan(decimal.Zero) {
		fields["price"] = "must be greater than 0"
	}
	if len(fields) > 0 {
		return Validation(fields)
	}
	return nil
}

// レストラン配下に商品を作る（ADMIN / 所有 RESTAURANTE）
func (u *ProductUsecase) Create(ctx context.Context, p Principal, restaurantID int64, in ProductInput) (model.Product, error) {
	if err := u.guard.RequireRestaurantManager(p, restaurantID); err != nil {
		return model.Product{}, err
	}
	if err := checkProductInput(in); err != nil {
		return model.Product{}, err
	}

	if _, err := u.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NotFound("Restaurant", restaurantID)
		}
		return model.Product{}, Internal(err)
	}

	now := u.clock.Now()
	prod := model.Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		Category:     strings.TrimSpace(in.Category),
		Available:    true,
		RestaurantID: restaurantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.products.Create(ctx, &prod); err != nil {
		return model.Product{}, Internal(err)
	}
	return prod, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	prod, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFound("Product", id)
	}
	if err != nil {
		return model.Product{}, Internal(err)
	}
	return prod, nil
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (Page[model.Product], error) {
	q, err := in.Page.toPageQuery(productSortColumns)
	if err != nil {
		return Page[model.Product]{}, err
	}

	items, total, err := u.products.List(ctx, repo.ProductListFilter{
		RestaurantID: in.RestaurantID,
		Category:     in.Category,
		Available:    in.Available,
		Page:         q,
	})
	if err != nil {
		return Page[model.Product]{}, Internal(err)
	}
	return newPage(items, q, total), nil
}

// レストランの商品（available 指定なしなら全件）
func (u *ProductUsecase) ListByRestaurant(ctx context.Context, restaurantID int64, available *bool) ([]model.Product, error) {
	if _, err := u.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound("Restaurant", restaurantID)
		}
		return nil, Internal(err)
	}

	items, err := u.products.ListByRestaurant(ctx, restaurantID, available)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func (u *ProductUsecase) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	if strings.TrimSpace(category) == "" {
		return nil, Validation(map[string]string{"category": "required"})
	}
	items, err := u.products.ListAvailableByCategory(ctx, category)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func (u *ProductUsecase) SearchByName(ctx context.Context, name string) ([]model.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Validation(map[string]string{"name": "required"})
	}
	items, err := u.products.SearchAvailableByName(ctx, name)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

// 更新（レストランは変えない）
func (u *ProductUsecase) Update(ctx context.Context, p Principal, id int64, in ProductInput) (model.Product, error) {
	if err := u.guard.RequireProductManager(ctx, p, id); err != nil {
		return model.Product{}, err
	}
	if err := checkProductInput(in); err != nil {
		return model.Product{}, err
	}

	prod, err := u.Get(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	prod.Name = strings.TrimSpace(in.Name)
	prod.Description = strings.TrimSpace(in.Description)
	prod.Price = in.Price
	prod.Category = strings.TrimSpace(in.Category)
	prod.UpdatedAt = u.clock.Now()

	if err := u.products.Update(ctx, prod); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NotFound("Product", id)
		}
		return model.Product{}, Internal(err)
	}
	return prod, nil
}

// 削除。注文履歴から参照されている商品は消さない（販売停止を使う）
func (u *ProductUsecase) Delete(ctx context.Context, p Principal, id int64) error {
	if err := u.guard.RequireProductManager(ctx, p, id); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		prod, err := r.Products().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("Product", id)
		}
		if err != nil {
			return Internal(err)
		}

		used, err := r.OrderItems().ExistsByProductID(ctx, id)
		if err != nil {
			return Internal(err)
		}
		if used {
			return BusinessRule(CodeProductInUse,
				fmt.Sprintf("product %d is referenced by existing orders; mark it unavailable instead", id))
		}

		if err := r.Products().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("Product", id)
			}
			return Internal(err)
		}

		before, _ := json.Marshal(prod)
		return u.auditProduct(ctx, r, p, model.AuditActionDeleteProduct, id, string(before), "")
	})
}

// 販売可否の切り替え
func (u *ProductUsecase) ToggleAvailability(ctx context.Context, p Principal, id int64) (model.Product, error) {
	if err := u.guard.RequireProductManager(ctx, p, id); err != nil {
		return model.Product{}, err
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		prod, err := r.Products().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("Product", id)
		}
		if err != nil {
			return Internal(err)
		}

		before := prod.Available
		prod.Available = !prod.Available
		prod.UpdatedAt = u.clock.Now()
		if err := r.Products().Update(ctx, prod); err != nil {
			return Internal(err)
		}

		if err := u.auditProduct(ctx, r, p, model.AuditActionToggleAvailability, id,
			fmt.Sprintf(`{"available":%t}`, before),
			fmt.Sprintf(`{"available":%t}`, prod.Available),
		); err != nil {
			return err
		}

		out = prod
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (u *ProductUsecase) auditProduct(ctx context.Context, r repo.TxRepos, p Principal, action model.AuditAction, id int64, before, after string) error {
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  p.UserID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   id,
		BeforeJSON:   before,
		AfterJSON:    after,
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return Internal(err)
	}
	return nil
}

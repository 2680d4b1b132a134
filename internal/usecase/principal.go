package usecase

import (
	"context"
	"errors"
	"strings"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"
)

// Principal はリクエストした本人。handler が JWT の claims から組み立てて渡す。
type Principal struct {
	UserID       int64
	Email        string
	Role         model.Role
	RestaurantID *int64
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

func (p Principal) HasRole(roles ...model.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// 紐づくレストランが無ければ false（エラーにはしない）
func (p Principal) OwnsRestaurant(restaurantID int64) bool {
	if p.Role != model.RoleRestaurant || p.RestaurantID == nil {
		return false
	}
	return *p.RestaurantID == restaurantID
}

// CLIENTE は同じメールアドレスの Customer 本人として扱う
func (p Principal) OwnsCustomer(c model.Customer) bool {
	if p.Role != model.RoleCustomer || strings.TrimSpace(p.Email) == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.Email), c.Email)
}

// Guard は所有者チェックを行う。ADMIN は常に許可。
type Guard struct {
	products repo.ProductRepository
}

func NewGuard(products repo.ProductRepository) *Guard {
	return &Guard{products: products}
}

// 商品の所有者か（呼び出し元のレストラン == 商品のレストラン）
func (g *Guard) IsProductOwner(ctx context.Context, p Principal, productID int64) (bool, error) {
	if p.RestaurantID == nil {
		return false, nil
	}
	prod, err := g.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.OwnsRestaurant(prod.RestaurantID), nil
}

func (g *Guard) IsRestaurantOwner(p Principal, restaurantID int64) bool {
	return p.OwnsRestaurant(restaurantID)
}

// 商品の更新・削除・販売切替の前に呼ぶ
func (g *Guard) RequireProductManager(ctx context.Context, p Principal, productID int64) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role != model.RoleRestaurant {
		return Forbidden("only ADMIN or the owning restaurant can manage this product")
	}
	ok, err := g.IsProductOwner(ctx, p, productID)
	if err != nil {
		return Internal(err)
	}
	if !ok {
		return Forbidden("only ADMIN or the owning restaurant can manage this product")
	}
	return nil
}

// レストランの更新・営業切替、レストラン配下の商品作成の前に呼ぶ
func (g *Guard) RequireRestaurantManager(p Principal, restaurantID int64) error {
	if p.IsAdmin() {
		return nil
	}
	if !g.IsRestaurantOwner(p, restaurantID) {
		return Forbidden("only ADMIN or the owning restaurant can manage this restaurant")
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"github.com/shopspring/decimal"
)

// CEP: 8桁（12345678 または 12345-678）
var postalCodePattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

const DefaultNearbyRadiusKm = 10

// 参照は restaurants（キャッシュ付き）、書き込みは tx の中で行う
type RestaurantUsecase struct {
	tx          repo.TransactionManager
	restaurants repo.RestaurantRepository
	guard       *Guard
	clock       Clock
}

func NewRestaurantUsecase(tx repo.TransactionManager, restaurants repo.RestaurantRepository, guard *Guard, clock Clock) *RestaurantUsecase {
	return &RestaurantUsecase{tx: tx, restaurants: restaurants, guard: guard, clock: clock}
}

type RestaurantInput struct {
	Name                string
	Category            string
	Address             string
	Phone               string
	DeliveryFee         decimal.Decimal
	DeliveryTimeMinutes int
	OpeningHours        string
}

type ListRestaurantsInput struct {
	Category string
	Active   *bool
	Page     PageRequest
}

type DeliveryFeeOutput struct {
	RestaurantID        int64           `json:"restaurant_id"`
	PostalCode          string          `json:"postal_code"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	DeliveryTimeMinutes int             `json:"delivery_time_minutes"`
}

var restaurantSortColumns = map[string]string{
	"id":           "id",
	"name":         "name",
	"rating":       "rating",
	"delivery_fee": "delivery_fee",
	"category":     "category",
}

func checkRestaurantInput(in RestaurantInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return Validation(map[string]string{"name": "required"})
	}
	if in.DeliveryFee.IsNegative() {
		return BusinessRule(CodeInvalidDeliveryFee, "delivery fee must be >= 0")
	}
	return nil
}

// 作成（名前は一意、評価 0、有効で開始）
func (u *RestaurantUsecase) Create(ctx context.Context, in RestaurantInput) (model.Restaurant, error) {
	if err := checkRestaurantInput(in); err != nil {
		return model.Restaurant{}, err
	}
	name := strings.TrimSpace(in.Name)

	var rest model.Restaurant
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureRestaurantNameFree(ctx, r, name, 0); err != nil {
			return err
		}

		now := u.clock.Now()
		rest = model.Restaurant{
			Name:                name,
			Category:            strings.TrimSpace(in.Category),
			Address:             strings.TrimSpace(in.Address),
			Phone:               strings.TrimSpace(in.Phone),
			DeliveryFee:         in.DeliveryFee,
			Rating:              decimal.Zero,
			Active:              true,
			DeliveryTimeMinutes: in.DeliveryTimeMinutes,
			OpeningHours:        strings.TrimSpace(in.OpeningHours),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := r.Restaurants().Create(ctx, &rest); err != nil {
			return restaurantWriteError(err, name, 0)
		}
		return nil
	})
	if err != nil {
		return model.Restaurant{}, err
	}

	u.invalidate(ctx, 0)
	return rest, nil
}

func (u *RestaurantUsecase) Get(ctx context.Context, id int64) (model.Restaurant, error) {
	rest, err := u.restaurants.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Restaurant{}, NotFound("Restaurant", id)
	}
	if err != nil {
		return model.Restaurant{}, Internal(err)
	}
	return rest, nil
}

func (u *RestaurantUsecase) List(ctx context.Context, in ListRestaurantsInput) (Page[model.Restaurant], error) {
	q, err := in.Page.toPageQuery(restaurantSortColumns)
	if err != nil {
		return Page[model.Restaurant]{}, err
	}

	items, total, err := u.restaurants.List(ctx, repo.RestaurantListFilter{
		Category: in.Category,
		Active:   in.Active,
		Page:     q,
	})
	if err != nil {
		return Page[model.Restaurant]{}, Internal(err)
	}
	return newPage(items, q, total), nil
}

// カテゴリの有効なレストラン
func (u *RestaurantUsecase) ListByCategory(ctx context.Context, category string) ([]model.Restaurant, error) {
	if strings.TrimSpace(category) == "" {
		return nil, Validation(map[string]string{"category": "required"})
	}
	items, err := u.restaurants.ListActiveByCategory(ctx, category)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

// 更新（名前を変えるときも一意）
func (u *RestaurantUsecase) Update(ctx context.Context, p Principal, id int64, in RestaurantInput) (model.Restaurant, error) {
	if err := u.guard.RequireRestaurantManager(p, id); err != nil {
		return model.Restaurant{}, err
	}
	if err := checkRestaurantInput(in); err != nil {
		return model.Restaurant{}, err
	}
	name := strings.TrimSpace(in.Name)

	var rest model.Restaurant
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		rest, err = loadRestaurant(ctx, r, id)
		if err != nil {
			return err
		}
		if !strings.EqualFold(name, rest.Name) {
			if err := ensureRestaurantNameFree(ctx, r, name, rest.ID); err != nil {
				return err
			}
		}

		rest.Name = name
		rest.Category = strings.TrimSpace(in.Category)
		rest.Address = strings.TrimSpace(in.Address)
		rest.Phone = strings.TrimSpace(in.Phone)
		rest.DeliveryFee = in.DeliveryFee
		rest.DeliveryTimeMinutes = in.DeliveryTimeMinutes
		rest.OpeningHours = strings.TrimSpace(in.OpeningHours)
		rest.UpdatedAt = u.clock.Now()

		if err := r.Restaurants().Update(ctx, rest); err != nil {
			return restaurantWriteError(err, name, id)
		}
		return nil
	})
	if err != nil {
		return model.Restaurant{}, err
	}

	u.invalidate(ctx, id)
	return rest, nil
}

// 有効/無効の切り替え（監査ログと同じ tx）
func (u *RestaurantUsecase) ToggleActive(ctx context.Context, p Principal, id int64) (model.Restaurant, error) {
	if err := u.guard.RequireRestaurantManager(p, id); err != nil {
		return model.Restaurant{}, err
	}

	var rest model.Restaurant
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		rest, err = loadRestaurant(ctx, r, id)
		if err != nil {
			return err
		}

		before := rest.Active
		rest.Active = !rest.Active
		rest.UpdatedAt = u.clock.Now()
		if err := r.Restaurants().Update(ctx, rest); err != nil {
			return restaurantWriteError(err, rest.Name, id)
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  p.UserID,
			Action:       model.AuditActionToggleRestaurant,
			ResourceType: model.AuditResourceRestaurant,
			ResourceID:   id,
			BeforeJSON:   fmt.Sprintf(`{"active":%t}`, before),
			AfterJSON:    fmt.Sprintf(`{"active":%t}`, rest.Active),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return model.Restaurant{}, err
	}

	u.invalidate(ctx, id)
	return rest, nil
}

// 配送料の照会。料金はレストランの現在値。
func (u *RestaurantUsecase) DeliveryFee(ctx context.Context, id int64, postalCode string) (DeliveryFeeOutput, error) {
	cep, err := normalizePostalCode(postalCode)
	if err != nil {
		return DeliveryFeeOutput{}, err
	}

	rest, err := u.Get(ctx, id)
	if err != nil {
		return DeliveryFeeOutput{}, err
	}
	if !rest.Active {
		return DeliveryFeeOutput{}, BusinessRule(CodeRestaurantInactive, fmt.Sprintf("restaurant '%s' is not active", rest.Name))
	}

	return DeliveryFeeOutput{
		RestaurantID:        rest.ID,
		PostalCode:          cep,
		DeliveryFee:         rest.DeliveryFee,
		DeliveryTimeMinutes: rest.DeliveryTimeMinutes,
	}, nil
}

// 近くのレストラン。位置情報を持たないので有効なレストランをすべて返す。
func (u *RestaurantUsecase) Nearby(ctx context.Context, postalCode string, radiusKm int) ([]model.Restaurant, error) {
	if _, err := normalizePostalCode(postalCode); err != nil {
		return nil, err
	}
	if radiusKm < 0 {
		return nil, Validation(map[string]string{"radius": "must be >= 0"})
	}

	items, err := u.restaurants.ListActive(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func loadRestaurant(ctx context.Context, r repo.TxRepos, id int64) (model.Restaurant, error) {
	rest, err := r.Restaurants().FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Restaurant{}, NotFound("Restaurant", id)
	}
	if err != nil {
		return model.Restaurant{}, Internal(err)
	}
	return rest, nil
}

// selfID 以外に同じ名前（大文字小文字は無視）があれば 409
func ensureRestaurantNameFree(ctx context.Context, r repo.TxRepos, name string, selfID int64) error {
	other, found, err := r.Restaurants().FindByName(ctx, name)
	if err != nil {
		return Internal(err)
	}
	if found && other.ID != selfID {
		return Conflict("Restaurant", "name", name)
	}
	return nil
}

func restaurantWriteError(err error, name string, id int64) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("Restaurant", id)
	case errors.Is(err, repo.ErrDuplicate):
		return Conflict("Restaurant", "name", name)
	}
	return Internal(err)
}

// tx の書き込みはキャッシュを通らないので commit 後に消す
func (u *RestaurantUsecase) invalidate(ctx context.Context, id int64) {
	if inv, ok := u.restaurants.(repo.RestaurantCacheInvalidator); ok {
		inv.InvalidateRestaurant(ctx, id)
	}
}

// 12345678 -> 12345-678
func normalizePostalCode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !postalCodePattern.MatchString(s) {
		return "", BusinessRule(CodeInvalidPostalCode, "postal code must have 8 digits (00000-000)")
	}
	digits := strings.ReplaceAll(s, "-", "")
	return digits[:5] + "-" + digits[5:], nil
}

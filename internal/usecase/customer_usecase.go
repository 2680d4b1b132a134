package usecase

import (
	"context"
	"errors"
	"strings"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
	clock     Clock
}

func NewCustomerUsecase(customers repo.CustomerRepository, clock Clock) *CustomerUsecase {
	return &CustomerUsecase{customers: customers, clock: clock}
}

type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// 登録（メールは一意、有効で開始）
func (u *CustomerUsecase) Register(ctx context.Context, in CustomerInput) (model.Customer, error) {
	email := normalizeEmail(in.Email)

	exists, err := u.customers.ExistsByEmail(ctx, email)
	if err != nil {
		return model.Customer{}, Internal(err)
	}
	if exists {
		return model.Customer{}, Conflict("Customer", "email", email)
	}

	now := u.clock.Now()
	c := model.Customer{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.customers.Create(ctx, &c); err != nil {
		// 同時登録で一意制約に当たった
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Customer{}, Conflict("Customer", "email", email)
		}
		return model.Customer{}, Internal(err)
	}
	return c, nil
}

func (u *CustomerUsecase) Get(ctx context.Context, id int64) (model.Customer, error) {
	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NotFound("Customer", id)
	}
	if err != nil {
		return model.Customer{}, Internal(err)
	}
	return c, nil
}

func (u *CustomerUsecase) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	email = normalizeEmail(email)
	c, err := u.customers.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NotFoundBy("Customer", "email", email)
	}
	if err != nil {
		return model.Customer{}, Internal(err)
	}
	return c, nil
}

func (u *CustomerUsecase) ListActive(ctx context.Context) ([]model.Customer, error) {
	items, err := u.customers.ListActive(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func (u *CustomerUsecase) SearchByName(ctx context.Context, name string) ([]model.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Validation(map[string]string{"name": "required"})
	}
	items, err := u.customers.SearchByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

// 更新。メールを変えるときは他の顧客と重複しないこと。
func (u *CustomerUsecase) Update(ctx context.Context, id int64, in CustomerInput) (model.Customer, error) {
	c, err := u.Get(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}

	email := normalizeEmail(in.Email)
	if email != c.Email {
		exists, err := u.customers.ExistsByEmail(ctx, email)
		if err != nil {
			return model.Customer{}, Internal(err)
		}
		if exists {
			return model.Customer{}, Conflict("Customer", "email", email)
		}
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Email = email
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.UpdatedAt = u.clock.Now()

	if err := u.customers.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Customer{}, NotFound("Customer", id)
		}
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Customer{}, Conflict("Customer", "email", email)
		}
		return model.Customer{}, Internal(err)
	}
	return c, nil
}

// 論理削除（active=false）。何度呼んでも同じ結果。
func (u *CustomerUsecase) Inactivate(ctx context.Context, id int64) error {
	c, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if !c.Active {
		return nil
	}

	c.Active = false
	c.UpdatedAt = u.clock.Now()
	if err := u.customers.Update(ctx, c); err != nil {
		return Internal(err)
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

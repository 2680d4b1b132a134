package auth

import (
	"context"
	"errors"

	"delivery/internal/domain/model"
	"delivery/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// ログイン中ユーザーの参照とログアウト
type SessionUsecase struct {
	userRepo repository.UserRepository
	clock    Clock
}

func NewSessionUsecase(userRepo repository.UserRepository, clock Clock) *SessionUsecase {
	return &SessionUsecase{userRepo: userRepo, clock: clock}
}

func (u *SessionUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return *user, nil
}

// token_version を上げて、発行済みの JWT をすべて無効にする
func (u *SessionUsecase) Logout(ctx context.Context, userID int64) error {
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	user.TokenVersion++
	user.UpdatedAt = u.clock.Now()
	return u.userRepo.Update(ctx, user)
}

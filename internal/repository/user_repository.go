package repository

import (
	"context"

	"delivery/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// RESTAURANTE として紐づいたユーザーがいるか
	ExistsByRestaurantID(ctx context.Context, restaurantID int64) (bool, error)
	// ユーザー情報の更新（最後のログインなど）
	Update(ctx context.Context, user *model.User) error
}

package model

import "time"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleCustomer   Role = "CLIENTE"
	RoleRestaurant Role = "RESTAURANTE"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer, RoleRestaurant:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`
	TokenVersion int    `gorm:"not null;default:0" json:"-"`
	IsActive     bool   `gorm:"not null" json:"active"`

	// RESTAURANTE のときだけ入る（所有チェック用、1店舗1ユーザー）
	RestaurantID *int64 `gorm:"uniqueIndex" json:"restaurant_id,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

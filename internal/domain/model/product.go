package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category     string          `gorm:"type:varchar(100);index" json:"category"`
	Available    bool            `gorm:"not null" json:"available"`
	RestaurantID int64           `gorm:"not null;index" json:"restaurant_id"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 指定レストランの商品か
func (p Product) BelongsTo(restaurantID int64) bool {
	return p.RestaurantID == restaurantID
}

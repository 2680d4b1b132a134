package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。単価と商品名は注文時点のスナップショット。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 小計 = 数量 × 単価
func (i *OrderItem) RecalculateSubtotal() {
	i.Subtotal = i.UnitPriceSnapshot.Mul(decimal.NewFromInt(i.Quantity))
}

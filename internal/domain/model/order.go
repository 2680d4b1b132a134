package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrAlreadyDelivered  = errors.New("order already delivered")
	ErrAlreadyCancelled  = errors.New("order already cancelled")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrItemNotFound      = errors.New("order item not found")
)

// 注文ヘッダー。明細（Items）は gorm の関連を使わず、リポジトリで明示的に保存する。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_number"`
	CustomerID      int64           `gorm:"not null;index" json:"customer_id"`
	RestaurantID    int64           `gorm:"not null;index" json:"restaurant_id"`
	DeliveryAddress string          `gorm:"type:varchar(255);not null" json:"delivery_address"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`

	// 楽観ロック用。更新のたびに +1
	Version int64 `gorm:"not null" json:"version"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"-" json:"items"`
}

// NewOrder は PENDING の空注文を作る。配送料はレストランの現在値をそのまま持つ。
func NewOrder(customerID, restaurantID int64, address, notes string, deliveryFee decimal.Decimal, now time.Time) *Order {
	o := &Order{
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		DeliveryAddress: address,
		Notes:           notes,
		DeliveryFee:     deliveryFee,
		Status:          OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.RecalculateTotals()
	return o
}

// PENDING のときだけ明細を変更できる
func (o *Order) IsMutable() bool {
	return o.Status == OrderStatusPending
}

// AddItem は同じ商品があれば数量を足し、なければ明細を追加する。
func (o *Order) AddItem(productID int64, productName string, unitPrice decimal.Decimal, quantity int64) (*OrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !o.IsMutable() {
		return nil, ErrOrderNotPending
	}

	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			o.Items[i].Quantity += quantity
			o.Items[i].RecalculateSubtotal()
			o.RecalculateTotals()
			return &o.Items[i], nil
		}
	}

	item := OrderItem{
		OrderID:             o.ID,
		ProductID:           productID,
		ProductNameSnapshot: productName,
		UnitPriceSnapshot:   unitPrice,
		Quantity:            quantity,
	}
	item.RecalculateSubtotal()
	o.Items = append(o.Items, item)
	o.RecalculateTotals()

	return &o.Items[len(o.Items)-1], nil
}

// RemoveItem は明細を1行取り除いて合計を再計算する。
func (o *Order) RemoveItem(itemID int64) (OrderItem, error) {
	if !o.IsMutable() {
		return OrderItem{}, ErrOrderNotPending
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			removed := o.Items[i]
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotals()
			return removed, nil
		}
	}
	return OrderItem{}, ErrItemNotFound
}

func (o *Order) RecalculateTotals() {
	o.Subtotal, o.Total = CalculateTotals(o.Items, o.DeliveryFee)
}

func (o *Order) Confirm() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	if o.Status != OrderStatusPending {
		return ErrOrderNotPending
	}
	o.Status = OrderStatusConfirmed
	return nil
}

// TransitionTo は遷移表にある場合だけステータスを変える。
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	if next == OrderStatusConfirmed && len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	o.Status = next
	return nil
}

// Cancel は理由を notes の末尾に追記する。
func (o *Order) Cancel(reason string) error {
	switch o.Status {
	case OrderStatusDelivered:
		return ErrAlreadyDelivered
	case OrderStatusCancelled:
		return ErrAlreadyCancelled
	}
	o.Status = OrderStatusCancelled

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	line := "Cancelled: " + reason
	if strings.TrimSpace(o.Notes) == "" {
		o.Notes = line
	} else {
		o.Notes = o.Notes + " | " + line
	}
	return nil
}

// CalculateTotals は subtotal = Σ明細小計、total = subtotal + 配送料 を返す。
func CalculateTotals(items []OrderItem, deliveryFee decimal.Decimal) (subtotal decimal.Decimal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	return subtotal, subtotal.Add(deliveryFee)
}

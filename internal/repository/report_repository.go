package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RestaurantSales struct {
	RestaurantID   int64           `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	OrderCount     int64           `json:"order_count"`
}

type ProductRanking struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TimesOrdered int64           `json:"times_ordered"`
}

type CustomerRanking struct {
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	OrderCount   int64           `json:"order_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}

type StatusSummary struct {
	Status     string          `json:"status"`
	OrderCount int64           `json:"order_count"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// 集計クエリ。キャンセル済みの注文は売上に含めない。
type ReportRepository interface {
	SalesByRestaurant(ctx context.Context) ([]RestaurantSales, error)
	TopProducts(ctx context.Context, limit int) ([]ProductRanking, error)
	CustomerRanking(ctx context.Context, limit int) ([]CustomerRanking, error)
	OrdersByPeriod(ctx context.Context, from, to time.Time) ([]StatusSummary, error)
}

package repository

import (
	"context"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// レストラン別の売上（キャンセル除外）
func (r *ReportGormRepository) SalesByRestaurant(ctx context.Context) ([]repo.RestaurantSales, error) {
	var rows []repo.RestaurantSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT r.id AS restaurant_id,
		       r.name AS restaurant_name,
		       COALESCE(SUM(o.total), 0) AS total_sales,
		       COUNT(o.id) AS order_count
		FROM restaurants r
		JOIN orders o ON o.restaurant_id = r.id
		WHERE o.status <> ?
		GROUP BY r.id, r.name
		ORDER BY total_sales DESC, r.id ASC`,
		model.OrderStatusCancelled,
	).Scan(&rows).Error
	if err != nil {
		return []repo.RestaurantSales{}, err
	}
	return rows, nil
}

// 数量ベースの売れ筋 TOP N
func (r *ReportGormRepository) TopProducts(ctx context.Context, limit int) ([]repo.ProductRanking, error) {
	var rows []repo.ProductRanking
	err := r.db.WithContext(ctx).Raw(`
		SELECT oi.product_id AS product_id,
		       MAX(oi.product_name_snapshot) AS product_name,
		       SUM(oi.quantity) AS quantity_sold,
		       COALESCE(SUM(oi.subtotal), 0) AS total_revenue,
		       COUNT(DISTINCT oi.order_id) AS times_ordered
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status <> ?
		GROUP BY oi.product_id
		ORDER BY quantity_sold DESC, oi.product_id ASC
		LIMIT ?`,
		model.OrderStatusCancelled, limit,
	).Scan(&rows).Error
	if err != nil {
		return []repo.ProductRanking{}, err
	}
	return rows, nil
}

// 注文数の多い顧客
func (r *ReportGormRepository) CustomerRanking(ctx context.Context, limit int) ([]repo.CustomerRanking, error) {
	var rows []repo.CustomerRanking
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id,
		       c.name AS customer_name,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.total), 0) AS total_spent
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE o.status <> ? AND c.active = ?
		GROUP BY c.id, c.name
		ORDER BY order_count DESC, total_spent DESC
		LIMIT ?`,
		model.OrderStatusCancelled, true, limit,
	).Scan(&rows).Error
	if err != nil {
		return []repo.CustomerRanking{}, err
	}
	return rows, nil
}

// 期間内の注文をステータスごとに集計
func (r *ReportGormRepository) OrdersByPeriod(ctx context.Context, from, to time.Time) ([]repo.StatusSummary, error) {
	var rows []repo.StatusSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT status,
		       COUNT(*) AS order_count,
		       COALESCE(SUM(total), 0) AS total_sales
		FROM orders
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY status
		ORDER BY status ASC`,
		from, to,
	).Scan(&rows).Error
	if err != nil {
		return []repo.StatusSummary{}, err
	}
	return rows, nil
}

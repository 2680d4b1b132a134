package repository

import (
	"context"
	"database/sql"

	repo "delivery/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	products    repo.ProductRepository
	restaurants repo.RestaurantRepository
	customers   repo.CustomerRepository
	auditLogs   repo.AuditLogRepository
	reports     repo.ReportRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository       { return r.products }
func (r *txReposGorm) Restaurants() repo.RestaurantRepository { return r.restaurants }
func (r *txReposGorm) Customers() repo.CustomerRepository     { return r.customers }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }
func (r *txReposGorm) Reports() repo.ReportRepository         { return r.reports }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepos(tx))
	})
}

func (tm *TxManagerGorm) WithinReadOnlyTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepos(tx))
	}, &sql.TxOptions{ReadOnly: true})
}

// repoはtxを持ったDBで作り直す
func newTxRepos(tx *gorm.DB) *txReposGorm {
	return &txReposGorm{
		orders:      NewOrderGormRepository(tx),
		orderItems:  NewOrderItemGormRepository(tx),
		products:    NewProductGormRepository(tx),
		restaurants: NewRestaurantGormRepository(tx),
		customers:   NewCustomerGormRepository(tx),
		auditLogs:   NewAuditLogGormRepository(tx),
		reports:     NewReportGormRepository(tx),
	}
}

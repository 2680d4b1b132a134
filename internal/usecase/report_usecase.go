package usecase

import (
	"context"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DefaultTopProducts   = 5
	DefaultTopCustomers  = 10
	MaxReportRankingSize = 100
)

type ReportUsecase struct {
	tx repo.TransactionManager
}

func NewReportUsecase(tx repo.TransactionManager) *ReportUsecase {
	return &ReportUsecase{tx: tx}
}

type PeriodReport struct {
	From        time.Time            `json:"from"`
	To          time.Time            `json:"to"`
	TotalOrders int64                `json:"total_orders"`
	TotalSales  decimal.Decimal      `json:"total_sales"`
	ByStatus    []repo.StatusSummary `json:"by_status"`
}

// レストラン別の売上（キャンセル除く）
func (u *ReportUsecase) SalesByRestaurant(ctx context.Context) ([]repo.RestaurantSales, error) {
	var out []repo.RestaurantSales
	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Reports().SalesByRestaurant(ctx)
		if err != nil {
			return Internal(err)
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// 販売数量の多い商品（limit 0 は既定の5件）
func (u *ReportUsecase) TopProducts(ctx context.Context, limit int) ([]repo.ProductRanking, error) {
	limit, err := rankingLimit(limit, DefaultTopProducts)
	if err != nil {
		return nil, err
	}

	var out []repo.ProductRanking
	err = u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Reports().TopProducts(ctx, limit)
		if err != nil {
			return Internal(err)
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// 注文数の多い顧客
func (u *ReportUsecase) ActiveCustomers(ctx context.Context, limit int) ([]repo.CustomerRanking, error) {
	limit, err := rankingLimit(limit, DefaultTopCustomers)
	if err != nil {
		return nil, err
	}

	var out []repo.CustomerRanking
	err = u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Reports().CustomerRanking(ctx, limit)
		if err != nil {
			return Internal(err)
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// 期間内のステータス別件数と売上。売上合計にキャンセルは含めない。
func (u *ReportUsecase) OrdersByPeriod(ctx context.Context, from, to time.Time) (PeriodReport, error) {
	if from.IsZero() || to.IsZero() {
		return PeriodReport{}, Validation(map[string]string{"from": "required", "to": "required"})
	}
	if to.Before(from) {
		return PeriodReport{}, Validation(map[string]string{"to": "must not be before from"})
	}

	rep := PeriodReport{From: from, To: to, TotalSales: decimal.Zero}
	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Reports().OrdersByPeriod(ctx, from, to)
		if err != nil {
			return Internal(err)
		}
		rep.ByStatus = rows
		return nil
	})
	if err != nil {
		return PeriodReport{}, err
	}

	rep.ByStatus = nonNil(rep.ByStatus)
	for _, s := range rep.ByStatus {
		rep.TotalOrders += s.OrderCount
		if s.Status != string(model.OrderStatusCancelled) {
			rep.TotalSales = rep.TotalSales.Add(s.TotalSales)
		}
	}
	return rep, nil
}

func rankingLimit(limit, def int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 0 || limit > MaxReportRankingSize {
		return 0, Validation(map[string]string{"limit": "must be between 1 and 100"})
	}
	return limit, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	repo "delivery/internal/repository"
	"delivery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) SalesByRestaurant(ctx context.Context) ([]repo.RestaurantSales, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.RestaurantSales)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) TopProducts(ctx context.Context, limit int) ([]repo.ProductRanking, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.ProductRanking)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) CustomerRanking(ctx context.Context, limit int) ([]repo.CustomerRanking, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.CustomerRanking)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) OrdersByPeriod(ctx context.Context, from, to time.Time) ([]repo.StatusSummary, error) {
	args := m.Called(ctx, from, to)
	rows, _ := args.Get(0).([]repo.StatusSummary)
	return rows, args.Error(1)
}

func newReportFixture() (*usecase.ReportUsecase, *ReportRepoMock, *TxManagerMock) {
	s := newMemStore()
	reports := new(ReportRepoMock)
	s.reports = reports
	tx := newTxMock(s)
	return usecase.NewReportUsecase(tx), reports, tx
}

func TestReportUsecase_TopProducts_DefaultLimit(t *testing.T) {
	uc, reports, tx := newReportFixture()

	reports.On("TopProducts", mock.Anything, usecase.DefaultTopProducts).Return(nil, nil)

	rows, err := uc.TopProducts(context.Background(), 0)
	require.NoError(t, err)

	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	tx.AssertCalled(t, "WithinReadOnlyTx", mock.Anything)
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	reports.AssertExpectations(t)
}

func TestReportUsecase_TopProducts_InvalidLimit(t *testing.T) {
	uc, reports, _ := newReportFixture()

	_, err := uc.TopProducts(context.Background(), -3)

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
	reports.AssertNotCalled(t, "TopProducts", mock.Anything, mock.Anything)
}

func TestReportUsecase_SalesByRestaurant(t *testing.T) {
	uc, reports, _ := newReportFixture()

	want := []repo.RestaurantSales{
		{RestaurantID: 10, RestaurantName: "Pizzaria Bella", TotalSales: dec("95.80"), OrderCount: 2},
	}
	reports.On("SalesByRestaurant", mock.Anything).Return(want, nil)

	rows, err := uc.SalesByRestaurant(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, rows)
}

func TestReportUsecase_OrdersByPeriod_ExcludesCancelledFromSales(t *testing.T) {
	uc, reports, _ := newReportFixture()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	reports.On("OrdersByPeriod", mock.Anything, from, to).Return([]repo.StatusSummary{
		{Status: "CANCELLED", OrderCount: 1, TotalSales: dec("20.00")},
		{Status: "DELIVERED", OrderCount: 3, TotalSales: dec("120.00")},
		{Status: "PENDING", OrderCount: 2, TotalSales: dec("30.50")},
	}, nil)

	rep, err := uc.OrdersByPeriod(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(6), rep.TotalOrders)
	assertDecimal(t, "150.50", rep.TotalSales)
	assert.Len(t, rep.ByStatus, 3)
}

func TestReportUsecase_OrdersByPeriod_InvalidRange(t *testing.T) {
	uc, reports, _ := newReportFixture()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.OrdersByPeriod(context.Background(), from, from.Add(-time.Hour))
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)

	_, err = uc.OrdersByPeriod(context.Background(), time.Time{}, from)
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)

	reports.AssertNotCalled(t, "OrdersByPeriod", mock.Anything, mock.Anything, mock.Anything)
}

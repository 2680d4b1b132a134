package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"delivery/internal/domain/model"
	"delivery/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	s       *memStore
	tx      *TxManagerMock
	metrics *OrderMetricsMock
	uc      *usecase.OrderUsecase
}

const (
	bellaID      int64 = 10
	burgerID     int64 = 20
	closedID     int64 = 30
	customerID   int64 = 1
	productA     int64 = 11
	productB     int64 = 12
	soldOut      int64 = 13
	burgerItemID int64 = 21
)

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	s := newMemStore()
	s.customers[customerID] = model.Customer{ID: customerID, Name: "João Silva", Email: "joao@email.com", Active: true}
	s.restaurants[bellaID] = model.Restaurant{ID: bellaID, Name: "Pizzaria Bella", DeliveryFee: dec("5.00"), Active: true}
	s.restaurants[burgerID] = model.Restaurant{ID: burgerID, Name: "Burger House", DeliveryFee: dec("3.50"), Active: true}
	s.restaurants[closedID] = model.Restaurant{ID: closedID, Name: "Fechado", DeliveryFee: dec("2.00"), Active: false}
	s.products[productA] = model.Product{ID: productA, Name: "Produto A", Price: dec("10.00"), Available: true, RestaurantID: bellaID}
	s.products[productB] = model.Product{ID: productB, Name: "Produto B", Price: dec("15.00"), Available: true, RestaurantID: bellaID}
	s.products[soldOut] = model.Product{ID: soldOut, Name: "Esgotado", Price: dec("9.90"), Available: false, RestaurantID: bellaID}
	s.products[burgerItemID] = model.Product{ID: burgerItemID, Name: "X-Burger", Price: dec("18.90"), Available: true, RestaurantID: burgerID}

	metrics := new(OrderMetricsMock)
	metrics.On("OrderProcessed", mock.Anything, mock.Anything).Return().Maybe()

	tx := newTxMock(s)
	numbers := &seqNumbers{list: []string{"PED-0000000A", "PED-0000000B", "PED-0000000C", "PED-0000000D"}}

	return &orderFixture{
		s:       s,
		tx:      tx,
		metrics: metrics,
		uc:      usecase.NewOrderUsecase(tx, numbers, fixedClock{testNow}, metrics),
	}
}

// 商品A(10.00 x1) + 商品B(15.00 x2)、配送料 5.00
func (f *orderFixture) createScenarioA(t *testing.T) usecase.OrderOutput {
	t.Helper()
	out, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:      customerID,
		RestaurantID:    bellaID,
		DeliveryAddress: "Rua A, 123 - São Paulo/SP",
		Notes:           "sem cebola",
		Items: []usecase.OrderLineInput{
			{ProductID: productA, Quantity: 1},
			{ProductID: productB, Quantity: 2},
		},
	})
	require.NoError(t, err)
	return out
}

func (f *orderFixture) putOrder(id int64, status model.OrderStatus, withItem bool) {
	o := model.Order{
		ID:           id,
		OrderNumber:  fmt.Sprintf("PED-F%07d", id),
		CustomerID:   customerID,
		RestaurantID: bellaID,
		DeliveryFee:  dec("5.00"),
		Status:       status,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	if withItem {
		it := model.OrderItem{ID: id + 1000, OrderID: id, ProductID: productA, ProductNameSnapshot: "Produto A", UnitPriceSnapshot: dec("10.00"), Quantity: 1}
		it.RecalculateSubtotal()
		f.s.items[it.ID] = it
		o.Items = []model.OrderItem{it}
	}
	o.RecalculateTotals()
	o.Items = nil
	f.s.orders[id] = o
}

// =====================
// CreateOrder
// =====================

func TestOrderUsecase_CreateOrder_TotalsFromSnapshots(t *testing.T) {
	f := newOrderFixture(t)

	out := f.createScenarioA(t)

	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, "PED-0000000A", out.OrderNumber)
	assert.Equal(t, "João Silva", out.CustomerName)
	assert.Equal(t, "Pizzaria Bella", out.RestaurantName)
	assertDecimal(t, "40.00", out.Subtotal)
	assertDecimal(t, "5.00", out.DeliveryFee)
	assertDecimal(t, "45.00", out.Total)
	require.Len(t, out.Items, 2)
	assertDecimal(t, "30.00", out.Items[1].Subtotal)

	// 明細は注文IDに紐づいて保存される
	assert.Len(t, f.s.itemsOf(out.ID), 2)
	f.metrics.AssertCalled(t, "OrderProcessed", true, mock.Anything)
	f.tx.AssertCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_CreateOrder_PriceChangeDoesNotAffectExistingOrder(t *testing.T) {
	f := newOrderFixture(t)
	out := f.createScenarioA(t)

	p := f.s.products[productA]
	p.Price = dec("99.00")
	f.s.products[productA] = p

	got, err := f.uc.GetOrder(context.Background(), out.ID)
	require.NoError(t, err)
	assertDecimal(t, "45.00", got.Total)
	assertDecimal(t, "10.00", got.Items[0].UnitPrice)
}

func TestOrderUsecase_CreateOrder_CustomerNotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:   999,
		RestaurantID: bellaID,
		Items:        []usecase.OrderLineInput{{ProductID: productA, Quantity: 1}},
	})

	he := requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
	assert.Equal(t, "Customer with ID 999 not found", he.Message)
	f.metrics.AssertCalled(t, "OrderProcessed", false, mock.Anything)
}

func TestOrderUsecase_CreateOrder_RestaurantInactive(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: closedID,
		Items:        []usecase.OrderLineInput{{ProductID: productA, Quantity: 1}},
	})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeRestaurantInactive)
	assert.Empty(t, f.s.orders)
}

func TestOrderUsecase_CreateOrder_EmptyItems(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: bellaID,
	})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeEmptyItems)
	assert.Empty(t, f.s.orders)
}

func TestOrderUsecase_CreateOrder_UnavailableProduct(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: bellaID,
		Items: []usecase.OrderLineInput{
			{ProductID: productA, Quantity: 1},
			{ProductID: soldOut, Quantity: 1},
		},
	})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeProductUnavailable)
	assert.Empty(t, f.s.orders)
	assert.Empty(t, f.s.items)
}

func TestOrderUsecase_CreateOrder_ProductFromAnotherRestaurant(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: bellaID,
		Items:        []usecase.OrderLineInput{{ProductID: burgerItemID, Quantity: 1}},
	})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeProductMismatch)
}

func TestOrderUsecase_CreateOrder_RetriesOnNumberCollision(t *testing.T) {
	f := newOrderFixture(t)
	f.s.orders[900] = model.Order{ID: 900, OrderNumber: "PED-0000000A", Status: model.OrderStatusPending}

	out := f.createScenarioA(t)

	assert.Equal(t, "PED-0000000B", out.OrderNumber)
}

func TestOrderUsecase_CreateOrder_RequiresPrincipal(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), usecase.Principal{}, usecase.CreateOrderInput{CustomerID: customerID, RestaurantID: bellaID})

	requireHTTPError(t, err, http.StatusUnauthorized, usecase.CodeUnauthorized)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// =====================
// AddItem / RemoveItem
// =====================

func TestOrderUsecase_AddItem_MergesSameProduct(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	out, err := f.uc.AddItem(context.Background(), customerPrincipal, created.ID, usecase.OrderLineInput{ProductID: productA, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
	assertDecimal(t, "30.00", out.Items[0].Subtotal)
	assertDecimal(t, "60.00", out.Subtotal)
	assertDecimal(t, "65.00", out.Total)

	stored := f.s.orders[created.ID]
	assert.Equal(t, int64(1), stored.Version)
	assertDecimal(t, "65.00", stored.Total)
}

func TestOrderUsecase_AddItem_NewLine(t *testing.T) {
	f := newOrderFixture(t)
	created, err := f.uc.CreateOrder(context.Background(), customerPrincipal, usecase.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: bellaID,
		Items:        []usecase.OrderLineInput{{ProductID: productA, Quantity: 1}},
	})
	require.NoError(t, err)

	out, err := f.uc.AddItem(context.Background(), customerPrincipal, created.ID, usecase.OrderLineInput{ProductID: productB, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.NotZero(t, out.Items[1].ID)
	assertDecimal(t, "25.00", out.Subtotal)
	assert.Len(t, f.s.itemsOf(created.ID), 2)
}

func TestOrderUsecase_AddItem_ProductMismatchLeavesOrderUnchanged(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	_, err := f.uc.AddItem(context.Background(), customerPrincipal, created.ID, usecase.OrderLineInput{ProductID: burgerItemID, Quantity: 1})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeProductMismatch)

	got, err := f.uc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assertDecimal(t, "45.00", got.Total)
	assert.Equal(t, int64(0), f.s.orders[created.ID].Version)
}

func TestOrderUsecase_AddItem_NotPending(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusConfirmed, true)

	_, err := f.uc.AddItem(context.Background(), customerPrincipal, 500, usecase.OrderLineInput{ProductID: productB, Quantity: 1})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeOrderNotPending)
}

func TestOrderUsecase_AddItem_InvalidQuantity(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	_, err := f.uc.AddItem(context.Background(), customerPrincipal, created.ID, usecase.OrderLineInput{ProductID: productB, Quantity: 0})

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidQuantity)
}

func TestOrderUsecase_AddItem_ConcurrentModification(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)
	f.s.conflictOnUpdate = true

	_, err := f.uc.AddItem(context.Background(), customerPrincipal, created.ID, usecase.OrderLineInput{ProductID: productB, Quantity: 1})

	requireHTTPError(t, err, http.StatusConflict, usecase.CodeConcurrentWrite)
}

func TestOrderUsecase_RemoveItem(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)
	removedID := created.Items[0].ID

	out, err := f.uc.RemoveItem(context.Background(), customerPrincipal, created.ID, removedID)
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, productB, out.Items[0].ProductID)
	assertDecimal(t, "30.00", out.Subtotal)
	assertDecimal(t, "35.00", out.Total)

	_, still := f.s.items[removedID]
	assert.False(t, still)
}

func TestOrderUsecase_RemoveItem_UnknownItem(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	_, err := f.uc.RemoveItem(context.Background(), customerPrincipal, created.ID, 424242)

	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeOrderItemNotFound)
}

// =====================
// Confirm / UpdateStatus / Cancel
// =====================

func TestOrderUsecase_ConfirmOrder_EmptyOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusPending, false)

	_, err := f.uc.ConfirmOrder(context.Background(), customerPrincipal, 500)

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeEmptyOrder)
	assert.Equal(t, model.OrderStatusPending, f.s.orders[500].Status)
	assert.Empty(t, f.s.audits)
}

func TestOrderUsecase_ConfirmOrder_WritesAudit(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	out, err := f.uc.ConfirmOrder(context.Background(), customerPrincipal, created.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, out.Status)
	require.Len(t, f.s.audits, 1)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, f.s.audits[0].Action)
	assert.Equal(t, model.AuditResourceOrder, f.s.audits[0].ResourceType)
	assert.Equal(t, created.ID, f.s.audits[0].ResourceID)
	assert.JSONEq(t, `{"status":"PENDING"}`, f.s.audits[0].BeforeJSON)
	assert.JSONEq(t, `{"status":"CONFIRMED"}`, f.s.audits[0].AfterJSON)
}

func TestOrderUsecase_ConfirmOrder_Twice(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	_, err := f.uc.ConfirmOrder(context.Background(), customerPrincipal, created.ID)
	require.NoError(t, err)

	_, err = f.uc.ConfirmOrder(context.Background(), customerPrincipal, created.ID)
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeOrderNotPending)
}

func TestOrderUsecase_UpdateStatus_FullLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)
	owner := restaurantPrincipal(bellaID)
	ctx := context.Background()

	_, err := f.uc.ConfirmOrder(ctx, customerPrincipal, created.ID)
	require.NoError(t, err)

	for _, st := range []string{"PREPARING", "out_for_delivery", "DELIVERED"} {
		_, err := f.uc.UpdateStatus(ctx, owner, created.ID, st)
		require.NoError(t, err, st)
	}

	stored := f.s.orders[created.ID]
	assert.Equal(t, model.OrderStatusDelivered, stored.Status)
	assert.Equal(t, int64(4), stored.Version)
	assert.Len(t, f.s.audits, 4)
}

func TestOrderUsecase_UpdateStatus_InvalidTransition(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusPreparing, true)

	_, err := f.uc.UpdateStatus(context.Background(), adminPrincipal, 500, "CONFIRMED")

	he := requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidTransition)
	assert.Equal(t, "cannot change order status from PREPARING to CONFIRMED", he.Message)
	assert.Equal(t, model.OrderStatusPreparing, f.s.orders[500].Status)
}

func TestOrderUsecase_UpdateStatus_CancelledCannotReopen(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusCancelled, true)

	_, err := f.uc.UpdateStatus(context.Background(), adminPrincipal, 500, "PENDING")

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidTransition)
}

func TestOrderUsecase_UpdateStatus_ConfirmEmptyOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusPending, false)

	_, err := f.uc.UpdateStatus(context.Background(), adminPrincipal, 500, "CONFIRMED")

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeEmptyOrder)
}

func TestOrderUsecase_UpdateStatus_OtherRestaurantForbidden(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusConfirmed, true)

	_, err := f.uc.UpdateStatus(context.Background(), restaurantPrincipal(burgerID), 500, "PREPARING")
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	_, err = f.uc.UpdateStatus(context.Background(), customerPrincipal, 500, "PREPARING")
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	assert.Equal(t, model.OrderStatusConfirmed, f.s.orders[500].Status)
}

func TestOrderUsecase_UpdateStatus_UnknownStatus(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.UpdateStatus(context.Background(), adminPrincipal, 1, "SHIPPED")

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_CancelOrder_Delivered(t *testing.T) {
	f := newOrderFixture(t)
	f.putOrder(500, model.OrderStatusDelivered, true)

	_, err := f.uc.CancelOrder(context.Background(), customerPrincipal, 500, "late")

	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeAlreadyDelivered)
	assert.Equal(t, model.OrderStatusDelivered, f.s.orders[500].Status)
}

func TestOrderUsecase_CancelOrder_AppendsReason(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	out, err := f.uc.CancelOrder(context.Background(), customerPrincipal, created.ID, "cliente desistiu")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCancelled, out.Status)
	assert.Equal(t, "sem cebola | Cancelled: cliente desistiu", out.Notes)
	require.Len(t, f.s.audits, 1)
	assert.Equal(t, model.AuditActionCancelOrder, f.s.audits[0].Action)

	_, err = f.uc.CancelOrder(context.Background(), customerPrincipal, created.ID, "")
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeAlreadyCancelled)
}

// =====================
// CalculateTotal
// =====================

func TestOrderUsecase_CalculateTotal_DoesNotPersist(t *testing.T) {
	f := newOrderFixture(t)
	in := usecase.CalculateTotalInput{
		RestaurantID: bellaID,
		Items: []usecase.OrderLineInput{
			{ProductID: productA, Quantity: 1},
			{ProductID: productB, Quantity: 2},
		},
	}

	first, err := f.uc.CalculateTotal(context.Background(), in)
	require.NoError(t, err)
	second, err := f.uc.CalculateTotal(context.Background(), in)
	require.NoError(t, err)

	assertDecimal(t, "40.00", first.Subtotal)
	assertDecimal(t, "5.00", first.DeliveryFee)
	assertDecimal(t, "45.00", first.Total)
	assert.True(t, first.Total.Equal(second.Total))
	assert.Empty(t, f.s.orders)
	f.tx.AssertCalled(t, "WithinReadOnlyTx", mock.Anything)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)

	// 試算と実際の注文は一致する
	created := f.createScenarioA(t)
	assert.True(t, first.Total.Equal(created.Total))
	assert.True(t, first.Subtotal.Equal(created.Subtotal))
}

func TestOrderUsecase_CalculateTotal_Errors(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.uc.CalculateTotal(ctx, usecase.CalculateTotalInput{RestaurantID: 404, Items: []usecase.OrderLineInput{{ProductID: productA, Quantity: 1}}})
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)

	_, err = f.uc.CalculateTotal(ctx, usecase.CalculateTotalInput{RestaurantID: bellaID})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeEmptyItems)

	_, err = f.uc.CalculateTotal(ctx, usecase.CalculateTotalInput{RestaurantID: bellaID, Items: []usecase.OrderLineInput{{ProductID: soldOut, Quantity: 1}}})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeProductUnavailable)

	_, err = f.uc.CalculateTotal(ctx, usecase.CalculateTotalInput{RestaurantID: bellaID, Items: []usecase.OrderLineInput{{ProductID: productA, Quantity: 0}}})
	requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeInvalidQuantity)
}

// =====================
// 参照系
// =====================

func TestOrderUsecase_GetOrder_NotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.GetOrder(context.Background(), 99)

	he := requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
	assert.Equal(t, "Order with ID 99 not found", he.Message)
}

func TestOrderUsecase_GetOrderByNumber_IgnoresCase(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	got, err := f.uc.GetOrderByNumber(context.Background(), " ped-0000000a ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Items, 2)

	_, err = f.uc.GetOrderByNumber(context.Background(), "PED-FFFFFFFF")
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

func TestOrderUsecase_ListOrders_Paging(t *testing.T) {
	f := newOrderFixture(t)
	f.createScenarioA(t)
	f.createScenarioA(t)

	page, err := f.uc.ListOrders(context.Background(), usecase.ListOrdersInput{
		Status: "pending",
		Page:   usecase.PageRequest{Page: 0, Size: 1},
	})
	require.NoError(t, err)

	assert.Len(t, page.Content, 1)
	assert.Equal(t, int64(2), page.Page.TotalElements)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.True(t, page.Page.First)
	assert.False(t, page.Page.Last)
	assert.Len(t, page.Content[0].Items, 2)
}

func TestOrderUsecase_ListOrders_RejectsUnknownSort(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.ListOrders(context.Background(), usecase.ListOrdersInput{Page: usecase.PageRequest{Sort: "password,asc"}})

	he := requireHTTPError(t, err, http.StatusBadRequest, usecase.CodeValidation)
	assert.Contains(t, he.Details, "sort")
}

func TestOrderUsecase_ListByRestaurant(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)
	f.putOrder(500, model.OrderStatusDelivered, true)

	outs, err := f.uc.ListByRestaurant(context.Background(), restaurantPrincipal(bellaID), bellaID, "PENDING")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, created.ID, outs[0].ID)

	_, err = f.uc.ListByRestaurant(context.Background(), restaurantPrincipal(burgerID), bellaID, "")
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)
}

func TestOrderUsecase_ListByCustomer(t *testing.T) {
	f := newOrderFixture(t)
	f.createScenarioA(t)

	outs, err := f.uc.ListByCustomer(context.Background(), customerPrincipal, customerID)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "Pizzaria Bella", outs[0].RestaurantName)
	assert.True(t, outs[0].Total.Equal(decimal.RequireFromString("45")))

	_, err = f.uc.ListByCustomer(context.Background(), restaurantPrincipal(bellaID), customerID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	_, err = f.uc.ListByCustomer(context.Background(), adminPrincipal, 777)
	requireHTTPError(t, err, http.StatusNotFound, usecase.CodeNotFound)
}

func TestOrderUsecase_OtherCustomerForbidden(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)
	f.s.customers[2] = model.Customer{ID: 2, Name: "Maria Santos", Email: "maria@email.com", Active: true}
	maria := usecase.Principal{UserID: 8, Email: "maria@email.com", Role: model.RoleCustomer}
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, maria, created.ID, usecase.OrderLineInput{ProductID: productA, Quantity: 1})
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	_, err = f.uc.RemoveItem(ctx, maria, created.ID, created.Items[0].ID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	_, err = f.uc.ConfirmOrder(ctx, maria, created.ID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	_, err = f.uc.CancelOrder(ctx, maria, created.ID, "engano")
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	_, err = f.uc.ListByCustomer(ctx, maria, customerID)
	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)

	// 自分の履歴は見られる
	outs, err := f.uc.ListByCustomer(ctx, maria, 2)
	require.NoError(t, err)
	assert.Empty(t, outs)

	stored := f.s.orders[created.ID]
	assert.Equal(t, model.OrderStatusPending, stored.Status)
	assert.Len(t, f.s.itemsOf(created.ID), 2)
	assert.Empty(t, f.s.audits)
}

func TestOrderUsecase_CreateOrder_ForAnotherCustomer(t *testing.T) {
	f := newOrderFixture(t)
	maria := usecase.Principal{UserID: 8, Email: "maria@email.com", Role: model.RoleCustomer}

	_, err := f.uc.CreateOrder(context.Background(), maria, usecase.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: bellaID,
		Items:        []usecase.OrderLineInput{{ProductID: productA, Quantity: 1}},
	})

	requireHTTPError(t, err, http.StatusForbidden, usecase.CodeAccessDenied)
	assert.Empty(t, f.s.orders)
}

func TestOrderUsecase_AdminActsForAnyCustomer(t *testing.T) {
	f := newOrderFixture(t)
	created := f.createScenarioA(t)

	out, err := f.uc.AddItem(context.Background(), adminPrincipal, created.ID, usecase.OrderLineInput{ProductID: productA, Quantity: 1})
	require.NoError(t, err)
	assertDecimal(t, "55.00", out.Total)
}

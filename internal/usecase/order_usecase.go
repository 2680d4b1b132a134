package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文番号が衝突したときの再生成回数
const maxOrderNumberAttempts = 5

// 注文処理のメトリクスを記録する約束
type OrderMetrics interface {
	OrderProcessed(success bool, elapsed time.Duration)
}

type OrderUsecase struct {
	tx      repo.TransactionManager
	numbers OrderNumberGenerator
	clock   Clock
	metrics OrderMetrics
}

func NewOrderUsecase(tx repo.TransactionManager, numbers OrderNumberGenerator, clock Clock, metrics OrderMetrics) *OrderUsecase {
	return &OrderUsecase{tx: tx, numbers: numbers, clock: clock, metrics: metrics}
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

type CreateOrderInput struct {
	CustomerID      int64
	RestaurantID    int64
	DeliveryAddress string
	Notes           string
	Items           []OrderLineInput
}

type CalculateTotalInput struct {
	RestaurantID int64
	Items        []OrderLineInput
}

type ListOrdersInput struct {
	Status string
	From   *time.Time
	To     *time.Time
	Page   PageRequest
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"order_number"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeliveryAddress string            `json:"delivery_address"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	DeliveryFee     decimal.Decimal   `json:"delivery_fee"`
	Total           decimal.Decimal   `json:"total"`
	Notes           string            `json:"notes"`
	Status          model.OrderStatus `json:"status"`
	CustomerID      int64             `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	RestaurantID    int64             `json:"restaurant_id"`
	RestaurantName  string            `json:"restaurant_name"`
	Items           []OrderItemOutput `json:"items"`
}

type TotalLineOutput struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type TotalOutput struct {
	Subtotal    decimal.Decimal   `json:"subtotal"`
	DeliveryFee decimal.Decimal   `json:"delivery_fee"`
	Total       decimal.Decimal   `json:"total"`
	Items       []TotalLineOutput `json:"items"`
}

var orderSortColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"total":      "total",
	"status":     "status",
}

// 注文作成
func (u *OrderUsecase) CreateOrder(ctx context.Context, p Principal, in CreateOrderInput) (out OrderOutput, err error) {
	start := u.clock.Now()
	defer func() {
		u.metrics.OrderProcessed(err == nil, u.clock.Now().Sub(start))
	}()

	if p.UserID <= 0 {
		return OrderOutput{}, Unauthorized()
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().FindByID(ctx, in.CustomerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("Customer", in.CustomerID)
		}
		if err != nil {
			return Internal(err)
		}
		if !p.IsAdmin() && !p.OwnsCustomer(customer) {
			return Forbidden("orders can only be placed for your own customer account")
		}

		rest, err := r.Restaurants().FindByID(ctx, in.RestaurantID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("Restaurant", in.RestaurantID)
		}
		if err != nil {
			return Internal(err)
		}
		if !rest.Active {
			return BusinessRule(CodeRestaurantInactive, fmt.Sprintf("restaurant '%s' is not active", rest.Name))
		}

		if len(in.Items) == 0 {
			return BusinessRule(CodeEmptyItems, "order must contain at least one item")
		}

		order := model.NewOrder(
			customer.ID,
			rest.ID,
			strings.TrimSpace(in.DeliveryAddress),
			strings.TrimSpace(in.Notes),
			rest.DeliveryFee,
			u.clock.Now(),
		)

		// 単価は商品の現在価格をスナップショット
		for _, line := range in.Items {
			prod, err := loadOrderableProduct(ctx, r, line.ProductID, rest.ID)
			if err != nil {
				return err
			}
			if _, err := order.AddItem(prod.ID, prod.Name, prod.Price, line.Quantity); err != nil {
				return fromDomainError(err)
			}
		}

		number, err := u.nextOrderNumber(ctx, r)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := r.Orders().Create(ctx, order); err != nil {
			return Internal(err)
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, order.Items); err != nil {
			return Internal(err)
		}

		out = toOrderOutput(*order, customer.Name, rest.Name)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細追加（同じ商品なら数量を加算）
func (u *OrderUsecase) AddItem(ctx context.Context, p Principal, orderID int64, line OrderLineInput) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if err := requireBuyer(ctx, r, p, order.CustomerID); err != nil {
			return err
		}

		prod, err := loadOrderableProduct(ctx, r, line.ProductID, order.RestaurantID)
		if err != nil {
			return err
		}
		if !order.IsMutable() {
			return fromDomainError(model.ErrOrderNotPending)
		}

		before := len(order.Items)
		item, err := order.AddItem(prod.ID, prod.Name, prod.Price, line.Quantity)
		if err != nil {
			return fromDomainError(err)
		}

		//新しい行なら作成、既存行なら数量と小計を更新
		if len(order.Items) > before {
			if err := r.OrderItems().CreateBulk(ctx, order.ID, order.Items[before:]); err != nil {
				return Internal(err)
			}
		} else {
			if err := r.OrderItems().Update(ctx, *item); err != nil {
				return Internal(err)
			}
		}

		if err := saveOrder(ctx, r, &order); err != nil {
			return err
		}

		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細削除（PENDING のみ）
func (u *OrderUsecase) RemoveItem(ctx context.Context, p Principal, orderID int64, itemID int64) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if err := requireBuyer(ctx, r, p, order.CustomerID); err != nil {
			return err
		}

		removed, err := order.RemoveItem(itemID)
		if err != nil {
			return fromDomainError(err)
		}
		if err := r.OrderItems().Delete(ctx, removed.ID); err != nil {
			return Internal(err)
		}
		if err := saveOrder(ctx, r, &order); err != nil {
			return err
		}

		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 注文確定（PENDING -> CONFIRMED）
func (u *OrderUsecase) ConfirmOrder(ctx context.Context, p Principal, orderID int64) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if err := requireBuyer(ctx, r, p, order.CustomerID); err != nil {
			return err
		}

		before := order.Status
		if err := order.Confirm(); err != nil {
			return fromDomainError(err)
		}
		if err := saveOrder(ctx, r, &order); err != nil {
			return err
		}
		if err := u.audit(ctx, r, p, model.AuditActionUpdateOrderStatus, order.ID,
			map[string]string{"status": string(before)},
			map[string]string{"status": string(order.Status)},
		); err != nil {
			return err
		}

		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ステータス更新（遷移表にあるものだけ）
func (u *OrderUsecase) UpdateStatus(ctx context.Context, p Principal, orderID int64, status string) (OrderOutput, error) {
	next, ok := model.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return OrderOutput{}, Validation(map[string]string{"status": "unknown status"})
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		//RESTAURANTE は自分のレストランの注文だけ
		if !p.IsAdmin() && !p.OwnsRestaurant(order.RestaurantID) {
			return Forbidden("only ADMIN or the owning restaurant can change this order")
		}

		before := order.Status
		if err := order.TransitionTo(next); err != nil {
			if errors.Is(err, model.ErrInvalidTransition) {
				return BusinessRule(CodeInvalidTransition,
					fmt.Sprintf("cannot change order status from %s to %s", before, next))
			}
			return fromDomainError(err)
		}
		if err := saveOrder(ctx, r, &order); err != nil {
			return err
		}
		if err := u.audit(ctx, r, p, model.AuditActionUpdateOrderStatus, order.ID,
			map[string]string{"status": string(before)},
			map[string]string{"status": string(order.Status)},
		); err != nil {
			return err
		}

		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// キャンセル（理由は notes に追記）
func (u *OrderUsecase) CancelOrder(ctx context.Context, p Principal, orderID int64, reason string) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if err := requireBuyer(ctx, r, p, order.CustomerID); err != nil {
			return err
		}

		before := order.Status
		if err := order.Cancel(reason); err != nil {
			return fromDomainError(err)
		}
		if err := saveOrder(ctx, r, &order); err != nil {
			return err
		}
		if err := u.audit(ctx, r, p, model.AuditActionCancelOrder, order.ID,
			map[string]string{"status": string(before)},
			map[string]string{"status": string(order.Status), "reason": strings.TrimSpace(reason)},
		); err != nil {
			return err
		}

		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 合計の試算。保存はしない。
func (u *OrderUsecase) CalculateTotal(ctx context.Context, in CalculateTotalInput) (TotalOutput, error) {
	var out TotalOutput

	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		rest, err := r.Restaurants().FindByID(ctx, in.RestaurantID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("Restaurant", in.RestaurantID)
		}
		if err != nil {
			return Internal(err)
		}
		if len(in.Items) == 0 {
			return BusinessRule(CodeEmptyItems, "at least one item is required")
		}

		items := make([]model.OrderItem, 0, len(in.Items))
		lines := make([]TotalLineOutput, 0, len(in.Items))
		for _, line := range in.Items {
			if line.Quantity < 1 {
				return fromDomainError(model.ErrInvalidQuantity)
			}
			prod, err := r.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("Product", line.ProductID)
			}
			if err != nil {
				return Internal(err)
			}
			if !prod.Available {
				return BusinessRule(CodeProductUnavailable, fmt.Sprintf("product '%s' is not available", prod.Name))
			}

			it := model.OrderItem{
				ProductID:           prod.ID,
				ProductNameSnapshot: prod.Name,
				UnitPriceSnapshot:   prod.Price,
				Quantity:            line.Quantity,
			}
			it.RecalculateSubtotal()
			items = append(items, it)
			lines = append(lines, TotalLineOutput{
				ProductID:   it.ProductID,
				ProductName: it.ProductNameSnapshot,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPriceSnapshot,
				Subtotal:    it.Subtotal,
			})
		}

		subtotal, total := model.CalculateTotals(items, rest.DeliveryFee)
		out = TotalOutput{
			Subtotal:    subtotal,
			DeliveryFee: rest.DeliveryFee,
			Total:       total,
			Items:       lines,
		}
		return nil
	})
	if err != nil {
		return TotalOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		order, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetOrderByNumber(ctx context.Context, number string) (OrderOutput, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return OrderOutput{}, Validation(map[string]string{"number": "required"})
	}

	var out OrderOutput
	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		header, err := r.Orders().FindByNumber(ctx, number)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundBy("Order", "number", number)
		}
		if err != nil {
			return Internal(err)
		}
		order, err := loadOrder(ctx, r, header.ID)
		if err != nil {
			return err
		}
		out, err = u.withNames(ctx, r, order)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 注文一覧（ステータス・期間・ページ）
func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (Page[OrderOutput], error) {
	f := repo.OrderListFilter{From: in.From, To: in.To}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := model.ParseOrderStatus(strings.ToUpper(s))
		if !ok {
			return Page[OrderOutput]{}, Validation(map[string]string{"status": "unknown status"})
		}
		f.Status = &st
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return Page[OrderOutput]{}, Validation(map[string]string{"from": "must not be after to"})
	}

	q, err := in.Page.toPageQuery(orderSortColumns)
	if err != nil {
		return Page[OrderOutput]{}, err
	}
	f.Page = q

	var page Page[OrderOutput]
	err = u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, f)
		if err != nil {
			return Internal(err)
		}
		outs, err := u.toOrderOutputs(ctx, r, orders)
		if err != nil {
			return err
		}
		page = newPage(outs, q, total)
		return nil
	})
	if err != nil {
		return Page[OrderOutput]{}, err
	}
	return page, nil
}

// 顧客の注文一覧（ADMIN / CLIENTE）
func (u *OrderUsecase) ListByCustomer(ctx context.Context, p Principal, customerID int64) ([]OrderOutput, error) {
	if !p.HasRole(model.RoleAdmin, model.RoleCustomer) {
		return nil, Forbidden("")
	}

	var outs []OrderOutput
	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().FindByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("Customer", customerID)
			}
			return Internal(err)
		}
		if !p.IsAdmin() && !p.OwnsCustomer(customer) {
			return Forbidden("only ADMIN or the customer can list these orders")
		}

		orders, err := r.Orders().ListByCustomer(ctx, customerID)
		if err != nil {
			return Internal(err)
		}
		outs, err = u.toOrderOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// レストランの注文一覧（ADMIN / 所有 RESTAURANTE）
func (u *OrderUsecase) ListByRestaurant(ctx context.Context, p Principal, restaurantID int64, status string) ([]OrderOutput, error) {
	if !p.IsAdmin() && !p.OwnsRestaurant(restaurantID) {
		return nil, Forbidden("only ADMIN or the owning restaurant can list these orders")
	}

	var st *model.OrderStatus
	if s := strings.TrimSpace(status); s != "" {
		parsed, ok := model.ParseOrderStatus(strings.ToUpper(s))
		if !ok {
			return nil, Validation(map[string]string{"status": "unknown status"})
		}
		st = &parsed
	}

	var outs []OrderOutput
	err := u.tx.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Restaurants().FindByID(ctx, restaurantID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("Restaurant", restaurantID)
			}
			return Internal(err)
		}

		orders, err := r.Orders().ListByRestaurant(ctx, restaurantID, st)
		if err != nil {
			return Internal(err)
		}
		outs, err = u.toOrderOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// =====================
// helpers
// =====================

// ヘッダー + 明細を読み込む
func loadOrder(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	order, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NotFound("Order", orderID)
	}
	if err != nil {
		return model.Order{}, Internal(err)
	}

	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return model.Order{}, Internal(err)
	}
	order.Items = items
	return order, nil
}

// 注文に入れられる商品か（存在・販売中・同じレストラン）
func loadOrderableProduct(ctx context.Context, r repo.TxRepos, productID int64, restaurantID int64) (model.Product, error) {
	prod, err := r.Products().FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFound("Product", productID)
	}
	if err != nil {
		return model.Product{}, Internal(err)
	}
	if !prod.Available {
		return model.Product{}, BusinessRule(CodeProductUnavailable, fmt.Sprintf("product '%s' is not available", prod.Name))
	}
	if !prod.BelongsTo(restaurantID) {
		return model.Product{}, BusinessRule(CodeProductMismatch,
			fmt.Sprintf("product %d does not belong to restaurant %d", prod.ID, restaurantID))
	}
	return prod, nil
}

func saveOrder(ctx context.Context, r repo.TxRepos, order *model.Order) error {
	err := r.Orders().Update(ctx, order)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrVersionConflict):
		return concurrentModification("Order", order.ID)
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("Order", order.ID)
	}
	return Internal(err)
}

func (u *OrderUsecase) nextOrderNumber(ctx context.Context, r repo.TxRepos) (string, error) {
	for i := 0; i < maxOrderNumberAttempts; i++ {
		n := u.numbers.Next()
		exists, err := r.Orders().ExistsByNumber(ctx, n)
		if err != nil {
			return "", Internal(err)
		}
		if !exists {
			return n, nil
		}
	}
	return "", &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "could not generate a unique order number",
	}
}

func (u *OrderUsecase) withNames(ctx context.Context, r repo.TxRepos, order model.Order) (OrderOutput, error) {
	names := newNameLookup(r)
	cname, err := names.customer(ctx, order.CustomerID)
	if err != nil {
		return OrderOutput{}, err
	}
	rname, err := names.restaurant(ctx, order.RestaurantID)
	if err != nil {
		return OrderOutput{}, err
	}
	return toOrderOutput(order, cname, rname), nil
}

// 一覧用。明細はまとめて取得し、顧客名・レストラン名は ID ごとに1回だけ引く。
func (u *OrderUsecase) toOrderOutputs(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	if len(orders) == 0 {
		return outs, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, Internal(err)
	}

	names := newNameLookup(r)
	for _, o := range orders {
		cname, err := names.customer(ctx, o.CustomerID)
		if err != nil {
			return nil, err
		}
		rname, err := names.restaurant(ctx, o.RestaurantID)
		if err != nil {
			return nil, err
		}
		o.Items = itemsByOrder[o.ID]
		outs = append(outs, toOrderOutput(o, cname, rname))
	}
	return outs, nil
}

// 顧客名・レストラン名のキャッシュ（1リクエスト内）
type nameLookup struct {
	r           repo.TxRepos
	customers   map[int64]string
	restaurants map[int64]string
}

func newNameLookup(r repo.TxRepos) *nameLookup {
	return &nameLookup{r: r, customers: map[int64]string{}, restaurants: map[int64]string{}}
}

func (n *nameLookup) customer(ctx context.Context, id int64) (string, error) {
	if name, ok := n.customers[id]; ok {
		return name, nil
	}
	c, err := n.r.Customers().FindByID(ctx, id)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return "", Internal(err)
	}
	n.customers[id] = c.Name
	return c.Name, nil
}

func (n *nameLookup) restaurant(ctx context.Context, id int64) (string, error) {
	if name, ok := n.restaurants[id]; ok {
		return name, nil
	}
	rest, err := n.r.Restaurants().FindByID(ctx, id)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return "", Internal(err)
	}
	n.restaurants[id] = rest.Name
	return rest.Name, nil
}

func toOrderOutput(o model.Order, customerName, restaurantName string) OrderOutput {
	return OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		DeliveryAddress: o.DeliveryAddress,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		Notes:           o.Notes,
		Status:          o.Status,
		CustomerID:      o.CustomerID,
		CustomerName:    customerName,
		RestaurantID:    o.RestaurantID,
		RestaurantName:  restaurantName,
		Items:           toItemOutputs(o.Items),
	}
}

func toItemOutputs(items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPriceSnapshot,
			Subtotal:    it.Subtotal,
		})
	}
	return outs
}

// 監査ログ（同じトランザクションで書く）
// ADMIN 以外は注文した Customer 本人だけ
func requireBuyer(ctx context.Context, r repo.TxRepos, p Principal, customerID int64) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role != model.RoleCustomer {
		return Forbidden("")
	}
	customer, err := r.Customers().FindByID(ctx, customerID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return Internal(err)
	}
	if err != nil || !p.OwnsCustomer(customer) {
		return Forbidden("this order belongs to another customer")
	}
	return nil
}

func (u *OrderUsecase) audit(ctx context.Context, r repo.TxRepos, p Principal, action model.AuditAction, orderID int64, before, after map[string]string) error {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  p.UserID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return Internal(err)
	}
	return nil
}

package usecase_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"
	"delivery/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// TxManager mock
// =====================

// TxManagerMock は WithinTx / WithinReadOnlyTx の中で渡す repos を固定して unit テストを回す。
// repos が memStore なら、fn がエラーを返したときに中身を元に戻す（rollback）。
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	s, ok := m.Repos.(*memStore)
	if !ok {
		return fn(m.Repos)
	}
	snap := s.snapshot()
	if err := fn(m.Repos); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (m *TxManagerMock) WithinReadOnlyTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

func newTxMock(repos repo.TxRepos) *TxManagerMock {
	tx := &TxManagerMock{Repos: repos}
	tx.On("WithinTx", mock.Anything).Return(nil).Maybe()
	tx.On("WithinReadOnlyTx", mock.Anything).Return(nil).Maybe()
	return tx
}

// =====================
// metrics / clock / 注文番号
// =====================

type OrderMetricsMock struct{ mock.Mock }

func (m *OrderMetricsMock) OrderProcessed(success bool, elapsed time.Duration) {
	m.Called(success, elapsed)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// 決まった順で番号を返す
type seqNumbers struct {
	list []string
	i    int
}

func (s *seqNumbers) Next() string {
	n := s.list[s.i%len(s.list)]
	s.i++
	return n
}

// =====================
// in-memory repos（注文まわりは呼び出しが多いので mock ではなく fake）
// =====================

type memStore struct {
	nextID      int64
	orders      map[int64]model.Order
	items       map[int64]model.OrderItem
	products    map[int64]model.Product
	restaurants map[int64]model.Restaurant
	customers   map[int64]model.Customer
	audits      []model.AuditLog
	reports     repo.ReportRepository

	// true のとき注文ヘッダーの Update は常に version 衝突
	conflictOnUpdate bool
	// 監査ログの書き込みを失敗させる
	auditErr error
}

func newMemStore() *memStore {
	return &memStore{
		nextID:      100,
		orders:      map[int64]model.Order{},
		items:       map[int64]model.OrderItem{},
		products:    map[int64]model.Product{},
		restaurants: map[int64]model.Restaurant{},
		customers:   map[int64]model.Customer{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	orders      map[int64]model.Order
	items       map[int64]model.OrderItem
	products    map[int64]model.Product
	restaurants map[int64]model.Restaurant
	customers   map[int64]model.Customer
	audits      []model.AuditLog
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		orders:      copyMap(s.orders),
		items:       copyMap(s.items),
		products:    copyMap(s.products),
		restaurants: copyMap(s.restaurants),
		customers:   copyMap(s.customers),
		audits:      append([]model.AuditLog(nil), s.audits...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.orders = snap.orders
	s.items = snap.items
	s.products = snap.products
	s.restaurants = snap.restaurants
	s.customers = snap.customers
	s.audits = snap.audits
}

func (s *memStore) Orders() repo.OrderRepository           { return memOrders{s} }
func (s *memStore) OrderItems() repo.OrderItemRepository   { return memOrderItems{s} }
func (s *memStore) Products() repo.ProductRepository       { return memProducts{s} }
func (s *memStore) Restaurants() repo.RestaurantRepository { return memRestaurants{s} }
func (s *memStore) Customers() repo.CustomerRepository     { return memCustomers{s} }
func (s *memStore) AuditLogs() repo.AuditLogRepository     { return memAudits{s} }
func (s *memStore) Reports() repo.ReportRepository         { return s.reports }

func (s *memStore) itemsOf(orderID int64) []model.OrderItem {
	var out []model.OrderItem
	for _, it := range s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- orders ---

type memOrders struct{ s *memStore }

func (r memOrders) Create(ctx context.Context, o *model.Order) error {
	o.ID = r.s.id()
	cp := *o
	cp.Items = nil
	r.s.orders[o.ID] = cp
	return nil
}

func (r memOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) FindByNumber(ctx context.Context, number string) (model.Order, error) {
	for _, o := range r.s.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (r memOrders) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	_, err := r.FindByNumber(ctx, number)
	return err == nil, nil
}

func (r memOrders) Update(ctx context.Context, o *model.Order) error {
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if r.s.conflictOnUpdate || stored.Version != o.Version {
		return repo.ErrVersionConflict
	}
	o.Version++
	cp := *o
	cp.Items = nil
	r.s.orders[o.ID] = cp
	return nil
}

func (r memOrders) sorted(keep func(model.Order) bool) []model.Order {
	var out []model.Order
	for _, o := range r.s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memOrders) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	all := r.sorted(func(o model.Order) bool {
		return f.Status == nil || o.Status == *f.Status
	})
	total := int64(len(all))
	start := f.Page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memOrders) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.sorted(func(o model.Order) bool { return o.CustomerID == customerID }), nil
}

func (r memOrders) ListByRestaurant(ctx context.Context, restaurantID int64, status *model.OrderStatus) ([]model.Order, error) {
	return r.sorted(func(o model.Order) bool {
		return o.RestaurantID == restaurantID && (status == nil || o.Status == *status)
	}), nil
}

// --- order items ---

type memOrderItems struct{ s *memStore }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for i := range items {
		items[i].ID = r.s.id()
		items[i].OrderID = orderID
		r.s.items[items[i].ID] = items[i]
	}
	return nil
}

func (r memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return r.s.itemsOf(orderID), nil
}

func (r memOrderItems) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	out := map[int64][]model.OrderItem{}
	for _, id := range orderIDs {
		out[id] = r.s.itemsOf(id)
	}
	return out, nil
}

func (r memOrderItems) Update(ctx context.Context, item model.OrderItem) error {
	if _, ok := r.s.items[item.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.items[item.ID] = item
	return nil
}

func (r memOrderItems) Delete(ctx context.Context, itemID int64) error {
	if _, ok := r.s.items[itemID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.items, itemID)
	return nil
}

func (r memOrderItems) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	for _, it := range r.s.items {
		if it.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// --- products ---

type memProducts struct{ s *memStore }

func (r memProducts) Create(ctx context.Context, p *model.Product) error {
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, int64, error) {
	panic("not used in usecase tests")
}

func (r memProducts) ListByRestaurant(ctx context.Context, restaurantID int64, available *bool) ([]model.Product, error) {
	panic("not used in usecase tests")
}

func (r memProducts) ListAvailableByCategory(ctx context.Context, category string) ([]model.Product, error) {
	panic("not used in usecase tests")
}

func (r memProducts) SearchAvailableByName(ctx context.Context, name string) ([]model.Product, error) {
	panic("not used in usecase tests")
}

func (r memProducts) Update(ctx context.Context, p model.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.products[p.ID] = p
	return nil
}

func (r memProducts) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// --- restaurants ---

type memRestaurants struct{ s *memStore }

func (r memRestaurants) Create(ctx context.Context, rest *model.Restaurant) error {
	rest.ID = r.s.id()
	r.s.restaurants[rest.ID] = *rest
	return nil
}

func (r memRestaurants) FindByID(ctx context.Context, id int64) (model.Restaurant, error) {
	rest, ok := r.s.restaurants[id]
	if !ok {
		return model.Restaurant{}, repo.ErrNotFound
	}
	return rest, nil
}

func (r memRestaurants) FindByName(ctx context.Context, name string) (model.Restaurant, bool, error) {
	for _, rest := range r.s.restaurants {
		if strings.EqualFold(rest.Name, name) {
			return rest, true, nil
		}
	}
	return model.Restaurant{}, false, nil
}

func (r memRestaurants) List(ctx context.Context, f repo.RestaurantListFilter) ([]model.Restaurant, int64, error) {
	panic("not used in usecase tests")
}

func (r memRestaurants) ListActive(ctx context.Context) ([]model.Restaurant, error) {
	panic("not used in usecase tests")
}

func (r memRestaurants) ListActiveByCategory(ctx context.Context, category string) ([]model.Restaurant, error) {
	panic("not used in usecase tests")
}

func (r memRestaurants) Update(ctx context.Context, rest model.Restaurant) error {
	r.s.restaurants[rest.ID] = rest
	return nil
}

// --- customers ---

type memCustomers struct{ s *memStore }

func (r memCustomers) Create(ctx context.Context, c *model.Customer) error {
	c.ID = r.s.id()
	r.s.customers[c.ID] = *c
	return nil
}

func (r memCustomers) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return c, nil
}

func (r memCustomers) FindByEmail(ctx context.Context, email string) (model.Customer, error) {
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return model.Customer{}, repo.ErrNotFound
}

func (r memCustomers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r memCustomers) ListActive(ctx context.Context) ([]model.Customer, error) {
	panic("not used in usecase tests")
}

func (r memCustomers) SearchByName(ctx context.Context, name string) ([]model.Customer, error) {
	panic("not used in usecase tests")
}

func (r memCustomers) Update(ctx context.Context, c model.Customer) error {
	r.s.customers[c.ID] = c
	return nil
}

// --- audit logs ---

type memAudits struct{ s *memStore }

func (r memAudits) Create(ctx context.Context, log model.AuditLog) error {
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	log.ID = r.s.id()
	r.s.audits = append(r.s.audits, log)
	return nil
}

func (r memAudits) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	return r.s.audits, int64(len(r.s.audits)), nil
}

// =====================
// helpers
// =====================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// HTTPError の status と code を確認する
func requireHTTPError(t *testing.T, err error, status int, code string) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "err=%v", err)
	assert.Equal(t, status, he.Status)
	assert.Equal(t, code, he.Code)
	return he
}

var (
	adminPrincipal    = usecase.Principal{UserID: 1, Email: "admin@delivery.com", Role: model.RoleAdmin}
	customerPrincipal = usecase.Principal{UserID: 2, Email: "joao@email.com", Role: model.RoleCustomer}
)

func restaurantPrincipal(restaurantID int64) usecase.Principal {
	rid := restaurantID
	return usecase.Principal{UserID: 3, Email: "pizza@palace.com", Role: model.RoleRestaurant, RestaurantID: &rid}
}

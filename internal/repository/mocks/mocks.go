// Package mocks はrepositoryインターフェースのtestifyモック。
package mocks

import (
	"context"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos *TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxRepos struct {
	UsersRepo      *UserRepoMock
	CategoriesRepo *CategoryRepoMock
	ProductsRepo   *ProductRepoMock
	InventoryRepo  *InventoryRepoMock
	CartItemsRepo  *CartItemRepoMock
	OrdersRepo     *OrderRepoMock
	OrderItemsRepo *OrderItemRepoMock
	AuditLogsRepo  *AuditLogRepoMock
}

// 全部のモックを作って返す
func NewTxRepos() *TxRepos {
	return &TxRepos{
		UsersRepo:      new(UserRepoMock),
		CategoriesRepo: new(CategoryRepoMock),
		ProductsRepo:   new(ProductRepoMock),
		InventoryRepo:  new(InventoryRepoMock),
		CartItemsRepo:  new(CartItemRepoMock),
		OrdersRepo:     new(OrderRepoMock),
		OrderItemsRepo: new(OrderItemRepoMock),
		AuditLogsRepo:  new(AuditLogRepoMock),
	}
}

func (r *TxRepos) Users() repo.UserRepository           { return r.UsersRepo }
func (r *TxRepos) Categories() repo.CategoryRepository  { return r.CategoriesRepo }
func (r *TxRepos) Products() repo.ProductRepository     { return r.ProductsRepo }
func (r *TxRepos) Inventory() repo.InventoryRepository  { return r.InventoryRepo }
func (r *TxRepos) CartItems() repo.CartItemRepository   { return r.CartItemsRepo }
func (r *TxRepos) Orders() repo.OrderRepository         { return r.OrdersRepo }
func (r *TxRepos) OrderItems() repo.OrderItemRepository { return r.OrderItemsRepo }
func (r *TxRepos) AuditLogs() repo.AuditLogRepository   { return r.AuditLogsRepo }

var (
	_ repo.TransactionManager = (*TxManagerMock)(nil)
	_ repo.TxRepos            = (*TxRepos)(nil)
)

// =====================
// UserRepository
// =====================

type UserRepoMock struct{ mock.Mock }

var _ repo.UserRepository = (*UserRepoMock)(nil)

func userArg(args mock.Arguments) (*model.User, error) {
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return userArg(m.Called(ctx, id))
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return userArg(m.Called(ctx, username))
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return userArg(m.Called(ctx, email))
}

func (m *UserRepoMock) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, id int64, username string, email string) error {
	return m.Called(ctx, id, username, email).Error(0)
}

func (m *UserRepoMock) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *UserRepoMock) UpdateEnabled(ctx context.Context, id int64, enabled bool) error {
	return m.Called(ctx, id, enabled).Error(0)
}

func (m *UserRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// =====================
// CategoryRepository
// =====================

type CategoryRepoMock struct{ mock.Mock }

var _ repo.CategoryRepository = (*CategoryRepoMock)(nil)

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CategoryRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// ProductRepository
// =====================

type ProductRepoMock struct{ mock.Mock }

var _ repo.ProductRepository = (*ProductRepoMock)(nil)

func productsArg(args mock.Arguments) ([]model.Product, error) {
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	return productsArg(m.Called(ctx))
}

func (m *ProductRepoMock) ListPage(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByModel(ctx context.Context, modelCode string) (model.Product, error) {
	args := m.Called(ctx, modelCode)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return productsArg(m.Called(ctx, categoryID))
}

func (m *ProductRepoMock) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	return productsArg(m.Called(ctx, keyword))
}

func (m *ProductRepoMock) ListAvailable(ctx context.Context) ([]model.Product, error) {
	return productsArg(m.Called(ctx))
}

func (m *ProductRepoMock) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// =====================
// InventoryRepository
// =====================

type InventoryRepoMock struct{ mock.Mock }

var _ repo.InventoryRepository = (*InventoryRepoMock)(nil)

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

// =====================
// CartItemRepository
// =====================

type CartItemRepoMock struct{ mock.Mock }

var _ repo.CartItemRepository = (*CartItemRepoMock)(nil)

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID, qty)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID, qty)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Delete(ctx context.Context, userID int64, productID int64) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *CartItemRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

// =====================
// OrderRepository
// =====================

type OrderRepoMock struct{ mock.Mock }

var _ repo.OrderRepository = (*OrderRepoMock)(nil)

func ordersArg(args mock.Arguments) ([]model.Order, error) {
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	return ordersArg(m.Called(ctx, userID))
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	return ordersArg(m.Called(ctx, f))
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *OrderRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(map[model.OrderStatus]int64)
	return out, args.Error(1)
}

func (m *OrderRepoMock) Revenue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

func (m *OrderRepoMock) TotalsByUserID(ctx context.Context, userID int64) (repo.OrderTotals, error) {
	args := m.Called(ctx, userID)
	t, _ := args.Get(0).(repo.OrderTotals)
	return t, args.Error(1)
}

// =====================
// OrderItemRepository
// =====================

type OrderItemRepoMock struct{ mock.Mock }

var _ repo.OrderItemRepository = (*OrderItemRepoMock)(nil)

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	out, _ := args.Get(0).(map[int64][]model.OrderItem)
	return out, args.Error(1)
}

func (m *OrderItemRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// AuditLogRepository
// =====================

type AuditLogRepoMock struct{ mock.Mock }

var _ repo.AuditLogRepository = (*AuditLogRepoMock)(nil)

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

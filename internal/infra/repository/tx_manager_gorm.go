package repository

import (
	"context"

	repo "estore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users      repo.UserRepository
	categories repo.CategoryRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	cartItems  repo.CartItemRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Users() repo.UserRepository           { return r.users }
func (r *txReposGorm) Categories() repo.CategoryRepository  { return r.categories }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposGorm) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// repoはどれも同じ *gorm.DB から作る
func newTxRepos(db *gorm.DB) *txReposGorm {
	return &txReposGorm{
		users:      NewUserGormRepository(db),
		categories: NewCategoryGormRepository(db),
		products:   NewProductGormRepository(db),
		inventory:  NewInventoryGormRepository(db),
		cartItems:  NewCartItemGormRepository(db),
		orders:     NewOrderGormRepository(db),
		orderItems: NewOrderItemGormRepository(db),
		auditLogs:  NewAuditLogGormRepository(db),
	}
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

var _ repo.TransactionManager = (*TxManagerGorm)(nil)

// fnがerrorを返したらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(newTxRepos(tx))
	})
}

// トランザクション外で使うrepo一式（main/テスト用）
func NewRepos(db *gorm.DB) repo.TxRepos {
	return newTxRepos(db)
}

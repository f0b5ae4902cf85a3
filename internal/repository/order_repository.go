package repository

import (
	"context"

	"estore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 管理者用の注文一覧条件
type OrderListFilter struct {
	Status *model.OrderStatus
	UserID *int64
}

// ユーザーごとの集計（キャンセル以外）
type OrderTotals struct {
	Count int64
	Spent decimal.Decimal
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	Count(ctx context.Context) (int64, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)

	//キャンセル以外の合計
	Revenue(ctx context.Context) (decimal.Decimal, error)
	TotalsByUserID(ctx context.Context, userID int64) (OrderTotals, error)
}

package repository

import (
	"context"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

var _ repo.OrderRepository = (*OrderGormRepository)(nil)

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return order, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).First(&o, orderID).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

// 新しい順（同時刻はID降順）
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.List(ctx, repo.OrderListFilter{UserID: &userID})
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var orders []model.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	return affected(res)
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}

func (r *OrderGormRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[model.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// キャンセル以外の売上合計
func (r *OrderGormRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(r.db.WithContext(ctx).Model(&model.Order{}).Where("status <> ?", model.OrderStatusCancelled))
}

func (r *OrderGormRepository) TotalsByUserID(ctx context.Context, userID int64) (repo.OrderTotals, error) {
	base := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ? AND status <> ?", userID, model.OrderStatusCancelled)

	var n int64
	if err := base.Session(&gorm.Session{}).Count(&n).Error; err != nil {
		return repo.OrderTotals{}, err
	}
	spent, err := r.sum(base.Session(&gorm.Session{}))
	if err != nil {
		return repo.OrderTotals{}, err
	}
	return repo.OrderTotals{Count: n, Spent: spent}, nil
}

func (r *OrderGormRepository) sum(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

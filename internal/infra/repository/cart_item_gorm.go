package repository

import (
	"context"
	"time"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

var _ repo.CartItemRepository = (*CartItemGormRepository)(nil)

func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	var it model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&it).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}
	return it, nil
}

// (user_id, product_id) の一意制約に対するupsertで、同じ商品は1行に合算する
func (r *CartItemGormRepository) AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error) {
	it := model.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&it).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}
	return r.FindByUserAndProduct(ctx, userID, productID)
}

func (r *CartItemGormRepository) SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty)
	if err := affected(res); err != nil {
		return model.CartItem{}, err
	}
	return r.FindByUserAndProduct(ctx, userID, productID)
}

func (r *CartItemGormRepository) Delete(ctx context.Context, userID int64, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.CartItem{}).Error
}

package repository

import (
	"context"

	"estore/internal/domain/model"
)

// カート明細。カートは (user_id, product_id) の行の集まり。
type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	//行がなければ作り、あれば数量を加算する
	AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error)

	//数量を上書き
	SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error)

	//存在しなくてもエラーにしない
	Delete(ctx context.Context, userID int64, productID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteByProductID(ctx context.Context, productID int64) error
}

package repository

import (
	"context"

	"estore/internal/domain/model"
)

// 一覧のソート・ページング条件
type ProductListQuery struct {
	Page      int // 0始まり
	Size      int
	SortBy    string // created_at/name/price/stock/id
	Ascending bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//新しい順に全件
	List(ctx context.Context) ([]model.Product, error)
	ListPage(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByModel(ctx context.Context, modelCode string) (model.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)

	//name/model/descriptionの部分一致（大文字小文字を区別しない）
	Search(ctx context.Context, keyword string) ([]model.Product, error)

	//stock > 0 のものだけ
	ListAvailable(ctx context.Context) ([]model.Product, error)

	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}

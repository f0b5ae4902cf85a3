package repository

import (
	"context"
	"strings"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)

// ソートに使ってよい列
var productSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"id":         "id",
}

func (r *ProductGormRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.find(r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC"))
}

// ソート＋ページング（pageは0始まり）
func (r *ProductGormRepository) ListPage(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var total int64
	tx := r.db.WithContext(ctx).Model(&model.Product{})
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	col, ok := productSortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	order := clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: !q.Ascending}

	items, err := r.find(tx.Order(order).Order("id ASC").Offset(q.Page * q.Size).Limit(q.Size))
	if err != nil {
		return []model.Product{}, 0, err
	}
	return items, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByModel(ctx context.Context, modelCode string) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("model = ?", modelCode).First(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id ASC"))
}

// LOWER()で比較するのでpostgres/sqliteどちらでも大文字小文字を区別しない
func (r *ProductGormRepository) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(keyword))) + "%"
	return r.find(r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(model) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", like, like, like).
		Order("id ASC"))
}

func (r *ProductGormRepository) ListAvailable(ctx context.Context) ([]model.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("stock > 0").Order("id ASC"))
}

func (r *ProductGormRepository) find(tx *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

// 在庫がthreshold以下の商品数
func (r *ProductGormRepository) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("stock <= ?", threshold).Count(&n).Error
	return n, err
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"model":       p.Model,
		"category_id": p.CategoryID,
		"stock":       p.Stock,
	})
	return affected(res)
}

func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Product{}, id))
}

// LIKEのワイルドカードをエスケープ
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

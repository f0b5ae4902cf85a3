package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx         repo.TransactionManager
	products   repo.ProductRepository
	categories repo.CategoryRepository
}

// DI
func NewProductUsecase(tx repo.TransactionManager, products repo.ProductRepository, categories repo.CategoryRepository) *ProductUsecase {
	return &ProductUsecase{tx: tx, products: products, categories: categories}
}

// sortBy（APIの名前） -> 列名
var productSortKeys = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"id":        "id",
}

// GET /api/products/page の入力
type ProductPageInput struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}

type ProductPage struct {
	Content       []model.Product `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
}

// 作成・更新の入力。Stockは必須なのでポインタで未指定を見分ける
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Model       string
	CategoryID  int64
	Stock       *int64
}

func (in ProductInput) normalize() (ProductInput, error) {
	out := ProductInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Model:       strings.TrimSpace(in.Model),
		CategoryID:  in.CategoryID,
		Stock:       in.Stock,
	}

	if n := utf8.RuneCountInString(out.Name); n < 2 || n > 100 {
		return out, NewValidationError("product name must be between 2 and 100 characters")
	}
	if !isPrintableText(out.Name) {
		return out, NewValidationError("product name contains invalid characters")
	}
	if utf8.RuneCountInString(out.Description) > 1000 {
		return out, NewValidationError("description must not exceed 1000 characters")
	}
	if !out.Price.IsPositive() {
		return out, NewValidationError("price must be greater than 0")
	}
	if !out.Price.Equal(out.Price.Round(2)) {
		return out, NewValidationError("price must have at most 2 decimal places")
	}
	if n := utf8.RuneCountInString(out.Model); n < 2 || n > 50 {
		return out, NewValidationError("model must be between 2 and 50 characters")
	}
	if !isPrintableText(out.Model) {
		return out, NewValidationError("model contains invalid characters")
	}
	if out.CategoryID <= 0 {
		return out, NewValidationError("categoryId is required")
	}
	if out.Stock == nil {
		return out, NewValidationError("stock is required")
	}
	if *out.Stock < 0 {
		return out, NewValidationError("stock must be >= 0")
	}
	return out, nil
}

func (u *ProductUsecase) List(ctx context.Context) ([]model.Product, error) {
	ps, err := u.products.List(ctx)
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return ps, nil
}

func (u *ProductUsecase) ListPage(ctx context.Context, in ProductPageInput) (ProductPage, error) {
	if in.Size < 1 || in.Size > 100 {
		return ProductPage{}, NewValidationError("invalid size")
	}
	// offset = page*size がint32に収まる範囲だけ
	if in.Page < 0 || in.Page > math.MaxInt32/in.Size {
		return ProductPage{}, NewValidationError("invalid page")
	}
	col, ok := productSortKeys[in.SortBy]
	if !ok {
		return ProductPage{}, NewValidationError("invalid sortBy")
	}
	var asc bool
	switch strings.ToLower(in.Direction) {
	case "asc":
		asc = true
	case "desc", "":
	default:
		return ProductPage{}, NewValidationError("invalid direction")
	}

	items, total, err := u.products.ListPage(ctx, repo.ProductListQuery{
		Page:      in.Page,
		Size:      in.Size,
		SortBy:    col,
		Ascending: asc,
	})
	if err != nil {
		return ProductPage{}, dbError(err)
	}

	return ProductPage{
		Content:       items,
		Page:          in.Page,
		Size:          in.Size,
		TotalElements: total,
		TotalPages:    int((total + int64(in.Size) - 1) / int64(in.Size)),
	}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found with id: %d", id)
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

func (u *ProductUsecase) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	if _, err := u.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []model.Product{}, NewNotFoundError("category not found with id: %d", categoryID)
		}
		return []model.Product{}, dbError(err)
	}

	ps, err := u.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return ps, nil
}

// name/model/descriptionの部分一致
func (u *ProductUsecase) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []model.Product{}, NewValidationError("search keyword is required")
	}
	if utf8.RuneCountInString(keyword) > 100 {
		return []model.Product{}, NewValidationError("search keyword too long")
	}

	ps, err := u.products.Search(ctx, keyword)
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return ps, nil
}

func (u *ProductUsecase) ListAvailable(ctx context.Context) ([]model.Product, error) {
	ps, err := u.products.ListAvailable(ctx)
	if err != nil {
		return []model.Product{}, dbError(err)
	}
	return ps, nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Product{}, err
	}

	if err := u.ensureCategory(ctx, u.categories, in.CategoryID); err != nil {
		return model.Product{}, err
	}
	if err := ensureModelFree(ctx, u.products, in.Model, 0); err != nil {
		return model.Product{}, err
	}

	p, err := u.products.Create(ctx, model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Model:       in.Model,
		CategoryID:  in.CategoryID,
		Stock:       *in.Stock,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Product{}, NewDuplicateError("product already exists with model: %s", in.Model)
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

// 在庫が変わったときは監査ログを残す
func (u *ProductUsecase) Update(ctx context.Context, actor model.Identity, id int64, in ProductInput) (model.Product, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Product{}, err
	}

	var out model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found with id: %d", id)
		}
		if err != nil {
			return dbError(err)
		}

		if err := u.ensureCategory(ctx, r.Categories(), in.CategoryID); err != nil {
			return err
		}
		if err := ensureModelFree(ctx, r.Products(), in.Model, id); err != nil {
			return err
		}

		after := before
		after.Name = in.Name
		after.Description = in.Description
		after.Price = in.Price
		after.Model = in.Model
		after.CategoryID = in.CategoryID
		after.Stock = *in.Stock

		err = r.Products().Update(ctx, after)
		if errors.Is(err, repo.ErrDuplicate) {
			return NewDuplicateError("product already exists with model: %s", in.Model)
		}
		if err != nil {
			return dbError(err)
		}

		if before.Stock != after.Stock {
			if err := writeAudit(ctx, r, actor, model.AuditActionUpdateStock, model.AuditResourceProduct, id,
				auditSnapshot{"stock": before.Stock},
				auditSnapshot{"stock": after.Stock}); err != nil {
				return err
			}
		}

		out, err = r.Products().FindByID(ctx, id)
		if err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

// 注文明細から参照されている商品は消せない。カートの行は一緒に消す
func (u *ProductUsecase) Delete(ctx context.Context, actor model.Identity, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found with id: %d", id)
		}
		if err != nil {
			return dbError(err)
		}

		n, err := r.OrderItems().CountByProductID(ctx, id)
		if err != nil {
			return dbError(err)
		}
		if n > 0 {
			return NewBusinessRuleError("cannot delete product %q: it appears in %d order item(s)", p.Name, n)
		}

		if err := r.CartItems().DeleteByProductID(ctx, id); err != nil {
			return dbError(err)
		}
		err = r.Products().Delete(ctx, id)
		if errors.Is(err, repo.ErrReferenced) {
			return NewBusinessRuleError("cannot delete product %q: it is still referenced", p.Name)
		}
		if err != nil {
			return dbError(err)
		}

		return writeAudit(ctx, r, actor, model.AuditActionDeleteProduct, model.AuditResourceProduct, id,
			auditSnapshot{"name": p.Name, "model": p.Model, "stock": p.Stock}, nil)
	})
}

func (u *ProductUsecase) ensureCategory(ctx context.Context, categories repo.CategoryRepository, categoryID int64) error {
	_, err := categories.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("category not found with id: %d", categoryID)
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

// 自分自身（excludeID）以外で同じ型番があれば409
func ensureModelFree(ctx context.Context, products repo.ProductRepository, modelCode string, excludeID int64) error {
	existing, err := products.FindByModel(ctx, modelCode)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dbError(err)
	}
	if existing.ID != excludeID {
		return NewDuplicateError("product already exists with model: %s", modelCode)
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
)

type CategoryUsecase struct {
	tx         repo.TransactionManager
	categories repo.CategoryRepository
	products   repo.ProductRepository
}

// DI
func NewCategoryUsecase(tx repo.TransactionManager, categories repo.CategoryRepository, products repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{tx: tx, categories: categories, products: products}
}

type CategoryInput struct {
	Name        string
	Description string
}

func (in CategoryInput) normalize() (CategoryInput, error) {
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return in, NewValidationError("category name must be between 2 and 50 characters")
	}
	if !isPrintableText(name) {
		return in, NewValidationError("category name contains invalid characters")
	}
	desc := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(desc) > 500 {
		return in, NewValidationError("description must not exceed 500 characters")
	}
	return CategoryInput{Name: name, Description: desc}, nil
}

// 名前・型番用：正しいUTF-8で制御文字を含まない
func isPrintableText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return []model.Category{}, dbError(err)
	}
	return cs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewNotFoundError("category not found with id: %d", id)
	}
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Category{}, err
	}

	//名前の重複チェック
	if err := u.ensureNameFree(ctx, in.Name, 0); err != nil {
		return model.Category{}, err
	}

	c, err := u.categories.Create(ctx, model.Category{Name: in.Name, Description: in.Description})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewDuplicateError("category already exists with name: %s", in.Name)
	}
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Category{}, err
	}

	c, err := u.Get(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	if err := u.ensureNameFree(ctx, in.Name, id); err != nil {
		return model.Category{}, err
	}

	c.Name = in.Name
	c.Description = in.Description
	err = u.categories.Update(ctx, c)
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewDuplicateError("category already exists with name: %s", in.Name)
	}
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return u.Get(ctx, id)
}

// 商品が1件でも紐づいていれば削除させない
func (u *CategoryUsecase) Delete(ctx context.Context, actor model.Identity, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("category not found with id: %d", id)
		}
		if err != nil {
			return dbError(err)
		}

		n, err := r.Products().CountByCategory(ctx, id)
		if err != nil {
			return dbError(err)
		}
		if n > 0 {
			return NewBusinessRuleError("cannot delete category %q: %d product(s) still reference it", c.Name, n)
		}

		err = r.Categories().Delete(ctx, id)
		if errors.Is(err, repo.ErrReferenced) {
			return NewBusinessRuleError("cannot delete category %q: products still reference it", c.Name)
		}
		if err != nil {
			return dbError(err)
		}

		return writeAudit(ctx, r, actor, model.AuditActionDeleteCategory, model.AuditResourceCategory, id,
			auditSnapshot{"name": c.Name}, nil)
	})
}

// 自分自身（excludeID）以外で同名があれば409
func (u *CategoryUsecase) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	existing, err := u.categories.FindByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dbError(err)
	}
	if existing.ID != excludeID {
		return NewDuplicateError("category already exists with name: %s", name)
	}
	return nil
}

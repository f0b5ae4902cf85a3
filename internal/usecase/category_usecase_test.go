package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
	"estore/internal/repository/mocks"
	"estore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategory_Create(t *testing.T) {
	categories := new(mocks.CategoryRepoMock)
	categories.On("FindByName", mock.Anything, "Books").Return(nil, repo.ErrNotFound)
	categories.On("Create", mock.Anything, model.Category{Name: "Books", Description: "paper"}).
		Return(model.Category{ID: 1, Name: "Books", Description: "paper"}, nil)

	c, err := usecase.NewCategoryUsecase(nil, categories, nil).
		Create(context.Background(), usecase.CategoryInput{Name: " Books ", Description: "paper"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
}

func TestCategory_Create_Duplicate(t *testing.T) {
	categories := new(mocks.CategoryRepoMock)
	categories.On("FindByName", mock.Anything, "Books").Return(model.Category{ID: 1, Name: "Books"}, nil)

	_, err := usecase.NewCategoryUsecase(nil, categories, nil).
		Create(context.Background(), usecase.CategoryInput{Name: "Books"})
	assertHTTPError(t, err, http.StatusConflict, "Books")
}

func TestCategory_Create_ShortName(t *testing.T) {
	_, err := usecase.NewCategoryUsecase(nil, new(mocks.CategoryRepoMock), nil).
		Create(context.Background(), usecase.CategoryInput{Name: "B"})
	assertHTTPError(t, err, http.StatusBadRequest, "category name")
}

// 同じ名前のまま更新するのは重複扱いしない
func TestCategory_Update_KeepName(t *testing.T) {
	categories := new(mocks.CategoryRepoMock)
	categories.On("FindByID", mock.Anything, int64(1)).Return(model.Category{ID: 1, Name: "Books"}, nil)
	categories.On("FindByName", mock.Anything, "Books").Return(model.Category{ID: 1, Name: "Books"}, nil)
	categories.On("Update", mock.Anything, model.Category{ID: 1, Name: "Books", Description: "new"}).Return(nil)

	_, err := usecase.NewCategoryUsecase(nil, categories, nil).
		Update(context.Background(), 1, usecase.CategoryInput{Name: "Books", Description: "new"})
	require.NoError(t, err)
	categories.AssertExpectations(t)
}

func TestCategory_Delete_WithProducts(t *testing.T) {
	tx, r := newTx()
	r.CategoriesRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Category{ID: 1, Name: "Books"}, nil)
	r.ProductsRepo.On("CountByCategory", mock.Anything, int64(1)).Return(int64(3), nil)

	err := usecase.NewCategoryUsecase(tx, nil, nil).Delete(context.Background(), admin, 1)
	assertHTTPError(t, err, http.StatusUnprocessableEntity, "3 product(s)")
	r.CategoriesRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategory_Delete(t *testing.T) {
	tx, r := newTx()
	r.CategoriesRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Category{ID: 1, Name: "Books"}, nil)
	r.ProductsRepo.On("CountByCategory", mock.Anything, int64(1)).Return(int64(0), nil)
	r.CategoriesRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	r.AuditLogsRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteCategory && l.ResourceID == 1
	})).Return(nil)

	require.NoError(t, usecase.NewCategoryUsecase(tx, nil, nil).Delete(context.Background(), admin, 1))
	r.AuditLogsRepo.AssertExpectations(t)
}

func TestCategory_Create_ControlCharacters(t *testing.T) {
	uc := usecase.NewCategoryUsecase(nil, new(mocks.CategoryRepoMock), nil)

	_, err := uc.Create(context.Background(), usecase.CategoryInput{Name: "Bo\x01oks"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid characters")

	_, err = uc.Create(context.Background(), usecase.CategoryInput{Name: "Bo\xffoks"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid characters")
}

// 既存データに制御文字があっても監査ログは正しいJSONになる
func TestCategory_Delete_AuditSnapshotIsJSON(t *testing.T) {
	const name = "Bo\x01ks\u00a0\xff"

	tx, r := newTx()
	r.CategoriesRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Category{ID: 1, Name: name}, nil)
	r.ProductsRepo.On("CountByCategory", mock.Anything, int64(1)).Return(int64(0), nil)
	r.CategoriesRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

	var saved model.AuditLog
	r.AuditLogsRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(model.AuditLog) }).
		Return(nil)

	require.NoError(t, usecase.NewCategoryUsecase(tx, nil, nil).Delete(context.Background(), admin, 1))

	require.True(t, json.Valid([]byte(saved.BeforeJSON)), saved.BeforeJSON)
	assert.Empty(t, saved.AfterJSON)

	var before map[string]string
	require.NoError(t, json.Unmarshal([]byte(saved.BeforeJSON), &before))
	assert.Equal(t, "Bo\x01ks\u00a0\uFFFD", before["name"])
}

package usecase_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
	"estore/internal/repository/mocks"
	"estore/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stock(n int64) *int64 { return &n }

func validProductInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:       "Widget",
		Price:      decimal.RequireFromString("19.99"),
		Model:      "W-1",
		CategoryID: 3,
		Stock:      stock(10),
	}
}

func TestProduct_Create_Validation(t *testing.T) {
	tx, _ := newTx()
	uc := usecase.NewProductUsecase(tx, new(mocks.ProductRepoMock), new(mocks.CategoryRepoMock))

	mutations := map[string]func(in *usecase.ProductInput){
		"name":       func(in *usecase.ProductInput) { in.Name = "W" },
		"price":      func(in *usecase.ProductInput) { in.Price = decimal.Zero },
		"decimal":    func(in *usecase.ProductInput) { in.Price = decimal.RequireFromString("1.999") },
		"model":      func(in *usecase.ProductInput) { in.Model = "" },
		"ctrl name":  func(in *usecase.ProductInput) { in.Name = "Wid\x01get" },
		"ctrl model": func(in *usecase.ProductInput) { in.Model = "W-\xff1" },
		"category":   func(in *usecase.ProductInput) { in.CategoryID = 0 },
		"stock":      func(in *usecase.ProductInput) { in.Stock = nil },
		"neg stock":  func(in *usecase.ProductInput) { in.Stock = stock(-1) },
	}
	for name, mutate := range mutations {
		in := validProductInput()
		mutate(&in)
		_, err := uc.Create(context.Background(), in)
		assert.Error(t, err, name)
		assertHTTPError(t, err, http.StatusBadRequest, "")
	}
}

func TestProduct_Create_DuplicateModel(t *testing.T) {
	tx, _ := newTx()
	products := new(mocks.ProductRepoMock)
	categories := new(mocks.CategoryRepoMock)
	categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3}, nil)
	products.On("FindByModel", mock.Anything, "W-1").Return(model.Product{ID: 4, Model: "W-1"}, nil)

	_, err := usecase.NewProductUsecase(tx, products, categories).Create(context.Background(), validProductInput())
	assertHTTPError(t, err, http.StatusConflict, "W-1")
}

func TestProduct_Create_UnknownCategory(t *testing.T) {
	tx, _ := newTx()
	categories := new(mocks.CategoryRepoMock)
	categories.On("FindByID", mock.Anything, int64(3)).Return(nil, repo.ErrNotFound)

	_, err := usecase.NewProductUsecase(tx, new(mocks.ProductRepoMock), categories).Create(context.Background(), validProductInput())
	assertHTTPError(t, err, http.StatusNotFound, "category")
}

// 在庫が変わったら監査ログ
func TestProduct_Update_StockChangeAudited(t *testing.T) {
	tx, r := newTx()
	before := model.Product{ID: 5, Name: "Widget", Model: "W-1", CategoryID: 3, Price: decimal.NewFromInt(20), Stock: 4}

	r.ProductsRepo.On("FindByID", mock.Anything, int64(5)).Return(before, nil)
	r.CategoriesRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3}, nil)
	r.ProductsRepo.On("FindByModel", mock.Anything, "W-1").Return(before, nil)
	r.ProductsRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool { return p.Stock == 10 })).Return(nil)
	r.AuditLogsRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock && l.BeforeJSON == `{"stock":4}` && l.AfterJSON == `{"stock":10}`
	})).Return(nil)

	_, err := usecase.NewProductUsecase(tx, nil, nil).Update(context.Background(), admin, 5, validProductInput())
	require.NoError(t, err)
	r.AuditLogsRepo.AssertExpectations(t)
}

func TestProduct_Delete_InOrders(t *testing.T) {
	tx, r := newTx()
	r.ProductsRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Widget"}, nil)
	r.OrderItemsRepo.On("CountByProductID", mock.Anything, int64(5)).Return(int64(2), nil)

	err := usecase.NewProductUsecase(tx, nil, nil).Delete(context.Background(), admin, 5)
	assertHTTPError(t, err, http.StatusUnprocessableEntity, "Widget")
	r.ProductsRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProduct_Delete_RemovesCartLines(t *testing.T) {
	tx, r := newTx()
	r.ProductsRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Wid\tget", Model: "W-\x011", Stock: 3}, nil)
	r.OrderItemsRepo.On("CountByProductID", mock.Anything, int64(5)).Return(int64(0), nil)
	r.CartItemsRepo.On("DeleteByProductID", mock.Anything, int64(5)).Return(nil)
	r.ProductsRepo.On("Delete", mock.Anything, int64(5)).Return(nil)
	r.AuditLogsRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteProduct &&
			json.Valid([]byte(l.BeforeJSON)) &&
			l.BeforeJSON == `{"model":"W-\u00011","name":"Wid\tget","stock":3}`
	})).Return(nil)

	err := usecase.NewProductUsecase(tx, nil, nil).Delete(context.Background(), admin, 5)
	require.NoError(t, err)
	r.CartItemsRepo.AssertExpectations(t)
	r.AuditLogsRepo.AssertExpectations(t)
}

func TestProduct_ListPage(t *testing.T) {
	tx, _ := newTx()
	products := new(mocks.ProductRepoMock)
	products.On("ListPage", mock.Anything, repo.ProductListQuery{Page: 1, Size: 2, SortBy: "price", Ascending: true}).
		Return([]model.Product{{ID: 3}, {ID: 4}}, int64(5), nil)

	page, err := usecase.NewProductUsecase(tx, products, nil).
		ListPage(context.Background(), usecase.ProductPageInput{Page: 1, Size: 2, SortBy: "price", Direction: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Len(t, page.Content, 2)
}

func TestProduct_ListPage_BadParams(t *testing.T) {
	uc := usecase.NewProductUsecase(nil, new(mocks.ProductRepoMock), nil)
	bad := []usecase.ProductPageInput{
		{Page: -1, Size: 10, SortBy: "name"},
		{Page: math.MaxInt/100 + 1, Size: 100, SortBy: "name"},
		{Page: math.MaxInt32/10 + 1, Size: 10, SortBy: "name"},
		{Page: 0, Size: 0, SortBy: "name"},
		{Page: 0, Size: 10, SortBy: "password"},
		{Page: 0, Size: 10, SortBy: "name", Direction: "up"},
	}
	for _, in := range bad {
		_, err := uc.ListPage(context.Background(), in)
		assertHTTPError(t, err, http.StatusBadRequest, "invalid")
	}
}

func TestProduct_Search_EmptyKeyword(t *testing.T) {
	_, err := usecase.NewProductUsecase(nil, new(mocks.ProductRepoMock), nil).Search(context.Background(), "   ")
	assertHTTPError(t, err, http.StatusBadRequest, "keyword")
}

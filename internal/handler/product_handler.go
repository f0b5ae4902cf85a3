package handler

import (
	"net/http"
	"strconv"

	"estore/internal/middleware"
	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// priceは数値でも文字列でも受ける（decimalがどちらも読める）
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Model       string          `json:"model"`
	CategoryID  int64           `json:"categoryId"`
	Stock       *int64          `json:"stock"`
}

func (r ProductRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Model:       r.Model,
		CategoryID:  r.CategoryID,
		Stock:       r.Stock,
	}
}

// 公開商品のルートとADMIN用の変更ルートを登録
func (h *ProductHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/products")
	g.GET("", h.list)
	g.GET("/page", h.page)
	g.GET("/search", h.search)
	g.GET("/available", h.available)
	g.GET("/category/:categoryId", h.byCategory)
	g.GET("/:id", h.detail)

	g.POST("", h.create, guards.Admin...)
	g.PUT("/:id", h.update, guards.Admin...)
	g.DELETE("/:id", h.delete, guards.Admin...)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) page(c echo.Context) error {
	// page（default 0）
	page := 0
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	// size（default 10）
	size := 10
	if v := c.QueryParam("size"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid size")
		}
		size = s
	}

	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}

	out, err := h.uc.ListPage(c.Request().Context(), usecase.ProductPageInput{
		Page:      page,
		Size:      size,
		SortBy:    sortBy,
		Direction: c.QueryParam("direction"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) search(c echo.Context) error {
	out, err := h.uc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) available(c echo.Context) error {
	out, err := h.uc.ListAvailable(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) byCategory(c echo.Context) error {
	categoryID, ok := paramID(c, "categoryId")
	if !ok {
		return badRequest(c, "invalid categoryId")
	}
	out, err := h.uc.ListByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	p, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	// ★操作した管理者（在庫変更の監査ログ用）
	actor := middleware.IdentityFrom(c)
	p, err := h.uc.Update(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	actor := middleware.IdentityFrom(c)
	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	c.Logger().Infoj(log.JSON{"action": "admin.product.delete", "actor_id": actor.UserID, "product_id": id})
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

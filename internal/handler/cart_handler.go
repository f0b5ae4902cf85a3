package handler

import (
	"net/http"
	"strconv"

	"estore/internal/middleware"
	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cart のHTTP。カートは常に呼び出し元ユーザーのもの
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/cart", guards.Authed...)

	g.GET("", h.getCart)
	g.DELETE("", h.clear)
	g.POST("/items", h.addToCart)
	g.PUT("/items/:productId", h.updateItem)
	g.DELETE("/items/:productId", h.removeItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ProductID <= 0 {
		return badRequest(c, "productId is required")
	}

	out, err := h.uc.AddToCart(c.Request().Context(), middleware.IdentityFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 数量は ?quantity= かJSONボディ。0以下なら行を消して204
func (h *CartHandler) updateItem(c echo.Context) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "invalid productId")
	}

	var qty int64
	if v := c.QueryParam("quantity"); v != "" {
		q, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid quantity")
		}
		qty = q
	} else {
		var req UpdateCartItemRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if req.Quantity == nil {
			return badRequest(c, "quantity is required")
		}
		qty = *req.Quantity
	}

	line, err := h.uc.UpdateCartItem(c.Request().Context(), middleware.IdentityFrom(c), productID, qty)
	if err != nil {
		return writeError(c, err)
	}
	if line == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "invalid productId")
	}
	if err := h.uc.RemoveFromCart(c.Request().Context(), middleware.IdentityFrom(c), productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) clear(c echo.Context) error {
	if err := h.uc.ClearCart(c.Request().Context(), middleware.IdentityFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

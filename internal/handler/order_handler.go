package handler

import (
	"net/http"

	"estore/internal/middleware"
	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// /api/orders（本人の注文 + ADMINの全件・ステータス更新）
type OrderHandler struct {
	uc      *usecase.OrderUsecase
	adminUC *usecase.AdminOrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, adminUC *usecase.AdminOrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, adminUC: adminUC}
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Notes           string `json:"notes"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/orders")

	g.POST("", h.create, guards.Authed...)
	g.GET("", h.listMine, guards.Authed...)
	g.GET("/all", h.listAll, guards.Admin...)
	g.GET("/:id", h.get, guards.Authed...)
	g.PUT("/:id/cancel", h.cancel, guards.Authed...)
	g.PUT("/:id/status", h.updateStatus, guards.Admin...)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), middleware.IdentityFrom(c), usecase.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	out, err := h.uc.ListMyOrders(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.GetOrder(c.Request().Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.CancelOrder(c.Request().Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listAll(c echo.Context) error {
	out, err := h.adminUC.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// statusは ?status= かJSONボディ
func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	status := c.QueryParam("status")
	if status == "" {
		var req OrderStatusUpdateRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		status = req.Status
	}
	if status == "" {
		return badRequest(c, "status is required")
	}

	actor := middleware.IdentityFrom(c)
	out, err := h.adminUC.UpdateStatus(c.Request().Context(), actor, id, status)
	if err != nil {
		return writeError(c, err)
	}
	c.Logger().Infoj(log.JSON{"action": "admin.order.status", "actor_id": actor.UserID, "order_id": id, "status": out.Status})
	return c.JSON(http.StatusOK, out)
}

package handler

import (
	"net/http"

	"estore/internal/middleware"
	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// /api/categories
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// 参照は公開、変更はADMINのみ
func (h *CategoryHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/categories")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create, guards.Admin...)
	g.PUT("/:id", h.update, guards.Admin...)
	g.DELETE("/:id", h.delete, guards.Admin...)
}

func (h *CategoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Create(c.Request().Context(), usecase.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CategoryHandler) update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Update(c.Request().Context(), id, usecase.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	actor := middleware.IdentityFrom(c)
	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	c.Logger().Infoj(log.JSON{"action": "admin.category.delete", "actor_id": actor.UserID, "category_id": id})
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

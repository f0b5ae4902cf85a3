package handler

import (
	"net/http"

	"estore/internal/middleware"
	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/users（自分の情報）
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UserHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/users", guards.Authed...)
	g.GET("/me", h.me)
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
}

func (h *UserHandler) me(c echo.Context) error {
	out, err := h.uc.Me(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) profile(c echo.Context) error {
	out, err := h.uc.Profile(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) updateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.UpdateProfile(c.Request().Context(), middleware.IdentityFrom(c), usecase.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

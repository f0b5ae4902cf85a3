package server

import (
	"estore/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, guards handler.Guards, h Handlers, authLimiter echo.MiddlewareFunc) {
	api := e.Group("/api")

	h.Auth.RegisterRoutes(api.Group("/auth", authLimiter))
	h.Category.RegisterRoutes(api, guards)
	h.Product.RegisterRoutes(api, guards)
	h.Cart.RegisterRoutes(api, guards)
	h.Order.RegisterRoutes(api, guards)
	h.User.RegisterRoutes(api, guards)
	h.Admin.RegisterRoutes(api, guards)
}

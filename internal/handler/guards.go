package handler

import "github.com/labstack/echo/v4"

// ルート登録時に付けるmiddlewareの組
type Guards struct {
	Authed []echo.MiddlewareFunc // AuthJWT + AccountGuard
	Admin  []echo.MiddlewareFunc // Authed + AdminRoleGuard
}

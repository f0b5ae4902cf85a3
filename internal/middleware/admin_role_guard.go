package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleがADMINかどうかを確認
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if !id.Authenticated() {
				return unauthorized(c)
			}

			//USERは拒否、ADMINだけ許可
			if !id.IsAdmin() {
				return c.JSON(http.StatusForbidden, errorResponse{Error: "access denied", Code: "FORBIDDEN"})
			}

			return next(c)
		}
	}
}

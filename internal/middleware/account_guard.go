package middleware

import (
	"errors"
	"net/http"

	"estore/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// JWTのtvとDBのtoken_versionが一致し、アカウントが有効かを確認。
// ロール変更・無効化でtoken_versionが上がるので古いトークンはここで落ちる。
func AccountGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return unauthorized(c)
			}
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return unauthorized(c)
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
				return unauthorized(c)
			}
			if err != nil {
				c.Logger().Errorj(log.JSON{"action": "account_guard", "user_id": userID, "error": err.Error()})
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: "db error", Code: "INTERNAL"})
			}

			if user.TokenVersion != tv || !user.Enabled {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"strings"

	"estore/internal/domain/model"
	auth "estore/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxTokenVersionKey = "token_version" // int
	CtxIdentityKey     = "identity"      // model.Identity
)

// トークン検証の約束（auth.TokenService が満たす）
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Bearer形式か確認してtokenを抜く
			rawToken, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			claims, err := parser.Parse(rawToken)
			if err != nil {
				return unauthorized(c)
			}

			//contextへ保存
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			c.Set(CtxIdentityKey, claims.Identity())

			return next(c)
		}
	}
}

// AuthJWTを通っていなければゼロ値（未ログイン）
func IdentityFrom(c echo.Context) model.Identity {
	id, _ := c.Get(CtxIdentityKey).(model.Identity)
	return id
}

func bearerToken(authz string) (string, bool) {
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized", Code: "UNAUTHORIZED"})
}

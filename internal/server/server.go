package server

import (
	"context"
	"net/http"

	"estore/internal/config"
	"estore/internal/handler"
	"estore/internal/middleware"
	"estore/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

// 組み立て済みのhandler群
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	User     *handler.UserHandler
	Admin    *handler.AdminHandler
}

type Deps struct {
	Logger   *log.Logger
	Tokens   middleware.TokenParser
	Users    repository.UserRepository
	Handlers Handlers

	// /healthz でDBを確認する（nilならスキップ）
	Health func(ctx context.Context) error
}

// echoを組み立てる。listenはしない（mainとテストで使い分ける）
func New(cfg config.Config, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = deps.Logger
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(requestLogger())
	e.Use(echomw.BodyLimit("1M"))

	e.GET("/healthz", health(deps.Health))

	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(deps.Tokens),
		middleware.AccountGuard(deps.Users),
	}
	guards := handler.Guards{
		Authed: authed,
		Admin:  append(append([]echo.MiddlewareFunc{}, authed...), middleware.AdminRoleGuard()),
	}

	// /api/auth だけIP単位でレート制限
	authLimiter := echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.AuthRateLimit)))

	RegisterRoutes(e, guards, deps.Handlers, authLimiter)
	return e
}

// 1リクエスト1行のJSONログ
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			j := log.JSON{
				"action":     "request",
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
			}
			if id := middleware.IdentityFrom(c); id.Authenticated() {
				j["user_id"] = id.UserID
			}
			if v.Status >= http.StatusInternalServerError {
				c.Logger().Errorj(j)
				return nil
			}
			c.Logger().Infoj(j)
			return nil
		},
	})
}

func health(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				c.Logger().Errorj(log.JSON{"action": "healthz", "error": err.Error()})
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

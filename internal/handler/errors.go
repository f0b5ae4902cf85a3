package handler

import (
	"errors"
	"net/http"
	"strconv"

	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: usecase.CodeValidation})
}

// usecaseのエラーをJSONにする。500は原因をログに出してメッセージは固定
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			logCause(c, he.Cause)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Code: he.Code})
	}

	//500
	logCause(c, err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: usecase.CodeInternal})
}

func logCause(c echo.Context, err error) {
	if err == nil {
		return
	}
	c.Logger().Errorj(log.JSON{
		"action":     "request.error",
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"method":     c.Request().Method,
		"uri":        c.Request().RequestURI,
		"error":      err.Error(),
	})
}

// echo自身のエラー（ルート無し・405・BodyLimitなど）も同じ形で返す
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		body := ErrorResponse{Error: msg, Code: codeForEcho(he.Code)}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			c.Logger().Error(err)
		}
		return
	}

	if err := writeError(c, err); err != nil {
		c.Logger().Error(err)
	}
}

func codeForEcho(status int) string {
	switch status {
	case http.StatusBadRequest:
		return usecase.CodeValidation
	case http.StatusUnauthorized:
		return usecase.CodeUnauthorized
	case http.StatusForbidden:
		return usecase.CodeForbidden
	case http.StatusNotFound:
		return usecase.CodeNotFound
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= http.StatusInternalServerError {
			return usecase.CodeInternal
		}
		return "ERROR"
	}
}

// パスの数値IDを取り出す
func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラーの種類（レスポンスの "code"）
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeDuplicate    = "DUPLICATE_RESOURCE"
	CodeBusinessRule = "BUSINESS_RULE"
	CodeInternal     = "INTERNAL"
)

// handlerがそのままJSONにできるエラー。
// 500のときだけCauseに元のエラーを持たせてログに出す。
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    codeForStatus(status),
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func NewValidationError(format string, args ...interface{}) error {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func NewNotFoundError(format string, args ...interface{}) error {
	return NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func NewDuplicateError(format string, args ...interface{}) error {
	return NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

// 在庫不足・空カート・不正な状態遷移など
func NewBusinessRuleError(format string, args ...interface{}) error {
	return NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

func NewForbiddenError(message string) error {
	return NewHTTPError(http.StatusForbidden, message)
}

func NewUnauthorizedError(message string) error {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// DBなど想定外の失敗。メッセージは固定で中身は出さない
func dbError(cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "db error",
		Cause:   cause,
	}
}

// DB以外の想定外の失敗
func internalError(cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "internal error",
		Cause:   cause,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeDuplicate
	case http.StatusUnprocessableEntity:
		return CodeBusinessRule
	default:
		return CodeInternal
	}
}

// 未ログインの呼び出しを弾く
func requireIdentity(userID int64) error {
	if userID <= 0 {
		return NewUnauthorizedError("unauthorized")
	}
	return nil
}

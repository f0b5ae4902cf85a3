package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 入力が不正（メッセージは %w で包んで返す）
var ErrInvalidInput = errors.New("invalid input")

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

const minPasswordLen = 6

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// 会員登録の入力を検証
func ValidateRegister(username string, email string, password string) error {
	if err := ValidateProfile(username, email); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > 72 {
		// bcryptは72バイトまで
		return invalid("password must not exceed 72 bytes")
	}
	return nil
}

// ログインの入力を検証（形式は見ない。必須だけ）
func ValidateLogin(username string, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return invalid("username and password are required")
	}
	return nil
}

// プロフィール（username/email）の入力を検証
func ValidateProfile(username string, email string) error {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return invalid("username must be between 3 and 50 characters")
	}
	if !usernameRe.MatchString(username) {
		return invalid("username may contain only letters, digits, '.', '_' and '-'")
	}
	if !IsEmailLike(strings.TrimSpace(email)) {
		return invalid("email should be valid")
	}
	return nil
}

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	return len(s) <= 255 && emailRe.MatchString(s)
}

// 先頭の "invalid input: " を外したメッセージ
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
}

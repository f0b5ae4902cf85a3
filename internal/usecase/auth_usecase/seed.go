package auth

import (
	"context"
	"errors"

	"estore/internal/domain/model"
	"estore/internal/repository"

	"github.com/labstack/gommon/log"
)

// 開発環境でだけ使う初期パスワード
const (
	devAdminPassword = "admin123"
	devUserPassword  = "user123"
)

type SeedConfig struct {
	AdminPassword string
	UserPassword  string
	Dev           bool
}

// 起動ログ用
type Logger interface {
	Infoj(j log.JSON)
	Warnj(j log.JSON)
}

type seedAccount struct {
	username string
	email    string
	role     model.Role
	password string
	devValue string
}

// admin / user アカウントが無ければ作る。
// パスワードは設定から取り、未設定ならdevのときだけ既定値を使う（それ以外は作らない）。
func SeedUsers(ctx context.Context, users repository.UserRepository, hasher PasswordHasher, cfg SeedConfig, logger Logger) error {
	accounts := []seedAccount{
		{username: "admin", email: "admin@estore.local", role: model.RoleAdmin, password: cfg.AdminPassword, devValue: devAdminPassword},
		{username: "user", email: "user@estore.local", role: model.RoleUser, password: cfg.UserPassword, devValue: devUserPassword},
	}

	for _, a := range accounts {
		exists, err := users.ExistsByUsername(ctx, a.username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		password := a.password
		if password == "" {
			if !cfg.Dev {
				logger.Warnj(log.JSON{"action": "seed.skip", "username": a.username, "reason": "password not configured"})
				continue
			}
			password = a.devValue
			logger.Warnj(log.JSON{"action": "seed.dev_password", "username": a.username})
		}

		hashed, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		err = users.Create(ctx, &model.User{
			Username:     a.username,
			Email:        a.email,
			PasswordHash: hashed,
			Role:         a.role,
			Enabled:      true,
		})
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
		logger.Infoj(log.JSON{"action": "seed.created", "username": a.username, "role": string(a.role)})
	}
	return nil
}

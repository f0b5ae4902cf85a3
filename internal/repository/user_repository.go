package repository

import (
	"context"

	"estore/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（IDは採番して詰め直す）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)

	//プロフィール（username/email）の更新
	UpdateProfile(ctx context.Context, id int64, username string, email string) error

	//ロール・有効フラグの変更。どちらもtoken_versionを+1して古いトークンを無効にする
	UpdateRole(ctx context.Context, id int64, role model.Role) error
	UpdateEnabled(ctx context.Context, id int64, enabled bool) error

	Delete(ctx context.Context, id int64) error
}

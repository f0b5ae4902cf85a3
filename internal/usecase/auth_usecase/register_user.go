package auth

import (
	"context"
	"errors"
	"strings"

	"estore/internal/domain/model"
	"estore/internal/repository"
	"estore/internal/validator"
)

var (
	// 競合
	ErrUsernameAlreadyExists = errors.New("username is already taken")
	ErrEmailAlreadyExists    = errors.New("email is already in use")
)

// 会員登録の入力
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// DI
func NewRegisterUserUsecase(userRepo repository.UserRepository, hasher PasswordHasher) *RegisterUserUsecase {
	return &RegisterUserUsecase{userRepo: userRepo, hasher: hasher}
}

// 会員登録実行。ロールは常にUSER
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validator.ValidateRegister(username, email, in.Password); err != nil {
		return model.User{}, err
	}

	// username/email重複チェック
	exists, err := u.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, ErrUsernameAlreadyExists
	}
	exists, err = u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, ErrEmailAlreadyExists
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
		Enabled:      true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// 同時登録で一意制約に当たった
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrUsernameAlreadyExists
		}
		return model.User{}, err
	}
	return *user, nil
}

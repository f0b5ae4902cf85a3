package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"estore/internal/domain/model"
	"estore/internal/repository"
	"estore/internal/usecase"
	"estore/internal/validator"
)

var (
	// ユーザー名またはパスワードが違う（どちらかは区別しない）
	ErrInvalidCredentials = errors.New("invalid username or password")

	// 無効化されたユーザー
	ErrUserDisabled = errors.New("user account is disabled")
)

// 存在しないユーザーでも同じ時間だけbcryptを回すためのダミー
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z2rQ8K3GxG1sVYyF4Qm9a8iW"

type LoginInput struct {
	Username string
	Password string
}

// handlerがJSONにして返す
type LoginOutput struct {
	AccessToken string             `json:"accessToken"`
	TokenType   string             `json:"tokenType"`
	ExpiresIn   int                `json:"expiresIn"`
	User        usecase.UserOutput `json:"user"`
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(user model.User) (string, time.Time, error)
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	username := strings.TrimSpace(in.Username)
	if err := validator.ValidateLogin(username, in.Password); err != nil {
		return LoginOutput{}, err
	}

	user, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			u.verifier.Verify(in.Password, dummyHash)
			return LoginOutput{}, ErrInvalidCredentials
		}
		return LoginOutput{}, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return LoginOutput{}, ErrInvalidCredentials
	}

	//停止ユーザーはログイン不可
	if !user.Enabled {
		return LoginOutput{}, ErrUserDisabled
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(*user)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
		User:        usecase.ToUserOutput(*user),
	}, nil
}

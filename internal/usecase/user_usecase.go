package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
	"estore/internal/validator"

	"github.com/shopspring/decimal"
)

// パスワードハッシュ・token_versionは出さない
type UserOutput struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProfileOutput struct {
	UserOutput
	TotalOrders int64           `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
}

type UpdateProfileInput struct {
	Username string
	Email    string
}

func ToUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

type UserUsecase struct {
	users  repo.UserRepository
	orders repo.OrderRepository
}

func NewUserUsecase(users repo.UserRepository, orders repo.OrderRepository) *UserUsecase {
	return &UserUsecase{users: users, orders: orders}
}

// GET /api/users/me
func (u *UserUsecase) Me(ctx context.Context, caller model.Identity) (UserOutput, error) {
	user, err := u.load(ctx, caller)
	if err != nil {
		return UserOutput{}, err
	}
	return ToUserOutput(*user), nil
}

// GET /api/users/profile（注文数・購入合計つき。キャンセル分は含めない）
func (u *UserUsecase) Profile(ctx context.Context, caller model.Identity) (ProfileOutput, error) {
	user, err := u.load(ctx, caller)
	if err != nil {
		return ProfileOutput{}, err
	}

	totals, err := u.orders.TotalsByUserID(ctx, user.ID)
	if err != nil {
		return ProfileOutput{}, dbError(err)
	}

	return ProfileOutput{
		UserOutput:  ToUserOutput(*user),
		TotalOrders: totals.Count,
		TotalSpent:  totals.Spent,
	}, nil
}

// username/emailの変更。他人と重複したら409
func (u *UserUsecase) UpdateProfile(ctx context.Context, caller model.Identity, in UpdateProfileInput) (ProfileOutput, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if err := validator.ValidateProfile(username, email); err != nil {
		return ProfileOutput{}, NewValidationError("%s", validator.Message(err))
	}

	user, err := u.load(ctx, caller)
	if err != nil {
		return ProfileOutput{}, err
	}

	if username != user.Username {
		if err := u.ensureFree(ctx, u.users.FindByUsername, username, user.ID, "username"); err != nil {
			return ProfileOutput{}, err
		}
	}
	if email != user.Email {
		if err := u.ensureFree(ctx, u.users.FindByEmail, email, user.ID, "email"); err != nil {
			return ProfileOutput{}, err
		}
	}

	err = u.users.UpdateProfile(ctx, user.ID, username, email)
	if errors.Is(err, repo.ErrDuplicate) {
		return ProfileOutput{}, NewDuplicateError("username or email already in use")
	}
	if err != nil {
		return ProfileOutput{}, dbError(err)
	}

	return u.Profile(ctx, caller)
}

func (u *UserUsecase) load(ctx context.Context, caller model.Identity) (*model.User, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, caller.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("user not found with id: %d", caller.UserID)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return user, nil
}

func (u *UserUsecase) ensureFree(
	ctx context.Context,
	find func(context.Context, string) (*model.User, error),
	value string,
	selfID int64,
	field string,
) error {
	other, err := find(ctx, value)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dbError(err)
	}
	if other.ID != selfID {
		return NewDuplicateError("%s already in use: %s", field, value)
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"strings"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
)

// 管理画面の集計
type StatsOutput struct {
	TotalUsers        int64            `json:"totalUsers"`
	TotalProducts     int64            `json:"totalProducts"`
	TotalCategories   int64            `json:"totalCategories"`
	TotalOrders       int64            `json:"totalOrders"`
	OrdersByStatus    map[string]int64 `json:"ordersByStatus"`
	Revenue           decimal.Decimal  `json:"revenue"`
	LowStockProducts  int64            `json:"lowStockProducts"`
	LowStockThreshold int64            `json:"lowStockThreshold"`
}

type AdminUserUsecase struct {
	tx                repo.TransactionManager
	lowStockThreshold int64
}

func NewAdminUserUsecase(tx repo.TransactionManager, lowStockThreshold int64) *AdminUserUsecase {
	return &AdminUserUsecase{tx: tx, lowStockThreshold: lowStockThreshold}
}

func (u *AdminUserUsecase) List(ctx context.Context) ([]UserOutput, error) {
	var outs []UserOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		users, err := r.Users().List(ctx)
		if err != nil {
			return dbError(err)
		}
		outs = make([]UserOutput, 0, len(users))
		for _, user := range users {
			outs = append(outs, ToUserOutput(user))
		}
		return nil
	})
	if err != nil {
		return []UserOutput{}, err
	}
	return outs, nil
}

func (u *AdminUserUsecase) Get(ctx context.Context, id int64) (UserOutput, error) {
	var out UserOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := findUser(ctx, r, id)
		if err != nil {
			return err
		}
		out = ToUserOutput(*user)
		return nil
	})
	return out, err
}

// ロール変更。自分自身の降格は不可
func (u *AdminUserUsecase) UpdateRole(ctx context.Context, actor model.Identity, id int64, role string) (UserOutput, error) {
	newRole := model.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !newRole.Valid() {
		return UserOutput{}, NewValidationError("invalid role: %s", role)
	}
	if id == actor.UserID && newRole != model.RoleAdmin {
		return UserOutput{}, NewBusinessRuleError("cannot change your own role")
	}

	return u.mutate(ctx, id, func(r repo.TxRepos, user *model.User) error {
		if user.Role == newRole {
			return nil
		}
		if err := r.Users().UpdateRole(ctx, id, newRole); err != nil {
			return dbError(err)
		}
		return writeAudit(ctx, r, actor, model.AuditActionUpdateUserRole, model.AuditResourceUser, id,
			auditSnapshot{"role": user.Role},
			auditSnapshot{"role": newRole})
	})
}

// 有効/無効。無効化したユーザーの既存トークンはtoken_versionで失効する
func (u *AdminUserUsecase) UpdateStatus(ctx context.Context, actor model.Identity, id int64, enabled bool) (UserOutput, error) {
	if id == actor.UserID && !enabled {
		return UserOutput{}, NewBusinessRuleError("cannot disable your own account")
	}

	return u.mutate(ctx, id, func(r repo.TxRepos, user *model.User) error {
		if user.Enabled == enabled {
			return nil
		}
		if err := r.Users().UpdateEnabled(ctx, id, enabled); err != nil {
			return dbError(err)
		}
		return writeAudit(ctx, r, actor, model.AuditActionUpdateUserStatus, model.AuditResourceUser, id,
			auditSnapshot{"enabled": user.Enabled},
			auditSnapshot{"enabled": enabled})
	})
}

// 注文のあるユーザーは消さない（無効化を使う）
func (u *AdminUserUsecase) Delete(ctx context.Context, actor model.Identity, id int64) error {
	if id == actor.UserID {
		return NewBusinessRuleError("cannot delete your own account")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := findUser(ctx, r, id)
		if err != nil {
			return err
		}

		n, err := r.Orders().CountByUserID(ctx, id)
		if err != nil {
			return dbError(err)
		}
		if n > 0 {
			return NewBusinessRuleError("cannot delete user %q: %d order(s) exist; disable the account instead", user.Username, n)
		}

		if err := r.CartItems().DeleteByUserID(ctx, id); err != nil {
			return dbError(err)
		}
		if err := r.Users().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrReferenced) {
				return NewBusinessRuleError("cannot delete user %q: still referenced", user.Username)
			}
			return dbError(err)
		}

		return writeAudit(ctx, r, actor, model.AuditActionDeleteUser, model.AuditResourceUser, id,
			auditSnapshot{"username": user.Username, "role": user.Role}, nil)
	})
}

func (u *AdminUserUsecase) Stats(ctx context.Context) (StatsOutput, error) {
	out := StatsOutput{OrdersByStatus: map[string]int64{}, LowStockThreshold: u.lowStockThreshold}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		if out.TotalUsers, err = r.Users().Count(ctx); err != nil {
			return dbError(err)
		}
		if out.TotalProducts, err = r.Products().Count(ctx); err != nil {
			return dbError(err)
		}
		if out.TotalCategories, err = r.Categories().Count(ctx); err != nil {
			return dbError(err)
		}
		if out.TotalOrders, err = r.Orders().Count(ctx); err != nil {
			return dbError(err)
		}
		if out.Revenue, err = r.Orders().Revenue(ctx); err != nil {
			return dbError(err)
		}
		if out.LowStockProducts, err = r.Products().CountLowStock(ctx, u.lowStockThreshold); err != nil {
			return dbError(err)
		}

		byStatus, err := r.Orders().CountByStatus(ctx)
		if err != nil {
			return dbError(err)
		}
		for _, st := range []model.OrderStatus{
			model.OrderStatusPending,
			model.OrderStatusConfirmed,
			model.OrderStatusShipped,
			model.OrderStatusDelivered,
			model.OrderStatusCancelled,
		} {
			out.OrdersByStatus[string(st)] = byStatus[st]
		}
		return nil
	})
	if err != nil {
		return StatsOutput{}, err
	}
	return out, nil
}

func (u *AdminUserUsecase) AuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		logs, err = r.AuditLogs().List(ctx, f)
		if err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return []model.AuditLog{}, err
	}
	return logs, nil
}

// 変更を1トランザクションで行い、変更後のユーザーを返す
func (u *AdminUserUsecase) mutate(ctx context.Context, id int64, fn func(r repo.TxRepos, user *model.User) error) (UserOutput, error) {
	var out UserOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := findUser(ctx, r, id)
		if err != nil {
			return err
		}
		if err := fn(r, user); err != nil {
			return err
		}
		user, err = findUser(ctx, r, id)
		if err != nil {
			return err
		}
		out = ToUserOutput(*user)
		return nil
	})
	if err != nil {
		return UserOutput{}, err
	}
	return out, nil
}

func findUser(ctx context.Context, r repo.TxRepos, id int64) (*model.User, error) {
	user, err := r.Users().FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("user not found with id: %d", id)
	}
	if err != nil {
		return nil, dbError(err)
	}
	return user, nil
}

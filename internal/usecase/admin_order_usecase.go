package usecase

import (
	"context"
	"strings"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

// 全注文（新しい順）。statusが空なら絞り込みなし
func (u *AdminOrderUsecase) List(ctx context.Context, status string) ([]OrderOutput, error) {
	var f repo.OrderListFilter
	if strings.TrimSpace(status) != "" {
		st, ok := model.ParseOrderStatus(status)
		if !ok {
			return []OrderOutput{}, NewValidationError("invalid status: %s", status)
		}
		f.Status = &st
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, f)
		if err != nil {
			return dbError(err)
		}
		outs, err = buildOrderOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// ステータス更新。状態遷移は model.OrderStatus に従う。
// CANCELLEDへの遷移では在庫を戻す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor model.Identity, orderID int64, status string) (OrderOutput, error) {
	if err := requireIdentity(actor.UserID); err != nil {
		return OrderOutput{}, err
	}
	newStatus, ok := model.ParseOrderStatus(status)
	if !ok {
		return OrderOutput{}, NewValidationError("invalid status: %s", status)
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		// すでに同じなら何もしない
		if o.Status != newStatus {
			if !o.Status.CanTransitionTo(newStatus) {
				return NewBusinessRuleError("invalid status transition: %s -> %s", o.Status, newStatus)
			}

			if newStatus == model.OrderStatusCancelled {
				if _, err := restoreStock(ctx, r, o.ID); err != nil {
					return err
				}
			}

			if err := r.Orders().UpdateStatus(ctx, o.ID, newStatus); err != nil {
				return dbError(err)
			}

			if err := writeAudit(ctx, r, actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
				auditSnapshot{"status": o.Status},
				auditSnapshot{"status": newStatus}); err != nil {
				return err
			}

			o, err = findOrder(ctx, r, orderID)
			if err != nil {
				return err
			}
		}

		outs, err := buildOrderOutputs(ctx, r, []model.Order{o})
		if err != nil {
			return err
		}
		out = outs[0]
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type PlaceOrderInput struct {
	ShippingAddress string
	Notes           string
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Model       string          `json:"model"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"userId"`
	Username        string            `json:"username"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	Status          string            `json:"status"`
	ShippingAddress string            `json:"shippingAddress"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Items           []OrderItemOutput `json:"items"`
}

func (in PlaceOrderInput) normalize() (PlaceOrderInput, error) {
	addr := strings.TrimSpace(in.ShippingAddress)
	if n := utf8.RuneCountInString(addr); n < 5 || n > 500 {
		return in, NewValidationError("shipping address must be between 5 and 500 characters")
	}
	notes := strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(notes) > 1000 {
		return in, NewValidationError("notes must not exceed 1000 characters")
	}
	return PlaceOrderInput{ShippingAddress: addr, Notes: notes}, nil
}

// カートから注文を作る。
// 在庫確認・在庫減算・注文作成・カートクリアは1トランザクション（途中で失敗したら全部戻る）。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, caller model.Identity, in PlaceOrderInput) (OrderOutput, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return OrderOutput{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, caller.UserID)
		if err != nil {
			return dbError(err)
		}
		if len(cartItems) == 0 {
			return NewBusinessRuleError("cart is empty")
		}

		//先に全行の在庫を確認する（ここでは何も書き込まない）
		products := make(map[int64]model.Product, len(cartItems))
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("product not found with id: %d", ci.ProductID)
			}
			if err != nil {
				return dbError(err)
			}
			if p.Stock < ci.Quantity {
				return insufficientStock(p, ci.Quantity)
			}
			products[ci.ProductID] = p
		}

		//在庫減算＋スナップショット
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero
		for _, ci := range cartItems {
			p := products[ci.ProductID]

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return dbError(err)
			}
			if !ok {
				//確認後に他の注文で在庫が減った
				if latest, err := r.Products().FindByID(ctx, ci.ProductID); err == nil {
					p = latest
				}
				return insufficientStock(p, ci.Quantity)
			}

			it := model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Model:       p.Model,
				Quantity:    ci.Quantity,
				Price:       p.Price,
			}
			orderItems = append(orderItems, it)
			total = total.Add(it.Subtotal())
		}

		// 注文作成
		order, err := r.Orders().Create(ctx, model.Order{
			UserID:          caller.UserID,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			ShippingAddress: in.ShippingAddress,
			Notes:           in.Notes,
		})
		if err != nil {
			return dbError(err)
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return dbError(err)
		}

		//カートを空にする
		if err := r.CartItems().DeleteByUserID(ctx, caller.UserID); err != nil {
			return dbError(err)
		}

		name, err := lookupUsername(ctx, r, caller.UserID)
		if err != nil {
			return err
		}
		out = toOrderOutput(order, orderItems, name)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, caller model.Identity) ([]OrderOutput, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return []OrderOutput{}, err
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, caller.UserID)
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

// 他人の注文は403（管理者はどの注文でも見られる）
func (u *OrderUsecase) GetOrder(ctx context.Context, caller model.Identity, orderID int64) (OrderOutput, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if o.UserID != caller.UserID && !caller.IsAdmin() {
			return NewForbiddenError("access denied to order")
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

// 本人によるキャンセル。発送後・キャンセル済みは不可。在庫は明細の数量だけ戻す
func (u *OrderUsecase) CancelOrder(ctx context.Context, caller model.Identity, orderID int64) (OrderOutput, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if o.UserID != caller.UserID {
			return NewForbiddenError("access denied to order")
		}
		if !o.Status.Cancellable() {
			return NewBusinessRuleError("cannot cancel order in status %s", o.Status)
		}

		items, err := restoreStock(ctx, r, o.ID)
		if err != nil {
			return err
		}
		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCancelled); err != nil {
			return dbError(err)
		}

		o, err = findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		name, err := lookupUsername(ctx, r, o.UserID)
		if err != nil {
			return err
		}
		out = toOrderOutput(o, items, name)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func findOrder(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFoundError("order not found with id: %d", orderID)
	}
	if err != nil {
		return model.Order{}, dbError(err)
	}
	return o, nil
}

// 明細の数量を商品在庫へ戻す
func restoreStock(ctx context.Context, r repo.TxRepos, orderID int64) ([]model.OrderItem, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, dbError(err)
	}
	for _, it := range items {
		if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, dbError(err)
		}
	}
	return items, nil
}

// 明細とユーザー名をまとめて引いてDTOにする
func buildOrderOutputs(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, dbError(err)
	}

	usernames := map[int64]string{}
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		name, ok := usernames[o.UserID]
		if !ok {
			name, err = lookupUsername(ctx, r, o.UserID)
			if err != nil {
				return nil, err
			}
			usernames[o.UserID] = name
		}
		outs = append(outs, toOrderOutput(o, itemsByOrder[o.ID], name))
	}
	return outs, nil
}

// 表示用のユーザー名は常にDBから引く（トークンのsubは改名前の可能性がある）
func lookupUsername(ctx context.Context, r repo.TxRepos, userID int64) (string, error) {
	u, err := r.Users().FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", dbError(err)
	}
	return u.Username, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, username string) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Model:       it.Model,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal(),
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Username:        username,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           outItems,
	}
}

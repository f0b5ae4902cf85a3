package usecase

import (
	"context"
	"errors"
	"time"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /api/cart の業務ロジック。
// カートは呼び出し元ユーザーのものだけを触る（カートIDは受け取らない）。
type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

func NewCartUsecase(cartItems repo.CartItemRepository, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartItems: cartItems, products: products}
}

// カートの1行。価格は商品の現在価格
type CartLine struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Model       string          `json:"model"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Stock       int64           `json:"stock"`
	AddedAt     time.Time       `json:"addedAt"`
}

type CartView struct {
	Items       []CartLine      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int64           `json:"totalItems"`
}

func newCartLine(it model.CartItem, p model.Product) CartLine {
	return CartLine{
		ID:          it.ID,
		ProductID:   it.ProductID,
		ProductName: p.Name,
		Model:       p.Model,
		Price:       p.Price,
		Quantity:    it.Quantity,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(it.Quantity)),
		Stock:       p.Stock,
		AddedAt:     it.AddedAt,
	}
}

func (u *CartUsecase) GetCart(ctx context.Context, caller model.Identity) (CartView, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return CartView{}, err
	}

	items, err := u.cartItems.ListByUserID(ctx, caller.UserID)
	if err != nil {
		return CartView{}, dbError(err)
	}

	view := CartView{Items: make([]CartLine, 0, len(items)), TotalAmount: decimal.Zero}
	for _, it := range items {
		p, err := u.products.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartView{}, dbError(err)
		}

		line := newCartLine(it, p)
		view.Items = append(view.Items, line)
		view.TotalAmount = view.TotalAmount.Add(line.Subtotal)
		view.TotalItems += it.Quantity
	}
	return view, nil
}

// 同じ商品は既存の行に数量を足す
func (u *CartUsecase) AddToCart(ctx context.Context, caller model.Identity, productID int64, quantity int64) (CartLine, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return CartLine{}, err
	}
	if quantity < 1 {
		return CartLine{}, NewValidationError("quantity must be at least 1")
	}

	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartLine{}, err
	}

	var existingQty int64
	existing, err := u.cartItems.FindByUserAndProduct(ctx, caller.UserID, productID)
	switch {
	case err == nil:
		existingQty = existing.Quantity
	case errors.Is(err, repo.ErrNotFound):
	default:
		return CartLine{}, dbError(err)
	}

	if existingQty+quantity > p.Stock {
		return CartLine{}, insufficientStock(p, existingQty+quantity)
	}

	it, err := u.cartItems.AddQuantity(ctx, caller.UserID, productID, quantity)
	if err != nil {
		return CartLine{}, dbError(err)
	}
	return newCartLine(it, p), nil
}

// quantity <= 0 なら行を消して nil を返す（handlerは204にする）。
// それ以外は数量を上書き（加算ではない）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, caller model.Identity, productID int64, quantity int64) (*CartLine, error) {
	if err := requireIdentity(caller.UserID); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := u.cartItems.Delete(ctx, caller.UserID, productID); err != nil {
			return nil, dbError(err)
		}
		return nil, nil
	}

	if _, err := u.cartItems.FindByUserAndProduct(ctx, caller.UserID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFoundError("product %d is not in the cart", productID)
		}
		return nil, dbError(err)
	}

	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, insufficientStock(p, quantity)
	}

	it, err := u.cartItems.SetQuantity(ctx, caller.UserID, productID, quantity)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("product %d is not in the cart", productID)
	}
	if err != nil {
		return nil, dbError(err)
	}

	line := newCartLine(it, p)
	return &line, nil
}

// 無い商品を消してもエラーにしない
func (u *CartUsecase) RemoveFromCart(ctx context.Context, caller model.Identity, productID int64) error {
	if err := requireIdentity(caller.UserID); err != nil {
		return err
	}
	if err := u.cartItems.Delete(ctx, caller.UserID, productID); err != nil {
		return dbError(err)
	}
	return nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, caller model.Identity) error {
	if err := requireIdentity(caller.UserID); err != nil {
		return err
	}
	if err := u.cartItems.DeleteByUserID(ctx, caller.UserID); err != nil {
		return dbError(err)
	}
	return nil
}

func (u *CartUsecase) findProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found with id: %d", productID)
	}
	if err != nil {
		return model.Product{}, dbError(err)
	}
	return p, nil
}

// 在庫不足（商品名・在庫数・要求数を出す）
func insufficientStock(p model.Product, requested int64) error {
	return NewBusinessRuleError("insufficient stock for product %q: available %d, requested %d", p.Name, p.Stock, requested)
}

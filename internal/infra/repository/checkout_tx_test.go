package repository

import (
	"context"
	"net/http"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
	"estore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 事前確認は通ったが、減算の瞬間に他の注文に負ける在庫
type losingInventory struct {
	repo.InventoryRepository
	losesOn int64
}

func (i losingInventory) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	if productID == i.losesOn {
		return false, nil
	}
	return i.InventoryRepository.DecreaseStockIfEnough(ctx, productID, qty)
}

// TxManagerGormと同じトランザクションで、在庫repoだけ差し替える
type losingTxManager struct {
	db      *gorm.DB
	losesOn int64
}

func (tm losingTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newTxRepos(tx)
		r.inventory = losingInventory{InventoryRepository: r.inventory, losesOn: tm.losesOn}
		return fn(r)
	})
}

// 2行目で在庫競合に負けたら、1行目の減算も含めて全部戻る
func TestPlaceOrder_LostRaceRollsBackEarlierLines(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "alice")
	c := seedCategory(t, gdb, "Phones")
	a := seedProduct(t, gdb, c.ID, "X1", 100, 5)
	b := seedProduct(t, gdb, c.ID, "X2", 50, 5)

	carts := NewCartItemGormRepository(gdb)
	_, err := carts.AddQuantity(ctx, u.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddQuantity(ctx, u.ID, b.ID, 1)
	require.NoError(t, err)

	uc := usecase.NewOrderUsecase(losingTxManager{db: gdb, losesOn: b.ID})
	_, err = uc.PlaceOrder(ctx, model.Identity{UserID: u.ID, Username: u.Username, Role: u.Role},
		usecase.PlaceOrderInput{ShippingAddress: "1 Main Street"})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "err=%v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Status)
	assert.Contains(t, he.Message, "insufficient stock")

	products := NewProductGormRepository(gdb)
	gotA, err := products.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotA.Stock)
	gotB, err := products.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotB.Stock)

	n, err := NewOrderGormRepository(gdb).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var items int64
	require.NoError(t, gdb.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)

	lines, err := carts.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

// 同じ組み立てで負けなければ注文が確定する
func TestPlaceOrder_CommitsThroughGormTx(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "alice")
	c := seedCategory(t, gdb, "Phones")
	a := seedProduct(t, gdb, c.ID, "X1", 100, 5)

	_, err := NewCartItemGormRepository(gdb).AddQuantity(ctx, u.ID, a.ID, 3)
	require.NoError(t, err)

	out, err := usecase.NewOrderUsecase(NewTxManagerGorm(gdb)).PlaceOrder(ctx,
		model.Identity{UserID: u.ID, Username: u.Username, Role: u.Role},
		usecase.PlaceOrderInput{ShippingAddress: "1 Main Street"})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Username)
	require.Len(t, out.Items, 1)
	assert.NotZero(t, out.Items[0].ID)

	gotA, err := NewProductGormRepository(gdb).FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gotA.Stock)
}

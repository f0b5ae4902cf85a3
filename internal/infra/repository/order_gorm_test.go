package repository

import (
	"context"
	"errors"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T, r repo.TxRepos, userID int64, status model.OrderStatus, total int64, items ...model.OrderItem) model.Order {
	t.Helper()
	ctx := context.Background()
	o, err := r.Orders().Create(ctx, model.Order{
		UserID:          userID,
		TotalAmount:     decimal.NewFromInt(total),
		Status:          status,
		ShippingAddress: "123 Main St",
	})
	require.NoError(t, err)
	require.NoError(t, r.OrderItems().CreateBulk(ctx, o.ID, items))
	return o
}

func TestOrder_ListAndAggregates(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	alice := seedUser(t, gdb, "alice")
	bob := seedUser(t, gdb, "bob")
	c := seedCategory(t, gdb, "Phones")
	p := seedProduct(t, gdb, c.ID, "X1", 100, 5)

	r := NewRepos(gdb)
	o1 := createOrder(t, r, alice.ID, model.OrderStatusPending, 300,
		model.OrderItem{ProductID: p.ID, ProductName: p.Name, Model: p.Model, Quantity: 3, Price: p.Price})
	o2 := createOrder(t, r, alice.ID, model.OrderStatusCancelled, 100,
		model.OrderItem{ProductID: p.ID, ProductName: p.Name, Model: p.Model, Quantity: 1, Price: p.Price})
	createOrder(t, r, bob.ID, model.OrderStatusDelivered, 200)

	mine, err := r.Orders().ListByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// 新しい順
	assert.Equal(t, o2.ID, mine[0].ID)
	assert.Equal(t, o1.ID, mine[1].ID)

	cancelled := model.OrderStatusCancelled
	onlyCancelled, err := r.Orders().List(ctx, repo.OrderListFilter{Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, onlyCancelled, 1)

	byStatus, err := r.Orders().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStatus[model.OrderStatusPending])
	assert.Equal(t, int64(1), byStatus[model.OrderStatusCancelled])
	assert.Equal(t, int64(1), byStatus[model.OrderStatusDelivered])

	revenue, err := r.Orders().Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(revenue), revenue.String())

	totals, err := r.Orders().TotalsByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Count)
	assert.True(t, decimal.NewFromInt(300).Equal(totals.Spent), totals.Spent.String())

	itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, []int64{o1.ID, o2.ID})
	require.NoError(t, err)
	assert.Len(t, itemsByOrder[o1.ID], 1)
	assert.Equal(t, int64(3), itemsByOrder[o1.ID][0].Quantity)

	n, err := r.OrderItems().CountByProductID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	alice := seedUser(t, gdb, "alice")
	c := seedCategory(t, gdb, "Phones")
	p := seedProduct(t, gdb, c.ID, "X1", 100, 5)

	boom := errors.New("boom")
	tm := NewTxManagerGorm(gdb)

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, 3)
		require.NoError(t, err)
		require.True(t, ok)

		createOrder(t, r, alice.ID, model.OrderStatusPending, 300)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewProductGormRepository(gdb).FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)

	n, err := NewOrderGormRepository(gdb).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestOrder_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	alice := seedUser(t, gdb, "alice")
	r := NewRepos(gdb)
	o := createOrder(t, r, alice.ID, model.OrderStatusPending, 10)

	require.NoError(t, r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusConfirmed))
	got, err := r.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, got.Status)

	assert.ErrorIs(t, r.Orders().UpdateStatus(ctx, 999, model.OrderStatusShipped), repo.ErrNotFound)
	_, err = r.Orders().FindByID(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

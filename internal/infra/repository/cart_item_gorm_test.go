package repository

import (
	"context"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItem_AddQuantity_MergesIntoOneRow(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "alice")
	c := seedCategory(t, gdb, "Phones")
	p := seedProduct(t, gdb, c.ID, "X1", 100, 10)

	carts := NewCartItemGormRepository(gdb)

	first, err := carts.AddQuantity(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Quantity)

	second, err := carts.AddQuantity(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), second.Quantity)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, gdb.Model(&model.CartItem{}).Where("user_id = ?", u.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCartItem_SetQuantityAndDelete(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "alice")
	other := seedUser(t, gdb, "bob")
	c := seedCategory(t, gdb, "Phones")
	p := seedProduct(t, gdb, c.ID, "X1", 100, 10)

	carts := NewCartItemGormRepository(gdb)

	_, err := carts.SetQuantity(ctx, u.ID, p.ID, 4)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = carts.AddQuantity(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddQuantity(ctx, other.ID, p.ID, 1)
	require.NoError(t, err)

	it, err := carts.SetQuantity(ctx, u.ID, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), it.Quantity)

	require.NoError(t, carts.Delete(ctx, u.ID, p.ID))
	// 2回目も成功（冪等）
	require.NoError(t, carts.Delete(ctx, u.ID, p.ID))

	_, err = carts.FindByUserAndProduct(ctx, u.ID, p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// 他人のカートは残る
	items, err := carts.ListByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, carts.DeleteByUserID(ctx, other.ID))
	items, err = carts.ListByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

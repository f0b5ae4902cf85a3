package repository

import (
	"context"
	"testing"

	"estore/internal/domain/model"
	"estore/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テストごとに新しいインメモリDB
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		Enabled:      true,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedCategory(t *testing.T, gdb *gorm.DB, name string) model.Category {
	t.Helper()
	c, err := NewCategoryGormRepository(gdb).Create(context.Background(), model.Category{Name: name})
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, gdb *gorm.DB, categoryID int64, modelCode string, price int64, stock int64) model.Product {
	t.Helper()
	p, err := NewProductGormRepository(gdb).Create(context.Background(), model.Product{
		Name:        "Product " + modelCode,
		Description: "desc of " + modelCode,
		Price:       decimal.NewFromInt(price),
		Model:       modelCode,
		CategoryID:  categoryID,
		Stock:       stock,
	})
	require.NoError(t, err)
	return p
}

package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
	"estore/internal/repository/mocks"
	"estore/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUser_Profile(t *testing.T) {
	users := new(mocks.UserRepoMock)
	orders := new(mocks.OrderRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Username: "alice", Email: "a@example.com", Role: model.RoleUser}, nil)
	orders.On("TotalsByUserID", mock.Anything, int64(1)).Return(repo.OrderTotals{Count: 2, Spent: decimal.NewFromInt(300)}, nil)

	p, err := usecase.NewUserUsecase(users, orders).Profile(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, int64(2), p.TotalOrders)
	assert.True(t, decimal.NewFromInt(300).Equal(p.TotalSpent))
}

func TestUser_UpdateProfile_EmailTaken(t *testing.T) {
	users := new(mocks.UserRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Username: "alice", Email: "a@example.com"}, nil)
	users.On("FindByEmail", mock.Anything, "b@example.com").Return(&model.User{ID: 2, Username: "bob", Email: "b@example.com"}, nil)

	_, err := usecase.NewUserUsecase(users, new(mocks.OrderRepoMock)).
		UpdateProfile(context.Background(), alice, usecase.UpdateProfileInput{Username: "alice", Email: "b@example.com"})
	assertHTTPError(t, err, http.StatusConflict, "email")
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_UpdateProfile_Invalid(t *testing.T) {
	_, err := usecase.NewUserUsecase(new(mocks.UserRepoMock), new(mocks.OrderRepoMock)).
		UpdateProfile(context.Background(), alice, usecase.UpdateProfileInput{Username: "alice", Email: "nope"})
	assertHTTPError(t, err, http.StatusBadRequest, "email should be valid")
}

func TestUser_Me_Anonymous(t *testing.T) {
	_, err := usecase.NewUserUsecase(new(mocks.UserRepoMock), new(mocks.OrderRepoMock)).Me(context.Background(), model.Identity{})
	assertHTTPError(t, err, http.StatusUnauthorized, "")
}

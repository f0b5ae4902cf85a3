package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"estore/internal/domain/model"
	repo "estore/internal/repository"
	"estore/internal/repository/mocks"
	"estore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectOrderOutput(r *mocks.TxRepos, orderID int64, userID int64) {
	r.OrderItemsRepo.On("ListByOrderIDs", mock.Anything, []int64{orderID}).Return(map[int64][]model.OrderItem{}, nil)
	r.UsersRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Username: "alice"}, nil)
}

func TestAdminOrder_UpdateStatus_Confirm(t *testing.T) {
	tx, r := newTx()

	r.OrdersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusPending}, nil).Once()
	r.OrdersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusConfirmed}, nil).Once()
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusConfirmed).Return(nil)
	r.AuditLogsRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == admin.UserID &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceID == 7 &&
			l.BeforeJSON == `{"status":"PENDING"}` &&
			l.AfterJSON == `{"status":"CONFIRMED"}`
	})).Return(nil)
	expectOrderOutput(r, 7, 1)

	out, err := usecase.NewAdminOrderUsecase(tx).UpdateStatus(context.Background(), admin, 7, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", out.Status)
	r.AuditLogsRepo.AssertExpectations(t)
	r.InventoryRepo.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrder_UpdateStatus_CancelRestoresStock(t *testing.T) {
	tx, r := newTx()

	r.OrdersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusConfirmed}, nil).Once()
	r.OrdersRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusCancelled}, nil).Once()
	r.OrderItemsRepo.On("ListByOrderID", mock.Anything, int64(7)).
		Return([]model.OrderItem{{OrderID: 7, ProductID: 10, Quantity: 3}}, nil)
	r.InventoryRepo.On("IncreaseStock", mock.Anything, int64(10), int64(3)).Return(nil)
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)
	r.AuditLogsRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	expectOrderOutput(r, 7, 1)

	out, err := usecase.NewAdminOrderUsecase(tx).UpdateStatus(context.Background(), admin, 7, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	r.InventoryRepo.AssertExpectations(t)
}

func TestAdminOrder_UpdateStatus_IllegalTransition(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		to   string
	}{
		{model.OrderStatusPending, "SHIPPED"},
		{model.OrderStatusPending, "DELIVERED"},
		{model.OrderStatusShipped, "CANCELLED"},
		{model.OrderStatusDelivered, "PENDING"},
		{model.OrderStatusCancelled, "CONFIRMED"},
	}
	for _, tc := range cases {
		tx, r := newTx()
		r.OrdersRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 1, Status: tc.from}, nil)

		_, err := usecase.NewAdminOrderUsecase(tx).UpdateStatus(context.Background(), admin, 7, tc.to)
		assertHTTPError(t, err, http.StatusUnprocessableEntity, "invalid status transition")
		r.OrdersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	}
}

// 同じステータスへの更新は何もしない
func TestAdminOrder_UpdateStatus_SameStatusNoop(t *testing.T) {
	tx, r := newTx()
	r.OrdersRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusShipped}, nil)
	expectOrderOutput(r, 7, 1)

	out, err := usecase.NewAdminOrderUsecase(tx).UpdateStatus(context.Background(), admin, 7, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", out.Status)
	r.OrdersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	r.AuditLogsRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminOrder_UpdateStatus_UnknownStatus(t *testing.T) {
	tx, _ := newTx()
	_, err := usecase.NewAdminOrderUsecase(tx).UpdateStatus(context.Background(), admin, 7, "LOST")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
}

func TestAdminOrder_List_FilterByStatus(t *testing.T) {
	tx, r := newTx()
	st := model.OrderStatusPending
	r.OrdersRepo.On("List", mock.Anything, repo.OrderListFilter{Status: &st}).
		Return([]model.Order{{ID: 3, UserID: 1, Status: st}}, nil)
	expectOrderOutput(r, 3, 1)

	outs, err := usecase.NewAdminOrderUsecase(tx).List(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "alice", outs[0].Username)
}

func TestAdminOrder_List_BadStatus(t *testing.T) {
	tx, _ := newTx()
	outs, err := usecase.NewAdminOrderUsecase(tx).List(context.Background(), "nope")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
	assert.Empty(t, outs)
}

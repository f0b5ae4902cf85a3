package usecase_test

import (
	"testing"

	"estore/internal/domain/model"
	"estore/internal/repository/mocks"
	"estore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	alice = model.Identity{UserID: 1, Username: "alice", Role: model.RoleUser}
	bob   = model.Identity{UserID: 2, Username: "bob", Role: model.RoleUser}
	admin = model.Identity{UserID: 9, Username: "admin", Role: model.RoleAdmin}
)

// WithinTx がそのまま fn を呼ぶ TxManager
func newTx() (*mocks.TxManagerMock, *mocks.TxRepos) {
	repos := mocks.NewTxRepos()
	tx := &mocks.TxManagerMock{Repos: repos}
	tx.On("WithinTx", mock.Anything).Return(nil)
	return tx, repos
}

// HTTPError のステータスを確認（メッセージは部分一致）
func assertHTTPError(t *testing.T, err error, status int, wantSubstr string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "want *HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	if wantSubstr != "" {
		assert.Contains(t, he.Message, wantSubstr)
	}
}

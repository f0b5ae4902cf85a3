package repository

import (
	"errors"

	repo "estore/internal/repository"

	"gorm.io/gorm"
)

// GORMのエラーを repository パッケージのエラーに寄せる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repo.ErrReferenced
	default:
		return err
	}
}

// 更新系で0件なら ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

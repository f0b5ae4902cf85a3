package repository

import "errors"

var (
	// 対象の行がない
	ErrNotFound = errors.New("not found")

	// 一意制約違反（username/email/name/model など）
	ErrDuplicate = errors.New("duplicate")

	// 他のテーブルから参照されている（FK制約違反）
	ErrReferenced = errors.New("referenced by other rows")
)

package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// USER/ADMIN以外はfalse
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ユーザー。パスワードはbcryptハッシュのみ保存する。
// レスポンスには直接出さない（usecase側のDTOに詰め替える）。
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'USER'"`
	Enabled      bool      `gorm:"not null;default:true"`
	TokenVersion int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime"`
}

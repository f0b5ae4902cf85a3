package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:varchar(1000)" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Model       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"model"`
	CategoryID  int64           `gorm:"not null;index" json:"categoryId"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	// FK制約を張るためだけの参照。preloadしないしJSONにも出さない。
	Category *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

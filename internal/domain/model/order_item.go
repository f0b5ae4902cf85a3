package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。商品名・型番・価格は注文時点のスナップショットで、後から更新しない。
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"orderId"`
	ProductID   int64           `gorm:"not null;index" json:"productId"`
	ProductName string          `gorm:"type:varchar(100);not null" json:"productName"`
	Model       string          `gorm:"type:varchar(50);not null" json:"model"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`

	Order   *Order   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// 小計 = 価格 × 数量
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}

package model

import "time"

// カートの明細。(user_id, product_id) で1行。
// 価格は持たない（表示時に商品の現在価格で計算する）。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:ux_cart_items_user_product" json:"userId"`
	ProductID int64     `gorm:"not null;uniqueIndex:ux_cart_items_user_product;index" json:"productId"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"addedAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

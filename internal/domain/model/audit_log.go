package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionUpdateUserRole    AuditAction = "UPDATE_USER_ROLE"
	AuditActionUpdateUserStatus  AuditAction = "UPDATE_USER_STATUS"
	AuditActionDeleteUser        AuditAction = "DELETE_USER"
	AuditActionDeleteProduct     AuditAction = "DELETE_PRODUCT"
	AuditActionDeleteCategory    AuditAction = "DELETE_CATEGORY"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceCategory AuditResourceType = "category"
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceUser     AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID
	ActorUserID int64 `gorm:"not null;index" json:"actorUserId"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   int64             `gorm:"not null;index" json:"resourceId"`

	//JSON文字列で保存する
	BeforeJSON string `gorm:"type:text" json:"before"`
	AfterJSON  string `gorm:"type:text" json:"after"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
}

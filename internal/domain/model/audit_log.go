package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionSetStock          AuditAction = "SET_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionDeleteOrder       AuditAction = "DELETE_ORDER"
	AuditActionCreateUser        AuditAction = "CREATE_USER"
	AuditActionUpdateUserRole    AuditAction = "UPDATE_USER_ROLE"
	AuditActionDeleteUser        AuditAction = "DELETE_USER"
	AuditActionDeleteDiscount    AuditAction = "DELETE_DISCOUNT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceUser     AuditResourceType = "user"
	AuditResourceDiscount AuditResourceType = "discount"
)

// 監査ログ
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actorUserId"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   int64             `gorm:"not null;index" json:"resourceId"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"beforeJson"`
	AfterJSON  string `gorm:"type:text" json:"afterJson"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime" json:"createdAt"`
}

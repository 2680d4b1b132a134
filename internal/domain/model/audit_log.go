package model

import "time"

// 注文ステータス更新、キャンセル、商品削除など。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//注文をキャンセルした操作。
	AuditActionCancelOrder AuditAction = "CANCEL_ORDER"
	//商品を削除した操作。
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"
	//商品の販売可否を切り替えた操作。
	AuditActionToggleAvailability AuditAction = "TOGGLE_AVAILABILITY"
	//レストランの営業状態を切り替えた操作。
	AuditActionToggleRestaurant AuditAction = "TOGGLE_RESTAURANT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder      AuditResourceType = "order"
	AuditResourceProduct    AuditResourceType = "product"
	AuditResourceRestaurant AuditResourceType = "restaurant"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

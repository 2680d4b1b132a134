package repository

import (
	"context"
	"time"

	"delivery/internal/domain/model"
)

// 監査ログ一覧の条件（nil は絞り込みなし）
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	// 状態変更と同じ tx で書く
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順。total は Limit/Offset 適用前の件数
	List(ctx context.Context, filter AuditLogFilter) (logs []model.AuditLog, total int64, err error)
}

package usecase

import (
	"context"
	"strings"
	"time"

	"delivery/internal/domain/model"
	repo "delivery/internal/repository"
)

const (
	DefaultAuditLogLimit = 50
	MaxAuditLogLimit     = 200
)

// 監査ログの参照（ADMIN 用）
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

type ListAuditLogsInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type AuditLogPage struct {
	Items  []model.AuditLog `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

var auditActions = map[model.AuditAction]struct{}{
	model.AuditActionUpdateOrderStatus:  {},
	model.AuditActionCancelOrder:        {},
	model.AuditActionDeleteProduct:      {},
	model.AuditActionToggleAvailability: {},
	model.AuditActionToggleRestaurant:   {},
}

var auditResourceTypes = map[model.AuditResourceType]struct{}{
	model.AuditResourceOrder:      {},
	model.AuditResourceProduct:    {},
	model.AuditResourceRestaurant: {},
}

func (u *AuditLogUsecase) List(ctx context.Context, in ListAuditLogsInput) (AuditLogPage, error) {
	fields := map[string]string{}
	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		From:        in.From,
		To:          in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}

	if a := strings.ToUpper(strings.TrimSpace(in.Action)); a != "" {
		action := model.AuditAction(a)
		if _, ok := auditActions[action]; !ok {
			fields["action"] = "unknown action"
		}
		filter.Action = &action
	}
	if rt := strings.ToLower(strings.TrimSpace(in.ResourceType)); rt != "" {
		resourceType := model.AuditResourceType(rt)
		if _, ok := auditResourceTypes[resourceType]; !ok {
			fields["resource_type"] = "unknown resource type"
		}
		filter.ResourceType = &resourceType
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		fields["to"] = "must not be before from"
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultAuditLogLimit
	}
	if filter.Limit < 0 || filter.Limit > MaxAuditLogLimit {
		fields["limit"] = "must be between 1 and 200"
	}
	if filter.Offset < 0 {
		fields["offset"] = "must not be negative"
	}
	if len(fields) > 0 {
		return AuditLogPage{}, Validation(fields)
	}

	logs, total, err := u.logs.List(ctx, filter)
	if err != nil {
		return AuditLogPage{}, Internal(err)
	}
	return AuditLogPage{Items: nonNil(logs), Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

package handler

import (
	"net/http"

	"delivery/internal/config"
	"delivery/internal/domain/model"
	"delivery/internal/repository"
	"delivery/internal/usecase"
	"delivery/internal/validator"

	"github.com/labstack/echo/v4"
)

// GET /api/admin/audit-logs
type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/api/admin")
	admin.Use(authChain(cfg, userRepo, model.RoleAdmin)...)

	admin.GET("/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	fields := validator.Fields{}
	in := usecase.ListAuditLogsInput{
		ActorUserID:  optionalInt64(c, "actor_user_id", fields),
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   optionalInt64(c, "resource_id", fields),
		From:         optionalTime(c, "from", false, fields),
		To:           optionalTime(c, "to", true, fields),
		Limit:        optionalInt(c, "limit", fields),
		Offset:       optionalInt(c, "offset", fields),
	}
	if !fields.Empty() {
		return invalidFields(c, fields)
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

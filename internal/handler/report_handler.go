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

// /api/reports（ADMIN のみ）
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/reports")
	g.Use(authChain(cfg, userRepo, model.RoleAdmin)...)

	g.GET("/sales-by-restaurant", h.salesByRestaurant)
	g.GET("/top-products", h.topProducts)
	g.GET("/active-customers", h.activeCustomers)
	g.GET("/orders-by-period", h.ordersByPeriod)
}

func (h *ReportHandler) salesByRestaurant(c echo.Context) error {
	out, err := h.uc.SalesByRestaurant(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) topProducts(c echo.Context) error {
	fields := validator.Fields{}
	limit := optionalInt(c, "limit", fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}

	out, err := h.uc.TopProducts(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) activeCustomers(c echo.Context) error {
	fields := validator.Fields{}
	limit := optionalInt(c, "limit", fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}

	out, err := h.uc.ActiveCustomers(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) ordersByPeriod(c echo.Context) error {
	fields := validator.Fields{}
	from := optionalTime(c, "from", false, fields)
	to := optionalTime(c, "to", true, fields)
	if from == nil && fields["from"] == "" {
		fields["from"] = "is required"
	}
	if to == nil && fields["to"] == "" {
		fields["to"] = "is required"
	}
	if !fields.Empty() {
		return invalidFields(c, fields)
	}

	out, err := h.uc.OrdersByPeriod(c.Request().Context(), *from, *to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

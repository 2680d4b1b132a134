package server

import (
	"delivery/internal/config"
	"delivery/internal/handler"
	"delivery/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers は起動時に組み立てたハンドラ一式
type Handlers struct {
	Auth       *handler.AuthHandler
	Customer   *handler.CustomerHandler
	Restaurant *handler.RestaurantHandler
	Product    *handler.ProductHandler
	Order      *handler.OrderHandler
	Report     *handler.ReportHandler
	AuditLog   *handler.AuditLogHandler
	Health     *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Health.RegisterRoutes(e)

	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Customer.RegisterRoutes(e, cfg, userRepo)
	h.Restaurant.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Report.RegisterRoutes(e, cfg, userRepo)
	h.AuditLog.RegisterRoutes(e, cfg, userRepo)
}

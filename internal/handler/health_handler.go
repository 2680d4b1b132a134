package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// 依存先の疎通確認
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc は関数を Pinger として使う
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
}

func (h *HealthHandler) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res := healthResponse{Status: "UP", Checks: map[string]string{}}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			zerolog.Ctx(c.Request().Context()).Warn().Err(err).Str("check", name).Msg("health check failed")
			res.Checks[name] = "DOWN"
			res.Status = "DOWN"
			continue
		}
		res.Checks[name] = "UP"
	}

	if res.Status != "UP" {
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}

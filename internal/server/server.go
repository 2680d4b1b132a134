package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"delivery/internal/config"
	"delivery/internal/middleware"
	"delivery/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// New は共通ミドルウェアとルートを設定した echo を返す
func New(cfg config.Config, logger zerolog.Logger, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.HeaderCorrelationID},
		ExposeHeaders: []string{
			middleware.HeaderCorrelationID,
			echo.HeaderLocation,
		},
	}))
	e.Use(middleware.CorrelationID())
	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, cfg, userRepo, h)
	return e
}

// Start は ctx が終わるまでサーバーを動かし、そのあと graceful shutdown する
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderCorrelationID   = "X-Correlation-ID"
	CtxCorrelationIDKey   = "correlation_id"
	maxCorrelationIDBytes = 128
)

type correlationIDCtxKey struct{}

// X-Correlation-ID を引き継ぐ（無ければ uuid を振る）。
// レスポンスヘッダにも同じ値を返す。
func CorrelationID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderCorrelationID))
			if id == "" || len(id) > maxCorrelationIDBytes {
				id = uuid.NewString()
			}

			c.Set(CtxCorrelationIDKey, id)
			c.Response().Header().Set(HeaderCorrelationID, id)

			ctx := context.WithValue(c.Request().Context(), correlationIDCtxKey{}, id)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// context から correlation id を取り出す。無ければ空文字
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDCtxKey{}).(string)
	return id
}

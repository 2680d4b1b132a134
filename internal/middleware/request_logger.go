package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// 1リクエスト1行のアクセスログ。
// リクエスト用の子ロガーを context に入れるので、後段は zerolog.Ctx(ctx) で使える。
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqLogger := base.With().
				Str("request_id", CorrelationIDFrom(req.Context())).
				Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// echo の HTTPErrorHandler にレスポンスを書かせてからステータスを読む
				c.Error(err)
			}

			ev := reqLogger.Info()
			status := c.Response().Status
			if status >= 500 {
				ev = reqLogger.Error()
			}
			if uid, ok := c.Get(CtxUserIDKey).(int64); ok {
				ev = ev.Int64("user_id", uid)
			}
			ev.Str("method", req.Method).
				Str("uri", req.RequestURI).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request completed")

			return nil
		}
	}
}

package middleware

import (
	"delivery/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleが許可リストにあるか確認します。
// AuthJWT の後ろで使う。
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return unauthorized(c)
			}

			for _, r := range roles {
				if model.Role(role) == r {
					return next(c)
				}
			}
			return forbidden(c)
		}
	}
}

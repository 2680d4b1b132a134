package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserEmailKey    = "user_email"    // string
	CtxUserRoleKey     = "user_role"     // string
	CtxRestaurantIDKey = "restaurant_id" // int64（RESTAURANTE のときだけ）
	CtxTokenVersionKey = "token_version" // int
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return unauthorized(c)
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(c)
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return unauthorized(c)
			}

			//JWTをパースして検証する（exp もここで見る）
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return unauthorized(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}

			userID, err := parseInt64(claims["sub"])
			if err != nil || userID <= 0 {
				return unauthorized(c)
			}

			//roleを取り出す（ADMIN/CLIENTE/RESTAURANTE）
			role, err := parseString(claims["role"])
			if err != nil || role == "" {
				return unauthorized(c)
			}

			tv, err := parseInt(claims["tv"])
			if err != nil || tv < 0 {
				return unauthorized(c)
			}

			email, _ := parseString(claims["email"])

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserEmailKey, email)
			c.Set(CtxUserRoleKey, role)
			c.Set(CtxTokenVersionKey, tv)
			if raw, ok := claims["rid"]; ok {
				if rid, err := parseInt64(raw); err == nil && rid > 0 {
					c.Set(CtxRestaurantIDKey, rid)
				}
			}

			return next(c)
		}
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

func errorJSON(code, msg string) errorResponse {
	return errorResponse{Error: msg, Code: code, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED", "unauthorized"))
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, errorJSON("ACCESS_DENIED", "access denied"))
}

// subやridをint64に変換する
func parseInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid id")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}

func parseInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		i64, err := strconv.ParseInt(t, 10, 32)
		if err != nil {
			return 0, err
		}
		return int(i64), nil
	default:
		return 0, errors.New("invalid int")
	}
}

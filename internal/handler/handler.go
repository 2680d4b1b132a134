package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"delivery/internal/config"
	"delivery/internal/domain/model"
	"delivery/internal/middleware"
	"delivery/internal/repository"
	"delivery/internal/usecase"
	"delivery/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// エラーレスポンスの形
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// SuccessResponse は { message: string } の形
type SuccessResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(code, msg string, details map[string]string) ErrorResponse {
	return ErrorResponse{
		Error:     msg,
		Code:      code,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	logger := zerolog.Ctx(c.Request().Context())

	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			logger.Error().Err(he.Err).Str("code", he.Code).Msg(he.Message)
			return c.JSON(he.Status, newErrorResponse(he.Code, "internal error", nil))
		}
		return c.JSON(he.Status, newErrorResponse(he.Code, he.Message, he.Details))
	}

	//500
	logger.Error().Err(err).Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, newErrorResponse(usecase.CodeInternal, "internal error", nil))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, newErrorResponse(usecase.CodeBadRequest, msg, nil))
}

func invalidFields(c echo.Context, fields validator.Fields) error {
	return writeError(c, usecase.Validation(fields))
}

// 認証つきルートのミドルウェア。roles を渡すとロールも絞る
func authChain(cfg config.Config, userRepo repository.UserRepository, roles ...model.Role) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg.JWTSecret),
		middleware.TokenVersionGuard(userRepo),
	}
	if len(roles) > 0 {
		mw = append(mw, middleware.RequireRoles(roles...))
	}
	return mw
}

// グループ側で認証済みのときにロールだけ絞る
func middlewareFor(roles ...model.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{middleware.RequireRoles(roles...)}
}

//middleware.AuthJWT が c.Set した値を取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// JWT の claims から呼び出し元を組み立てる
func principalFrom(c echo.Context) (usecase.Principal, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return usecase.Principal{}, false
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	email, _ := c.Get(middleware.CtxUserEmailKey).(string)

	p := usecase.Principal{UserID: userID, Email: email, Role: model.Role(role)}
	if rid, ok := c.Get(middleware.CtxRestaurantIDKey).(int64); ok {
		p.RestaurantID = &rid
	}
	return p, true
}

func unauthorized(c echo.Context) error {
	return writeError(c, usecase.Unauthorized())
}

// パスの ID。不正なら 400 のエラーを返す（レスポンスは呼び出し側で書く）
func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// page / size / sort を読む（未指定は usecase 側の既定値）
func pageRequestFrom(c echo.Context) (usecase.PageRequest, validator.Fields) {
	var req usecase.PageRequest
	fields := validator.Fields{}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			fields["page"] = "must be a number"
		}
		req.Page = p
	}
	if v := c.QueryParam("size"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			fields["size"] = "must be a number"
		}
		req.Size = s
	}
	req.Sort = strings.TrimSpace(c.QueryParam("sort"))
	return req, fields
}

func optionalBool(c echo.Context, name string, fields validator.Fields) *bool {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		fields[name] = "must be true or false"
		return nil
	}
	return &b
}

func optionalInt64(c echo.Context, name string, fields validator.Fields) *int64 {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil || i <= 0 {
		fields[name] = "must be a positive number"
		return nil
	}
	return &i
}

func optionalInt(c echo.Context, name string, fields validator.Fields) int {
	v := c.QueryParam(name)
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		fields[name] = "must be a number"
		return 0
	}
	return i
}

// RFC3339 か日付だけ（2026-01-31）。endOfDay なら日付だけのときその日の終わりにする
func optionalTime(c echo.Context, name string, endOfDay bool, fields validator.Fields) *time.Time {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	if tm, err := time.Parse(time.RFC3339, v); err == nil {
		return &tm
	}
	tm, err := time.Parse("2006-01-02", v)
	if err != nil {
		fields[name] = "must be RFC3339 or YYYY-MM-DD"
		return nil
	}
	if endOfDay {
		tm = tm.Add(24*time.Hour - time.Nanosecond)
	}
	return &tm
}

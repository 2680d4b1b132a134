package handler

import (
	"errors"
	"net/http"

	"delivery/internal/config"
	"delivery/internal/repository"
	"delivery/internal/usecase"
	auth "delivery/internal/usecase/auth_usecase"
	"delivery/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	sessionUC  *auth.SessionUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	sessionUC *auth.SessionUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		sessionUC:  sessionUC,
	}
}

// /api/auth/register のリクエストボディ。
type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	RestaurantID *int64 `json:"restaurant_id"`
}

// /api/auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	authed := authChain(cfg, userRepo)
	g.GET("/me", h.me, authed...)
	g.POST("/logout", h.logout, authed...)
}

// POST /api/auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := validator.ValidateRegister(req.Email, req.Password, req.Name); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Role:         req.Role,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		return writeError(c, authError(err))
	}

	return c.JSON(http.StatusCreated, out)
}

// POST /api/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := validator.ValidateLogin(req.Email, req.Password); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, authError(err))
	}

	return c.JSON(http.StatusOK, out)
}

// GET /api/auth/me
func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.sessionUC.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, authError(err))
	}
	return c.JSON(http.StatusOK, user)
}

// POST /api/auth/logout（発行済みトークンを無効化）
func (h *AuthHandler) logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.sessionUC.Logout(c.Request().Context(), userID); err != nil {
		return writeError(c, authError(err))
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

// auth の番兵エラーを HTTP のエラーにする
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailFormat):
		return usecase.Validation(map[string]string{"email": "must be a valid email"})
	case errors.Is(err, auth.ErrPasswordTooShort):
		return usecase.Validation(map[string]string{"password": "must be at least 6 characters"})
	case errors.Is(err, auth.ErrWeakPassword):
		return usecase.Validation(map[string]string{"password": "is too common"})
	case errors.Is(err, auth.ErrInvalidRole):
		return usecase.Validation(map[string]string{"role": "must be CLIENTE or RESTAURANTE"})
	case errors.Is(err, auth.ErrRestaurantRequired):
		return usecase.Validation(map[string]string{"restaurant_id": "is required for RESTAURANTE"})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return &usecase.HTTPError{
			Status:  http.StatusConflict,
			Code:    usecase.CodeConflict,
			Message: "email already registered",
			Details: map[string]string{"field": "email"},
		}
	case errors.Is(err, auth.ErrRestaurantNotFound):
		return &usecase.HTTPError{
			Status:  http.StatusNotFound,
			Code:    usecase.CodeNotFound,
			Message: "restaurant not found",
			Details: map[string]string{"field": "restaurant_id"},
		}
	case errors.Is(err, auth.ErrRestaurantAlreadyLinked):
		return &usecase.HTTPError{
			Status:  http.StatusConflict,
			Code:    usecase.CodeConflict,
			Message: "restaurant already has a registered user",
			Details: map[string]string{"field": "restaurant_id"},
		}
	case errors.Is(err, auth.ErrAccountAlreadyExists):
		return &usecase.HTTPError{Status: http.StatusConflict, Code: usecase.CodeConflict, Message: "account already registered"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &usecase.HTTPError{Status: http.StatusUnauthorized, Code: usecase.CodeUnauthorized, Message: "invalid email or password"}
	case errors.Is(err, auth.ErrUserInactive):
		return usecase.Forbidden("user is inactive")
	case errors.Is(err, auth.ErrUserNotFound):
		return usecase.Unauthorized()
	}
	return usecase.Internal(err)
}
